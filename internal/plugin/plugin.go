// Package plugin declares the interfaces the Trading System drives a bar
// at a time: Environment, Condition, Signal, Stoploss, TakeProfit,
// ProfitGoal, MoneyManager, Slippage, TradeManager and CostModel.
package plugin

import "tradecore/internal/core"

// Cloneable is embedded by every plugin interface; clone() must return an
// independent deep copy so that sibling TradingSystem instances created by
// TradingSystem.Clone never share mutable plugin state.
type Cloneable[T any] interface {
	Clone() T
}

// Queryable plugins are bound to a candle series before a run and can be
// returned to their pristine state between runs.
type Queryable interface {
	SetTO(k core.KRecordList)
	Reset()
}

// Environment gates trading on macro/external validity, e.g. an index
// filter. isValid is a pure query: it must not depend on the TS calling
// it more than once per bar.
type Environment interface {
	Queryable
	Cloneable[Environment]
	IsValid(dt core.Datetime) bool
}

// Condition is a narrower, typically instrument-local gate. It may be
// wired to the TradeManager and Signal before use.
type Condition interface {
	Queryable
	Cloneable[Condition]
	IsValid(dt core.Datetime) bool
	SetTM(tm TradeManager)
	SetSG(sg Signal)
}

// Signal decides entries and exits. shouldBuy/shouldSell are not mutually
// exclusive; when both are true on the same bar, buy wins (arbitrary,
// preserved from the source behaviour being reproduced).
type Signal interface {
	Queryable
	Cloneable[Signal]
	ShouldBuy(dt core.Datetime) bool
	ShouldSell(dt core.Datetime) bool
}

// Stoploss and TakeProfit share a shape: given the current bar and the
// planned price, return a bound price, or 0 for "no such bound".
type Stoploss interface {
	Queryable
	Cloneable[Stoploss]
	Get(dt core.Datetime, price float64) float64
}

type TakeProfit interface {
	Queryable
	Cloneable[TakeProfit]
	Get(dt core.Datetime, price float64) float64
}

type ProfitGoal interface {
	Queryable
	Cloneable[ProfitGoal]
	Get(dt core.Datetime, price float64) float64
}

// MoneyManager turns a price and a risk (price - stoploss) into an order
// quantity, and is notified after every fill so it can track exposure.
type MoneyManager interface {
	Queryable
	Cloneable[MoneyManager]
	GetBuyNum(dt core.Datetime, stock core.Stock, price, risk float64, from core.Part) float64
	GetSellNum(dt core.Datetime, stock core.Stock, price, risk float64, from core.Part) float64
	GetSellShortNum(dt core.Datetime, stock core.Stock, price, risk float64, from core.Part) float64
	GetBuyShortNum(dt core.Datetime, stock core.Stock, price, risk float64, from core.Part) float64
	BuyNotify(tr core.TradeRecord)
	SellNotify(tr core.TradeRecord)
}

// Slippage converts a planned price into the price actually expected to
// fill, modelling market impact/bid-ask spread.
type Slippage interface {
	Queryable
	Cloneable[Slippage]
	GetRealBuyPrice(dt core.Datetime, planPrice float64) float64
	GetRealSellPrice(dt core.Datetime, planPrice float64) float64
}

// CostModel prices the commission/tax/transfer cost of a fill. Default
// borrow/return implementations are expected to return a zero CostRecord.
type CostModel interface {
	Cloneable[CostModel]
	GetBuyCost(dt core.Datetime, stock core.Stock, price, num float64) core.CostRecord
	GetSellCost(dt core.Datetime, stock core.Stock, price, num float64) core.CostRecord
	GetBorrowCashCost(dt core.Datetime, cash float64) core.CostRecord
	GetReturnCashCost(dt core.Datetime, borrow, ret, cash float64) core.CostRecord
	GetBorrowStockCost(dt core.Datetime, stock core.Stock, price, num float64) core.CostRecord
	GetReturnStockCost(dt core.Datetime, stock core.Stock, price, num float64) core.CostRecord
}

// TradeManager is the ledger of cash, positions and realised trades. A
// rejected order is reported as a TradeRecord with Business == NONE
// rather than an error, so the TS can continue bar processing.
type TradeManager interface {
	Cloneable[TradeManager]
	Buy(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord
	Sell(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord
	BuyShort(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord
	SellShort(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord
	GetPosition(stock core.Stock) core.PositionRecord
	GetShortPosition(stock core.Stock) core.PositionRecord
	Have(stock core.Stock) bool
	HaveShort(stock core.Stock) bool
	GetHoldNumber(dt core.Datetime, stock core.Stock) float64
	InitDatetime() core.Datetime
	SetParam(key string, value any) error
	TradeList() []core.TradeRecord
}
