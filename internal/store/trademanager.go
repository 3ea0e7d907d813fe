// Package store provides the TradeManager bookkeeping collaborator the
// Trading System drives: a cash/position ledger plus optional
// persistence of the resulting trade list.
package store

import (
	"fmt"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// SimTradeManager is an in-memory cash-and-position ledger. Buy/Sell
// variants compute the cash or borrowed-stock movement implied by a
// fill, reject when the move is disallowed, and otherwise append the
// fill to the trade list and update the relevant position.
type SimTradeManager struct {
	initCash     float64
	cash         float64
	init         core.Datetime
	longPos      map[string]core.PositionRecord
	shortPos     map[string]core.PositionRecord
	trades       []core.TradeRecord
	borrowCash   bool
	borrowStock  bool
}

func NewSimTradeManager(initCash float64, init core.Datetime) *SimTradeManager {
	return &SimTradeManager{
		initCash: initCash,
		cash:     initCash,
		init:     init,
		longPos:  make(map[string]core.PositionRecord),
		shortPos: make(map[string]core.PositionRecord),
	}
}

func (tm *SimTradeManager) Clone() plugin.TradeManager {
	out := &SimTradeManager{
		initCash:    tm.initCash,
		cash:        tm.cash,
		init:        tm.init,
		longPos:     make(map[string]core.PositionRecord, len(tm.longPos)),
		shortPos:    make(map[string]core.PositionRecord, len(tm.shortPos)),
		trades:      append([]core.TradeRecord(nil), tm.trades...),
		borrowCash:  tm.borrowCash,
		borrowStock: tm.borrowStock,
	}
	for k, v := range tm.longPos {
		out.longPos[k] = v
	}
	for k, v := range tm.shortPos {
		out.shortPos[k] = v
	}
	return out
}

func (tm *SimTradeManager) InitDatetime() core.Datetime { return tm.init }
func (tm *SimTradeManager) TradeList() []core.TradeRecord { return tm.trades }
func (tm *SimTradeManager) CashBalance() float64          { return tm.cash }

func (tm *SimTradeManager) SetParam(key string, value any) error {
	switch key {
	case "support_borrow_cash":
		b, _ := value.(bool)
		tm.borrowCash = b
	case "support_borrow_stock":
		b, _ := value.(bool)
		tm.borrowStock = b
	default:
		return fmt.Errorf("trademanager: unrecognised parameter: %s", key)
	}
	return nil
}

func (tm *SimTradeManager) Have(stock core.Stock) bool {
	return tm.longPos[stock.Identity()].Number > 0
}

func (tm *SimTradeManager) HaveShort(stock core.Stock) bool {
	return tm.shortPos[stock.Identity()].Number > 0
}

func (tm *SimTradeManager) GetPosition(stock core.Stock) core.PositionRecord {
	return tm.longPos[stock.Identity()]
}

func (tm *SimTradeManager) GetShortPosition(stock core.Stock) core.PositionRecord {
	return tm.shortPos[stock.Identity()]
}

func (tm *SimTradeManager) GetHoldNumber(_ core.Datetime, stock core.Stock) float64 {
	return tm.longPos[stock.Identity()].Number
}

// Buy opens or adds to a long position. Rejected (insufficient cash and
// borrowing disallowed) fills return a Business == NONE record and never
// touch the ledger.
func (tm *SimTradeManager) Buy(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord {
	cashOut := realPrice*num + cost.Total()
	if cashOut > tm.cash && !tm.borrowCash {
		return core.NoneTrade(dt, stock, from)
	}
	tm.cash -= cashOut
	pos := tm.longPos[stock.Identity()]
	pos.Stock = stock
	if pos.Number == 0 {
		pos.EntryDatetime = dt
	}
	totalCost := pos.AvgCost*pos.Number + realPrice*num
	pos.Number += num
	if pos.Number > 0 {
		pos.AvgCost = totalCost / pos.Number
	}
	pos.Stoploss = stoploss
	pos.GoalPrice = goal
	tm.longPos[stock.Identity()] = pos

	tr := core.TradeRecord{
		Datetime: dt, Stock: stock, Business: core.BusinessBuy, Price: realPrice, Number: num,
		Cost: cost, PlanPrice: planPrice, Stoploss: stoploss, GoalPrice: goal, RealPrice: realPrice,
		Part: from, CashAfter: tm.cash, PositionAfter: pos.Number,
	}
	tm.trades = append(tm.trades, tr)
	return tr
}

// Sell reduces or closes a long position. num is clamped by the caller to
// at most the held quantity.
func (tm *SimTradeManager) Sell(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord {
	pos := tm.longPos[stock.Identity()]
	if num <= 0 || num > pos.Number {
		return core.NoneTrade(dt, stock, from)
	}
	proceeds := realPrice*num - cost.Total()
	tm.cash += proceeds
	pos.Number -= num
	if pos.Number == 0 {
		pos.AvgCost, pos.Stoploss, pos.GoalPrice = 0, 0, 0
	}
	tm.longPos[stock.Identity()] = pos

	tr := core.TradeRecord{
		Datetime: dt, Stock: stock, Business: core.BusinessSell, Price: realPrice, Number: num,
		Cost: cost, PlanPrice: planPrice, Stoploss: stoploss, GoalPrice: goal, RealPrice: realPrice,
		Part: from, CashAfter: tm.cash, PositionAfter: pos.Number,
	}
	tm.trades = append(tm.trades, tr)
	return tr
}

// SellShort opens or adds to a short position; disallowed unless
// support_borrow_stock was set true via SetParam.
func (tm *SimTradeManager) SellShort(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord {
	if !tm.borrowStock {
		return core.NoneTrade(dt, stock, from)
	}
	proceeds := realPrice*num - cost.Total()
	tm.cash += proceeds
	pos := tm.shortPos[stock.Identity()]
	pos.Stock = stock
	if pos.Number == 0 {
		pos.EntryDatetime = dt
	}
	totalCost := pos.AvgCost*pos.Number + realPrice*num
	pos.Number += num
	if pos.Number > 0 {
		pos.AvgCost = totalCost / pos.Number
	}
	pos.Stoploss = stoploss
	pos.GoalPrice = goal
	tm.shortPos[stock.Identity()] = pos

	tr := core.TradeRecord{
		Datetime: dt, Stock: stock, Business: core.BusinessSellShort, Price: realPrice, Number: num,
		Cost: cost, PlanPrice: planPrice, Stoploss: stoploss, GoalPrice: goal, RealPrice: realPrice,
		Part: from, CashAfter: tm.cash, PositionAfter: pos.Number,
	}
	tm.trades = append(tm.trades, tr)
	return tr
}

// BuyShort covers (reduces or closes) a short position.
func (tm *SimTradeManager) BuyShort(dt core.Datetime, stock core.Stock, realPrice, num float64, cost core.CostRecord, planPrice, stoploss, goal float64, from core.Part) core.TradeRecord {
	pos := tm.shortPos[stock.Identity()]
	if num <= 0 || num > pos.Number {
		return core.NoneTrade(dt, stock, from)
	}
	cashOut := realPrice*num + cost.Total()
	if cashOut > tm.cash && !tm.borrowCash {
		return core.NoneTrade(dt, stock, from)
	}
	tm.cash -= cashOut
	pos.Number -= num
	if pos.Number == 0 {
		pos.AvgCost, pos.Stoploss, pos.GoalPrice = 0, 0, 0
	}
	tm.shortPos[stock.Identity()] = pos

	tr := core.TradeRecord{
		Datetime: dt, Stock: stock, Business: core.BusinessBuyShort, Price: realPrice, Number: num,
		Cost: cost, PlanPrice: planPrice, Stoploss: stoploss, GoalPrice: goal, RealPrice: realPrice,
		Part: from, CashAfter: tm.cash, PositionAfter: pos.Number,
	}
	tm.trades = append(tm.trades, tr)
	return tr
}
