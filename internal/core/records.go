package core

// CostRecord breaks down the transaction cost charged for one trade.
// Invariant: Total equals the sum of the four components.
type CostRecord struct {
	Commission float64
	StampTax   float64
	Transfer   float64
	Other      float64
}

func (c CostRecord) Total() float64 {
	return c.Commission + c.StampTax + c.Transfer + c.Other
}

// TradeRecord is one executed trade, appended in execution order to a
// TradeManager's trade list.
type TradeRecord struct {
	Datetime  Datetime
	Stock     Stock
	Business  Business
	Price     float64
	Number    float64
	Cost      CostRecord
	PlanPrice float64
	Stoploss  float64
	GoalPrice float64
	RealPrice float64
	Part      Part

	CashAfter     float64
	PositionAfter float64
}

func NoneTrade(dt Datetime, stock Stock, part Part) TradeRecord {
	return TradeRecord{Datetime: dt, Stock: stock, Business: BusinessNone, Part: part}
}

func (t TradeRecord) IsNone() bool { return t.Business == BusinessNone }

// PositionRecord tracks one open holding. Number == 0 means flat.
type PositionRecord struct {
	Stock         Stock
	EntryDatetime Datetime
	Number        float64
	AvgCost       float64
	Stoploss      float64
	GoalPrice     float64
	TotalRisk     float64

	// LastTakeProfit mirrors m_lastTakeProfit: seeded on entry at the
	// real fill price, ratcheted upward while tp_monotonic holds, and
	// zeroed on full exit.
	LastTakeProfit float64
}

func (p PositionRecord) IsFlat() bool { return p.Number == 0 }

// OrderRequest is the deferred-order buffer for one direction. At most
// one live request per Direction may exist on a TradingSystem at a time.
type OrderRequest struct {
	Valid     bool
	Business  Business
	From      Part
	Datetime  Datetime
	PlanPrice float64
	Stoploss  float64
	Goal      float64
	Number    float64
	Count     int
}

func (r *OrderRequest) Clear() {
	*r = OrderRequest{}
}
