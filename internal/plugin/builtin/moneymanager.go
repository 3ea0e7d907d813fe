package builtin

import (
	"tradecore/internal/core"
	"tradecore/internal/pkg/trading"
	"tradecore/internal/plugin"
)

// FixedCapitalMoneyManager commits a fixed fraction of Capital to every
// entry and, on exit, closes the whole held position via
// trading.CalcCloseAmount.
type FixedCapitalMoneyManager struct {
	queryBase
	Capital    float64
	EntryRatio float64 // fraction of Capital risked per entry

	holding map[string]float64
}

func NewFixedCapitalMoneyManager(capital, entryRatio float64) *FixedCapitalMoneyManager {
	if entryRatio <= 0 || entryRatio > 1 {
		entryRatio = 1
	}
	return &FixedCapitalMoneyManager{
		Capital:    capital,
		EntryRatio: entryRatio,
		holding:    make(map[string]float64),
	}
}

func (m *FixedCapitalMoneyManager) Reset() {
	m.holding = make(map[string]float64)
}

func (m *FixedCapitalMoneyManager) Clone() plugin.MoneyManager {
	c := *m
	c.holding = make(map[string]float64, len(m.holding))
	for k, v := range m.holding {
		c.holding[k] = v
	}
	return &c
}

func (m *FixedCapitalMoneyManager) entryNum(price float64) float64 {
	if price <= 0 {
		return 0
	}
	budget := m.Capital * m.EntryRatio
	if budget <= 0 {
		return 0
	}
	return budget / price
}

func (m *FixedCapitalMoneyManager) GetBuyNum(_ core.Datetime, stock core.Stock, price, _ float64, _ core.Part) float64 {
	return m.entryNum(price)
}

func (m *FixedCapitalMoneyManager) GetSellShortNum(_ core.Datetime, stock core.Stock, price, _ float64, _ core.Part) float64 {
	return m.entryNum(price)
}

func (m *FixedCapitalMoneyManager) GetSellNum(_ core.Datetime, stock core.Stock, _, _ float64, _ core.Part) float64 {
	held := m.holding[stock.Identity()]
	return trading.CalcCloseAmount(held, held, 1, false)
}

func (m *FixedCapitalMoneyManager) GetBuyShortNum(_ core.Datetime, stock core.Stock, _, _ float64, _ core.Part) float64 {
	held := m.holding[stock.Identity()]
	return trading.CalcCloseAmount(held, held, 1, false)
}

func (m *FixedCapitalMoneyManager) BuyNotify(tr core.TradeRecord) {
	m.holding[tr.Stock.Identity()] += tr.Number
}

func (m *FixedCapitalMoneyManager) SellNotify(tr core.TradeRecord) {
	held := m.holding[tr.Stock.Identity()] - tr.Number
	if held < 0 {
		held = 0
	}
	m.holding[tr.Stock.Identity()] = held
}
