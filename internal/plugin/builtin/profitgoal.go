package builtin

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// FixedRatioProfitGoal targets a price Ratio above (or, mirrored by the
// caller for shorts, below) whatever price it is asked about.
type FixedRatioProfitGoal struct {
	queryBase
	Ratio float64
}

func NewFixedRatioProfitGoal(ratio float64) *FixedRatioProfitGoal {
	return &FixedRatioProfitGoal{Ratio: ratio}
}

func (g *FixedRatioProfitGoal) Reset() {}

func (g *FixedRatioProfitGoal) Clone() plugin.ProfitGoal {
	c := *g
	return &c
}

func (g *FixedRatioProfitGoal) Get(_ core.Datetime, price float64) float64 {
	if price <= 0 || g.Ratio <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	goal := p.Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(g.Ratio)))
	f, _ := goal.Round(8).Float64()
	return f
}
