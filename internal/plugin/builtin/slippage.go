package builtin

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// FixedPercentSlippage models a constant bid-ask spread: buys fill a bit
// above plan, sells fill a bit below.
type FixedPercentSlippage struct {
	queryBase
	Percent float64
}

func NewFixedPercentSlippage(percent float64) *FixedPercentSlippage {
	return &FixedPercentSlippage{Percent: percent}
}

func (s *FixedPercentSlippage) Reset() {}

func (s *FixedPercentSlippage) Clone() plugin.Slippage {
	c := *s
	return &c
}

func (s *FixedPercentSlippage) GetRealBuyPrice(_ core.Datetime, planPrice float64) float64 {
	p := decimal.NewFromFloat(planPrice)
	pct := decimal.NewFromFloat(s.Percent)
	f, _ := p.Mul(decimal.NewFromInt(1).Add(pct)).Round(8).Float64()
	return f
}

func (s *FixedPercentSlippage) GetRealSellPrice(_ core.Datetime, planPrice float64) float64 {
	p := decimal.NewFromFloat(planPrice)
	pct := decimal.NewFromFloat(s.Percent)
	f, _ := p.Mul(decimal.NewFromInt(1).Sub(pct)).Round(8).Float64()
	return f
}
