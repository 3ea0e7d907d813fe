package builtin

import (
	"github.com/markcheno/go-talib"
	"github.com/shopspring/decimal"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// FixedPercentStoploss places the stop a fixed percentage below the plan
// price; it has no side input and returns the same below-price stop for
// short entries. Price math runs through
// shopspring/decimal so repeated get() calls on the same plan price never
// drift by float64 rounding.
type FixedPercentStoploss struct {
	queryBase
	Percent float64
}

func NewFixedPercentStoploss(percent float64) *FixedPercentStoploss {
	return &FixedPercentStoploss{Percent: percent}
}

func (s *FixedPercentStoploss) Reset() {}

func (s *FixedPercentStoploss) Clone() plugin.Stoploss {
	c := *s
	return &c
}

func (s *FixedPercentStoploss) Get(_ core.Datetime, price float64) float64 {
	if price <= 0 || s.Percent <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	pct := decimal.NewFromFloat(s.Percent)
	stop := p.Mul(decimal.NewFromInt(1).Sub(pct))
	f, _ := stop.Round(8).Float64()
	return f
}

// ATRStoploss places the stop a multiple of ATR below the plan price,
// recomputed bar by bar as ATR evolves.
type ATRStoploss struct {
	queryBase
	Period     int
	Multiplier float64

	atr []float64
}

func NewATRStoploss(period int, multiplier float64) *ATRStoploss {
	if period <= 0 {
		period = 14
	}
	if multiplier <= 0 {
		multiplier = 2
	}
	return &ATRStoploss{Period: period, Multiplier: multiplier}
}

func (s *ATRStoploss) SetTO(k core.KRecordList) {
	s.queryBase.SetTO(k)
	highs := make([]float64, len(k))
	lows := make([]float64, len(k))
	closes := make([]float64, len(k))
	for i, bar := range k {
		highs[i], lows[i], closes[i] = bar.High, bar.Low, bar.Close
	}
	s.atr = talib.Atr(highs, lows, closes, s.Period)
}

func (s *ATRStoploss) Reset() { s.atr = nil }

func (s *ATRStoploss) Clone() plugin.Stoploss {
	c := *s
	c.atr = append([]float64(nil), s.atr...)
	return &c
}

func (s *ATRStoploss) Get(dt core.Datetime, price float64) float64 {
	idx := s.indexOf(dt)
	if idx < 0 || idx >= len(s.atr) || s.atr[idx] == 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	a := decimal.NewFromFloat(s.atr[idx]).Mul(decimal.NewFromFloat(s.Multiplier))
	f, _ := p.Sub(a).Round(8).Float64()
	if f < 0 {
		return 0
	}
	return f
}
