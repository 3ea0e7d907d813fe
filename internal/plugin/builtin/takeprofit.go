package builtin

import (
	"github.com/markcheno/go-talib"
	"github.com/shopspring/decimal"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// ATRTrailingTakeProfit offers a stop a multiple of ATR below the bar's
// close. The Trading System itself enforces the tp_monotonic ratchet; this
// plugin only ever reports the raw, unratcheted candidate for the bar.
type ATRTrailingTakeProfit struct {
	queryBase
	Period     int
	Multiplier float64

	atr []float64
}

func NewATRTrailingTakeProfit(period int, multiplier float64) *ATRTrailingTakeProfit {
	if period <= 0 {
		period = 14
	}
	if multiplier <= 0 {
		multiplier = 3
	}
	return &ATRTrailingTakeProfit{Period: period, Multiplier: multiplier}
}

func (t *ATRTrailingTakeProfit) SetTO(k core.KRecordList) {
	t.queryBase.SetTO(k)
	highs := make([]float64, len(k))
	lows := make([]float64, len(k))
	closes := make([]float64, len(k))
	for i, bar := range k {
		highs[i], lows[i], closes[i] = bar.High, bar.Low, bar.Close
	}
	t.atr = talib.Atr(highs, lows, closes, t.Period)
}

func (t *ATRTrailingTakeProfit) Reset() { t.atr = nil }

func (t *ATRTrailingTakeProfit) Clone() plugin.TakeProfit {
	c := *t
	c.atr = append([]float64(nil), t.atr...)
	return &c
}

func (t *ATRTrailingTakeProfit) Get(dt core.Datetime, price float64) float64 {
	idx := t.indexOf(dt)
	if idx < 0 || idx >= len(t.atr) || t.atr[idx] == 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	a := decimal.NewFromFloat(t.atr[idx]).Mul(decimal.NewFromFloat(t.Multiplier))
	f, _ := p.Sub(a).Round(8).Float64()
	if f < 0 {
		return 0
	}
	return f
}
