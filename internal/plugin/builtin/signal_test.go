package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradecore/internal/core"
)

// barsFromCloses builds a daily series whose Close values are exactly
// closes, with a tight High/Low band so only the close feeds talib.Sma.
func barsFromCloses(closes []float64) core.KRecordList {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(core.KRecordList, len(closes))
	for i, c := range closes {
		out[i] = core.KRecord{
			Datetime: core.NewDatetime(base.AddDate(0, 0, i)),
			Open:     c, High: c + 0.5, Low: c - 0.5, Close: c,
		}
	}
	return out
}

func TestCrossSignal_ShouldBuy_OnGoldenCross(t *testing.T) {
	// fast(3)/slow(5) SMA cross up lands exactly on bar 8 for this series;
	// hand-computed from the raw closes against talib's SMA convention.
	closes := []float64{10, 10, 10, 10, 10, 8, 8, 8, 20, 20, 20, 20}
	bars := barsFromCloses(closes)

	s := NewCrossSignal(3, 5)
	s.SetTO(bars)

	assert.True(t, s.ShouldBuy(bars[8].Datetime))
	assert.False(t, s.ShouldBuy(bars[7].Datetime))
	assert.False(t, s.ShouldBuy(bars[9].Datetime))
}

func TestCrossSignal_ShouldSell_OnDeathCross(t *testing.T) {
	closes := []float64{20, 20, 20, 20, 20, 22, 22, 22, 10, 10, 10, 10}
	bars := barsFromCloses(closes)

	s := NewCrossSignal(3, 5)
	s.SetTO(bars)

	assert.True(t, s.ShouldSell(bars[8].Datetime))
	assert.False(t, s.ShouldSell(bars[7].Datetime))
}

func TestCrossSignal_NoSignal_DuringWarmup(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 8, 8, 8, 20, 20, 20, 20}
	bars := barsFromCloses(closes)

	s := NewCrossSignal(3, 5)
	s.SetTO(bars)

	for i := 0; i < 4; i++ {
		assert.False(t, s.ShouldBuy(bars[i].Datetime))
		assert.False(t, s.ShouldSell(bars[i].Datetime))
	}
}

func TestCrossSignal_Reset_ClearsSeries(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 8, 8, 8, 20, 20, 20, 20}
	bars := barsFromCloses(closes)

	s := NewCrossSignal(3, 5)
	s.SetTO(bars)
	s.Reset()

	assert.False(t, s.ShouldBuy(bars[8].Datetime), "after Reset the cached SMA series is gone so no signal can fire")
}

func TestCrossSignal_Clone_Independence(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 8, 8, 8, 20, 20, 20, 20}
	bars := barsFromCloses(closes)

	s := NewCrossSignal(3, 5)
	s.SetTO(bars)

	clone := s.Clone().(*CrossSignal)
	clone.Reset()

	assert.True(t, s.ShouldBuy(bars[8].Datetime), "clearing the clone must not affect the original's cached series")
}

func TestNewCrossSignal_DefaultsAppliedForInvalidInputs(t *testing.T) {
	s := NewCrossSignal(0, 0)
	assert.Equal(t, 5, s.FastPeriod)
	assert.Equal(t, 20, s.SlowPeriod)
}
