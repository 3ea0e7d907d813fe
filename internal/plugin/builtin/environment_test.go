package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradecore/internal/core"
)

func TestAlwaysValidEnvironment_IsAlwaysValid(t *testing.T) {
	e := NewAlwaysValidEnvironment()
	assert.True(t, e.IsValid(core.NewDatetime(time.Now())))
	e.Reset()
	assert.True(t, e.IsValid(core.NewDatetime(time.Now())))
}

func TestAlwaysValidEnvironment_Clone_ReturnsDistinctValidInstance(t *testing.T) {
	e := NewAlwaysValidEnvironment()
	clone := e.Clone()
	assert.True(t, clone.IsValid(core.NewDatetime(time.Now())))
}

func TestMAFilterEnvironment_IsValid_AboveAndAtMA(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 20}
	bars := barsFromCloses(closes)

	e := NewMAFilterEnvironment(3)
	e.SetTO(bars)

	assert.True(t, e.IsValid(bars[4].Datetime), "close sits well above the 3-bar SMA")
	assert.False(t, e.IsValid(bars[3].Datetime), "close equal to the SMA does not count as above it")
}

func TestMAFilterEnvironment_IsValid_UnknownDatetime(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 20}
	bars := barsFromCloses(closes)

	e := NewMAFilterEnvironment(3)
	e.SetTO(bars)

	unknown := core.NewDatetime(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, e.IsValid(unknown))
}

func TestMAFilterEnvironment_Clone_Independence(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 20}
	bars := barsFromCloses(closes)

	e := NewMAFilterEnvironment(3)
	e.SetTO(bars)

	clone := e.Clone().(*MAFilterEnvironment)
	clone.Reset()

	assert.True(t, e.IsValid(bars[4].Datetime), "clearing the clone's MA series must not affect the original")
}

func TestNewMAFilterEnvironment_DefaultPeriod(t *testing.T) {
	e := NewMAFilterEnvironment(0)
	assert.Equal(t, 50, e.Period)
}
