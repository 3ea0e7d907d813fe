package builtin

import (
	"github.com/markcheno/go-talib"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// AlwaysValidEnvironment never disallows trading; useful when no external
// macro filter is wired.
type AlwaysValidEnvironment struct{ queryBase }

func NewAlwaysValidEnvironment() *AlwaysValidEnvironment { return &AlwaysValidEnvironment{} }

func (e *AlwaysValidEnvironment) Reset()                           {}
func (e *AlwaysValidEnvironment) Clone() plugin.Environment        { c := *e; return &c }
func (e *AlwaysValidEnvironment) IsValid(core.Datetime) bool       { return true }

// MAFilterEnvironment is valid while the close is above its simple
// moving average, a common regime filter.
type MAFilterEnvironment struct {
	queryBase
	Period int

	ma []float64
}

func NewMAFilterEnvironment(period int) *MAFilterEnvironment {
	if period <= 0 {
		period = 50
	}
	return &MAFilterEnvironment{Period: period}
}

func (e *MAFilterEnvironment) SetTO(k core.KRecordList) {
	e.queryBase.SetTO(k)
	e.ma = talib.Sma(e.closes(), e.Period)
}

func (e *MAFilterEnvironment) Reset() { e.ma = nil }

func (e *MAFilterEnvironment) Clone() plugin.Environment {
	c := *e
	c.ma = append([]float64(nil), e.ma...)
	return &c
}

func (e *MAFilterEnvironment) IsValid(dt core.Datetime) bool {
	idx := e.indexOf(dt)
	if idx < 0 || idx >= len(e.ma) {
		return false
	}
	return e.k[idx].Close > e.ma[idx]
}
