package builtin

import (
	"github.com/markcheno/go-talib"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// CrossSignal buys when the fast SMA crosses above the slow SMA and sells
// on the reverse cross, the textbook golden/death-cross pair.
type CrossSignal struct {
	queryBase
	FastPeriod int
	SlowPeriod int

	fast, slow []float64
}

func NewCrossSignal(fast, slow int) *CrossSignal {
	if fast <= 0 {
		fast = 5
	}
	if slow <= 0 {
		slow = 20
	}
	return &CrossSignal{FastPeriod: fast, SlowPeriod: slow}
}

func (s *CrossSignal) SetTO(k core.KRecordList) {
	s.queryBase.SetTO(k)
	closes := s.closes()
	s.fast = talib.Sma(closes, s.FastPeriod)
	s.slow = talib.Sma(closes, s.SlowPeriod)
}

func (s *CrossSignal) Reset() { s.fast, s.slow = nil, nil }

func (s *CrossSignal) Clone() plugin.Signal {
	c := *s
	c.fast = append([]float64(nil), s.fast...)
	c.slow = append([]float64(nil), s.slow...)
	return &c
}

func (s *CrossSignal) crossedUp(idx int) bool {
	if idx <= 0 || idx >= len(s.fast) || idx >= len(s.slow) {
		return false
	}
	if s.fast[idx-1] == 0 || s.slow[idx-1] == 0 {
		return false
	}
	return s.fast[idx-1] <= s.slow[idx-1] && s.fast[idx] > s.slow[idx]
}

func (s *CrossSignal) crossedDown(idx int) bool {
	if idx <= 0 || idx >= len(s.fast) || idx >= len(s.slow) {
		return false
	}
	if s.fast[idx-1] == 0 || s.slow[idx-1] == 0 {
		return false
	}
	return s.fast[idx-1] >= s.slow[idx-1] && s.fast[idx] < s.slow[idx]
}

func (s *CrossSignal) ShouldBuy(dt core.Datetime) bool {
	return s.crossedUp(s.indexOf(dt))
}

func (s *CrossSignal) ShouldSell(dt core.Datetime) bool {
	return s.crossedDown(s.indexOf(dt))
}
