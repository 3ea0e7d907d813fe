package system

import (
	"time"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// dailyBars builds n consecutive daily bars with a gentle upward drift,
// none of them degenerate unless overridden by patch.
func dailyBars(n int, base time.Time, patch map[int]core.KRecord) core.KRecordList {
	out := make(core.KRecordList, n)
	for i := 0; i < n; i++ {
		dt := core.NewDatetime(base.AddDate(0, 0, i))
		price := 100 + float64(i)*0.1
		bar := core.KRecord{Datetime: dt, Open: price, High: price + 1, Low: price - 1, Close: price + 0.5}
		if p, ok := patch[i]; ok {
			p.Datetime = dt
			bar = p
		}
		out[i] = bar
	}
	return out
}

func testStock() core.Stock {
	return core.NewStock("SIM", "TEST", "Test Instrument", 1, 0, 0.01, 1)
}

// scriptedSignal fires ShouldBuy/ShouldSell at fixed bar indices, resolved
// by matching the bound series' Datetime, the same pattern queryBase uses.
type scriptedSignal struct {
	k      core.KRecordList
	buyAt  map[int]bool
	sellAt map[int]bool
}

func (s *scriptedSignal) SetTO(k core.KRecordList)  { s.k = k }
func (s *scriptedSignal) Reset()                    {}
func (s *scriptedSignal) Clone() plugin.Signal       { c := *s; return &c }
func (s *scriptedSignal) indexOf(dt core.Datetime) int {
	for i, bar := range s.k {
		if bar.Datetime.Equal(dt) {
			return i
		}
	}
	return -1
}
func (s *scriptedSignal) ShouldBuy(dt core.Datetime) bool  { return s.buyAt[s.indexOf(dt)] }
func (s *scriptedSignal) ShouldSell(dt core.Datetime) bool { return s.sellAt[s.indexOf(dt)] }

// scriptedEnvironment reports IsValid via a caller-supplied function of
// bar index, letting tests script a true->false transition precisely.
type scriptedEnvironment struct {
	k       core.KRecordList
	validFn func(idx int) bool
}

func (e *scriptedEnvironment) SetTO(k core.KRecordList)   { e.k = k }
func (e *scriptedEnvironment) Reset()                     {}
func (e *scriptedEnvironment) Clone() plugin.Environment  { c := *e; return &c }
func (e *scriptedEnvironment) indexOf(dt core.Datetime) int {
	for i, bar := range e.k {
		if bar.Datetime.Equal(dt) {
			return i
		}
	}
	return -1
}
func (e *scriptedEnvironment) IsValid(dt core.Datetime) bool {
	idx := e.indexOf(dt)
	if idx < 0 {
		return true
	}
	return e.validFn(idx)
}

// fixedStoploss always returns the same absolute price, letting a test
// pin a stoploss without going through a percentage plugin.
type fixedStoploss struct {
	Value float64
}

func (fixedStoploss) SetTO(core.KRecordList)     {}
func (fixedStoploss) Reset()                     {}
func (f fixedStoploss) Clone() plugin.Stoploss    { return f }
func (f fixedStoploss) Get(core.Datetime, float64) float64 { return f.Value }

// scriptedTakeProfit reports a caller-supplied raw take-profit candidate
// per bar index, resolved the same way scriptedSignal resolves its bar
// index. Unlike fixedStoploss it can return a non-monotone series, so a
// test can drive tp_monotonic's max-clamp with a raw value that dips.
type scriptedTakeProfit struct {
	k     core.KRecordList
	getAt map[int]float64
}

func (tp *scriptedTakeProfit) SetTO(k core.KRecordList) { tp.k = k }
func (tp *scriptedTakeProfit) Reset()                   {}
func (tp *scriptedTakeProfit) Clone() plugin.TakeProfit { c := *tp; return &c }
func (tp *scriptedTakeProfit) indexOf(dt core.Datetime) int {
	for i, bar := range tp.k {
		if bar.Datetime.Equal(dt) {
			return i
		}
	}
	return -1
}
func (tp *scriptedTakeProfit) Get(dt core.Datetime, _ float64) float64 {
	return tp.getAt[tp.indexOf(dt)]
}
