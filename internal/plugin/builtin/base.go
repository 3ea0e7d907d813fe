// Package builtin provides default, directly usable implementations of
// every plugin interface the Trading System drives. They are grounded on
// go-talib for indicator math and shopspring/decimal for price arithmetic
// that must not drift under repeated float64 rounding, mirroring the
// pattern the rest of this codebase uses for price-sensitive arithmetic.
package builtin

import "tradecore/internal/core"

// queryBase is embedded by every builtin plugin to satisfy the
// Queryable contract; SetTO stores the bound series, Reset clears any
// accumulated state a concrete plugin layers on top.
type queryBase struct {
	k core.KRecordList
}

func (b *queryBase) SetTO(k core.KRecordList) { b.k = k }

func (b *queryBase) closes() []float64 {
	out := make([]float64, len(b.k))
	for i, bar := range b.k {
		out[i] = bar.Close
	}
	return out
}

func (b *queryBase) indexOf(dt core.Datetime) int {
	for i, bar := range b.k {
		if bar.Datetime.Equal(dt) {
			return i
		}
	}
	return -1
}
