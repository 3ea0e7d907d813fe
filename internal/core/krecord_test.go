package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKRecord_Degenerate_HighEqualsLow(t *testing.T) {
	k := KRecord{Open: 10, High: 10, Low: 10, Close: 10}
	assert.True(t, k.Degenerate())
}

func TestKRecord_Degenerate_CloseOutsideRange(t *testing.T) {
	k := KRecord{Open: 10, High: 12, Low: 9, Close: 13}
	assert.True(t, k.Degenerate())
}

func TestKRecord_Degenerate_NormalBar(t *testing.T) {
	k := KRecord{Open: 10, High: 12, Low: 9, Close: 11}
	assert.False(t, k.Degenerate())
}

func TestKRecord_IsValid(t *testing.T) {
	assert.True(t, KRecord{Open: 10, High: 12, Low: 9, Close: 11}.IsValid())
	assert.False(t, KRecord{Open: 10, High: 9, Low: 12, Close: 11}.IsValid())
	assert.False(t, KRecord{Open: 20, High: 12, Low: 9, Close: 11}.IsValid())
}
