package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStock_Identity(t *testing.T) {
	s := NewStock("SH", "600000", "Pudong", 100, 0, 0.01, 1)
	assert.Equal(t, "SH600000", s.Identity())
}

// TestStock_RoundLot covers P4: every trade number is a multiple of
// minTradeNumber, clamped to [minTradeNumber, maxTradeNumber], and a
// remainder below one lot rounds to zero.
func TestStock_RoundLot(t *testing.T) {
	s := NewStock("SH", "600000", "Pudong", 100, 1000, 0.01, 1)

	assert.Equal(t, 500.0, s.RoundLot(550))
	assert.Equal(t, 0.0, s.RoundLot(50))
	assert.Equal(t, 1000.0, s.RoundLot(1500))
	assert.Equal(t, 100.0, s.RoundLot(100))
}

func TestStock_RoundLot_NoLotConfigured(t *testing.T) {
	s := NewStock("SH", "600000", "Pudong", 0, 0, 0.01, 1)
	assert.Equal(t, 7.0, s.RoundLot(7))
}
