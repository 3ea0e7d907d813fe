package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradecore/internal/core"
)

func TestPercentCostModel_BuyCost_AppliesMinimumCommission(t *testing.T) {
	cm := NewPercentCostModel(0.001, 5, 0.001, 0.0002)

	c := cm.GetBuyCost(core.NewDatetime(time.Now()), core.Stock{}, 10, 10) // amount = 100, 0.1% = 0.1 < min 5
	assert.Equal(t, 5.0, c.Commission)
	assert.Equal(t, 0.02, c.Transfer)
	assert.Equal(t, 0.0, c.StampTax, "buys never carry stamp tax")
}

func TestPercentCostModel_BuyCost_CommissionAboveMinimum(t *testing.T) {
	cm := NewPercentCostModel(0.001, 5, 0.001, 0)

	c := cm.GetBuyCost(core.NewDatetime(time.Now()), core.Stock{}, 1000, 100) // amount = 100000, 0.1% = 100
	assert.Equal(t, 100.0, c.Commission)
}

func TestPercentCostModel_SellCost_ChargesStampTax(t *testing.T) {
	cm := NewPercentCostModel(0.001, 5, 0.001, 0.0002)

	c := cm.GetSellCost(core.NewDatetime(time.Now()), core.Stock{}, 1000, 100) // amount = 100000
	assert.Equal(t, 100.0, c.Commission)
	assert.Equal(t, 100.0, c.StampTax)
	assert.Equal(t, 20.0, c.Transfer)
}

func TestPercentCostModel_BorrowAndReturnCosts_AreZero(t *testing.T) {
	cm := NewPercentCostModel(0.001, 5, 0.001, 0.0002)
	now := core.NewDatetime(time.Now())

	assert.Equal(t, core.CostRecord{}, cm.GetBorrowCashCost(now, 1000))
	assert.Equal(t, core.CostRecord{}, cm.GetReturnCashCost(now, 1000, 0, 0))
	assert.Equal(t, core.CostRecord{}, cm.GetBorrowStockCost(now, core.Stock{}, 100, 10))
	assert.Equal(t, core.CostRecord{}, cm.GetReturnStockCost(now, core.Stock{}, 100, 10))
}

func TestPercentCostModel_Clone_Independence(t *testing.T) {
	cm := NewPercentCostModel(0.001, 5, 0.001, 0.0002)
	clone := cm.Clone().(*PercentCostModel)
	clone.CommissionRate = 0.5

	assert.Equal(t, 0.001, cm.CommissionRate, "mutating the clone must not affect the original")
}
