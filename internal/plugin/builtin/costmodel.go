package builtin

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// PercentCostModel charges a percentage commission (with a minimum),
// a stamp tax on sells only, and a percentage transfer fee, the common shape
// of exchange fee schedules. Borrow/return costs default to zero, as
// the contract requires.
type PercentCostModel struct {
	CommissionRate float64
	MinCommission  float64
	StampTaxRate   float64
	TransferRate   float64
}

func NewPercentCostModel(commissionRate, minCommission, stampTaxRate, transferRate float64) *PercentCostModel {
	return &PercentCostModel{
		CommissionRate: commissionRate,
		MinCommission:  minCommission,
		StampTaxRate:   stampTaxRate,
		TransferRate:   transferRate,
	}
}

func (c *PercentCostModel) Clone() plugin.CostModel {
	out := *c
	return &out
}

func (c *PercentCostModel) commission(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(decimal.NewFromFloat(c.CommissionRate))
	min := decimal.NewFromFloat(c.MinCommission)
	if fee.LessThan(min) {
		return min
	}
	return fee
}

func (c *PercentCostModel) GetBuyCost(_ core.Datetime, _ core.Stock, price, num float64) core.CostRecord {
	amount := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(num))
	commission, _ := c.commission(amount).Round(2).Float64()
	transfer, _ := amount.Mul(decimal.NewFromFloat(c.TransferRate)).Round(2).Float64()
	return core.CostRecord{Commission: commission, Transfer: transfer}
}

func (c *PercentCostModel) GetSellCost(_ core.Datetime, _ core.Stock, price, num float64) core.CostRecord {
	amount := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(num))
	commission, _ := c.commission(amount).Round(2).Float64()
	stampTax, _ := amount.Mul(decimal.NewFromFloat(c.StampTaxRate)).Round(2).Float64()
	transfer, _ := amount.Mul(decimal.NewFromFloat(c.TransferRate)).Round(2).Float64()
	return core.CostRecord{Commission: commission, StampTax: stampTax, Transfer: transfer}
}

func (c *PercentCostModel) GetBorrowCashCost(core.Datetime, float64) core.CostRecord { return core.CostRecord{} }
func (c *PercentCostModel) GetReturnCashCost(core.Datetime, float64, float64, float64) core.CostRecord {
	return core.CostRecord{}
}
func (c *PercentCostModel) GetBorrowStockCost(core.Datetime, core.Stock, float64, float64) core.CostRecord {
	return core.CostRecord{}
}
func (c *PercentCostModel) GetReturnStockCost(core.Datetime, core.Stock, float64, float64) core.CostRecord {
	return core.CostRecord{}
}
