package builtin

import (
	"tradecore/internal/core"
	"tradecore/internal/plugin"
)

// AlwaysValidCondition imposes no additional instrument-local gate beyond
// the Environment and Signal phases.
type AlwaysValidCondition struct {
	queryBase
	tm plugin.TradeManager
	sg plugin.Signal
}

func NewAlwaysValidCondition() *AlwaysValidCondition { return &AlwaysValidCondition{} }

func (c *AlwaysValidCondition) Reset()                     {}
func (c *AlwaysValidCondition) SetTM(tm plugin.TradeManager) { c.tm = tm }
func (c *AlwaysValidCondition) SetSG(sg plugin.Signal)       { c.sg = sg }
func (c *AlwaysValidCondition) IsValid(core.Datetime) bool   { return true }

func (c *AlwaysValidCondition) Clone() plugin.Condition {
	out := *c
	return &out
}
