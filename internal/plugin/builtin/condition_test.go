package builtin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradecore/internal/core"
)

func TestAlwaysValidCondition_IsAlwaysValid(t *testing.T) {
	c := NewAlwaysValidCondition()
	assert.True(t, c.IsValid(core.NewDatetime(time.Now())))
}

func TestAlwaysValidCondition_SetTMAndSG_DoNotPanic(t *testing.T) {
	c := NewAlwaysValidCondition()
	assert.NotPanics(t, func() {
		c.SetTM(nil)
		c.SetSG(nil)
	})
}

func TestAlwaysValidCondition_Clone_ReturnsDistinctInstance(t *testing.T) {
	c := NewAlwaysValidCondition()
	clone := c.Clone()
	assert.NotSame(t, c, clone)
	assert.True(t, clone.IsValid(core.NewDatetime(time.Now())))
}
