package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamSet_DeclareAndGet(t *testing.T) {
	p := NewParamSet()
	p.Declare("max_delay_count", 3)
	p.Declare("delay", true)

	assert.Equal(t, 3, p.GetInt("max_delay_count"))
	assert.True(t, p.GetBool("delay"))
	assert.True(t, p.Has("MAX_DELAY_COUNT"), "keys are case-insensitive")
}

// TestParamSet_SetParam_UnrecognisedKey covers the "set_param with an
// unrecognised key is a hard error" parameter surface contract.
func TestParamSet_SetParam_UnrecognisedKey(t *testing.T) {
	p := NewParamSet()
	err := p.SetParam("not_declared", 1)
	require.Error(t, err)
}

func TestParamSet_Clone_Independence(t *testing.T) {
	p := NewParamSet()
	p.Declare("tp_delay_n", 3)

	clone := p.Clone()
	require.NoError(t, clone.SetParam("tp_delay_n", 9))

	assert.Equal(t, 3, p.GetInt("tp_delay_n"))
	assert.Equal(t, 9, clone.GetInt("tp_delay_n"))
}

func TestParamSet_GetFloat_CoercesNumericTypes(t *testing.T) {
	p := NewParamSet()
	p.Declare("ratio", int32(5))
	assert.Equal(t, 5.0, p.GetFloat("ratio"))
}
