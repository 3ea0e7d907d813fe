package core

import (
	"fmt"
	"strings"

	"tradecore/internal/pkg/convert"
)

// ParamSet is the get_param/set_param surface shared by the Trading System
// and every plugin. SetParam only accepts a value of the same Go type as the
// key's declared default; typed accessors coerce with convert.ToFloat64 the same way the rest of
// the codebase normalises untyped numeric input.
type ParamSet struct {
	values map[string]any
}

func NewParamSet() *ParamSet {
	return &ParamSet{values: make(map[string]any)}
}

// Declare registers a key with its default value. SetParam on an
// undeclared key is a hard error per the parameter surface contract.
func (p *ParamSet) Declare(key string, def any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[strings.ToLower(key)] = def
}

func (p *ParamSet) Has(key string) bool {
	_, ok := p.values[strings.ToLower(key)]
	return ok
}

func (p *ParamSet) GetParam(key string) (any, error) {
	key = strings.ToLower(key)
	v, ok := p.values[key]
	if !ok {
		return nil, fmt.Errorf("unrecognised parameter: %s", key)
	}
	return v, nil
}

func (p *ParamSet) SetParam(key string, value any) error {
	key = strings.ToLower(key)
	old, ok := p.values[key]
	if !ok {
		return fmt.Errorf("unrecognised parameter: %s", key)
	}
	if fmt.Sprintf("%T", old) != fmt.Sprintf("%T", value) {
		return fmt.Errorf("parameter %s: expected %T, got %T", key, old, value)
	}
	p.values[key] = value
	return nil
}

func (p *ParamSet) GetBool(key string) bool {
	v, ok := p.values[strings.ToLower(key)]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (p *ParamSet) GetInt(key string) int {
	v, ok := p.values[strings.ToLower(key)]
	if !ok {
		return 0
	}
	return int(convert.ToFloat64(v))
}

func (p *ParamSet) GetFloat(key string) float64 {
	v, ok := p.values[strings.ToLower(key)]
	if !ok {
		return 0
	}
	return convert.ToFloat64(v)
}

// Clone produces an independent copy so that cloned plugin/TS trees never
// share a parameter map.
func (p *ParamSet) Clone() *ParamSet {
	out := NewParamSet()
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Keys returns all declared parameter names, sorted by the caller if it
// cares about order.
func (p *ParamSet) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	return keys
}
