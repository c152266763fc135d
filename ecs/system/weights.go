package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/villagesim/prefabs"
)

// WeightContext is what a weight source may base its weights on.
type WeightContext struct {
	Base   [actionCount]float64
	Houses int
	Trees  int
	Piles  int
	Time   float64
}

// WeightSource produces the action weights for one tick.
type WeightSource interface {
	Weights(ctx WeightContext) ([actionCount]float64, error)
}

// StaticWeights returns the configured weights unchanged.
type StaticWeights struct{}

func (StaticWeights) Weights(ctx WeightContext) ([actionCount]float64, error) {
	return ctx.Base, nil
}

// ScriptWeights runs a tengo script each tick. The script sees base, houses,
// trees, piles and time, and must assign a three element array to weights.
type ScriptWeights struct {
	path     string
	compiled *tengo.Compiled
}

// NewScriptWeights loads and compiles a decision script from prefabs.
func NewScriptWeights(path string) (*ScriptWeights, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("decision script: empty path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("decision script: load %s: %w", path, err)
	}
	return CompileScriptWeights(path, src)
}

// CompileScriptWeights compiles src as a decision script.
func CompileScriptWeights(name string, src []byte) (*ScriptWeights, error) {
	script := tengo.NewScript(src)
	for _, v := range []struct {
		name  string
		value any
	}{
		{"base", []any{0.0, 0.0, 0.0}},
		{"houses", 0},
		{"trees", 0},
		{"piles", 0},
		{"time", 0.0},
		{"weights", []any{0.0, 0.0, 0.0}},
	} {
		if err := script.Add(v.name, v.value); err != nil {
			return nil, fmt.Errorf("decision script: %s: add %s: %w", name, v.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("decision script: compile %s: %w", name, err)
	}
	return &ScriptWeights{path: name, compiled: compiled}, nil
}

func (s *ScriptWeights) Path() string {
	return s.path
}

func (s *ScriptWeights) Weights(ctx WeightContext) ([actionCount]float64, error) {
	var out [actionCount]float64
	if s == nil || s.compiled == nil {
		return out, fmt.Errorf("decision script: not compiled")
	}

	base := make([]any, len(ctx.Base))
	for i, v := range ctx.Base {
		base[i] = v
	}
	for _, v := range []struct {
		name  string
		value any
	}{
		{"base", base},
		{"houses", ctx.Houses},
		{"trees", ctx.Trees},
		{"piles", ctx.Piles},
		{"time", ctx.Time},
	} {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return out, fmt.Errorf("decision script: %s: set %s: %w", s.path, v.name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return out, fmt.Errorf("decision script: %s: run: %w", s.path, err)
	}

	raw := s.compiled.Get("weights").Array()
	if len(raw) != int(actionCount) {
		return out, fmt.Errorf("decision script: %s: weights has %d entries, want %d", s.path, len(raw), actionCount)
	}
	for i, v := range raw {
		f, ok := asFloat(v)
		if !ok {
			return out, fmt.Errorf("decision script: %s: weights[%d] is %T, not a number", s.path, i, v)
		}
		if f < 0 {
			f = 0
		}
		out[i] = f
	}
	return out, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
