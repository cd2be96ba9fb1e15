package harness

import (
	"context"
	"errors"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/strategy"
)

// errFixtureFailure is returned by the "failing" fixture strategy.
var errFixtureFailure = errors.New("fixture strategy failure")

// fixtures are strategies that exercise the engine's failure paths.
var fixtures = map[string]engine.Strategy{
	"none": engine.StrategyFuncs{Label: "none"},
	"malformed": engine.StrategyFuncs{
		Label: "malformed",
		SolveFunc: func(_ context.Context, problem *ir.QACOProblem, _ any) ([]ir.Binding, bool, error) {
			b := ir.Binding{}
			for _, task := range problem.CompositeWebService.Tasks {
				b.BindingMappings = append(b.BindingMappings, ir.BindingMapping{Task: &task})
			}
			return []ir.Binding{b}, true, nil
		},
		BindingSpaceFunc: func(context.Context, *ir.CompositeWebService, any) (*ir.BindingSpace, bool, error) {
			return &ir.BindingSpace{}, true, nil
		},
	},
	"failing": engine.StrategyFuncs{
		Label: "failing",
		SolveFunc: func(context.Context, *ir.QACOProblem, any) ([]ir.Binding, bool, error) {
			return nil, false, errFixtureFailure
		},
		BindingSpaceFunc: func(context.Context, *ir.CompositeWebService, any) (*ir.BindingSpace, bool, error) {
			return nil, false, errFixtureFailure
		},
	},
}

// resolveStrategy returns a fixture or a registered strategy.
func resolveStrategy(name string) (engine.Strategy, error) {
	if name == "" {
		name = "uniform"
	}
	if s, ok := fixtures[name]; ok {
		return s, nil
	}
	return strategy.Lookup(name)
}
