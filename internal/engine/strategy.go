package engine

import (
	"context"

	"github.com/roach88/qaco/internal/ir"
)

// Strategy is the solving algorithm plugged into the engine.
//
// Implementations receive only input that passed validation and must not
// mutate it. cfg is opaque to the engine and forwarded untouched.
type Strategy interface {
	// Solve returns the selected bindings, or ok == false when no solution exists.
	Solve(ctx context.Context, problem *ir.QACOProblem, cfg any) (bindings []ir.Binding, ok bool, err error)

	// BindingSpace returns the bindings the strategy would explore, or
	// ok == false when it cannot produce one.
	BindingSpace(ctx context.Context, cws *ir.CompositeWebService, cfg any) (space *ir.BindingSpace, ok bool, err error)
}

// StrategyFuncs adapts plain functions to Strategy. A nil func reports no
// solution.
type StrategyFuncs struct {
	Label            string
	SolveFunc        func(ctx context.Context, problem *ir.QACOProblem, cfg any) ([]ir.Binding, bool, error)
	BindingSpaceFunc func(ctx context.Context, cws *ir.CompositeWebService, cfg any) (*ir.BindingSpace, bool, error)
}

// Name returns Label.
func (s StrategyFuncs) Name() string { return s.Label }

// Solve calls SolveFunc.
func (s StrategyFuncs) Solve(ctx context.Context, problem *ir.QACOProblem, cfg any) ([]ir.Binding, bool, error) {
	if s.SolveFunc == nil {
		return nil, false, nil
	}
	return s.SolveFunc(ctx, problem, cfg)
}

// BindingSpace calls BindingSpaceFunc.
func (s StrategyFuncs) BindingSpace(ctx context.Context, cws *ir.CompositeWebService, cfg any) (*ir.BindingSpace, bool, error) {
	if s.BindingSpaceFunc == nil {
		return nil, false, nil
	}
	return s.BindingSpaceFunc(ctx, cws, cfg)
}

// StrategyName returns the Name() of s when it has one, else "".
func StrategyName(s Strategy) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
