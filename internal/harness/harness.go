package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/qaco/internal/compiler"
	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/metrics"
	"github.com/roach88/qaco/internal/store"
	"github.com/roach88/qaco/internal/strategy"
	"github.com/roach88/qaco/internal/testutil"
	"github.com/roach88/qaco/internal/validate"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	engine  *engine.Engine
	problem *ir.QACOProblem
	cfg     strategy.Config
	logger  *zap.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sends engine logs to logger instead of discarding them.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with sequential run IDs.
//
// Execution flow:
//  1. Load the problem file and resolve the strategy
//  2. Execute every step against the engine and check its expectation
//  3. Read the recorded runs back as the trace
//  4. Evaluate assertions against the trace
//
// An error is returned only when the scenario cannot be executed at all.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	problem, err := compiler.Load(scenario.Problem)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}

	strat, err := resolveStrategy(scenario.Strategy)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDGenerator("run")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		engine:  engine.New(strat, engine.WithRecorder(st), engine.WithLogger(o.logger)),
		problem: problem,
		cfg:     strategy.Config{Seed: scenario.Seed},
		logger:  o.logger.With(zap.String("scenario", scenario.Name)),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		outcome := h.execute(ctx, step.Call)
		result.Steps = append(result.Steps, outcome)
		for _, msg := range checkExpect(step.Expect, outcome) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Call, msg))
		}
		h.logger.Debug("step completed",
			zap.Int("step", i),
			zap.String("call", step.Call),
			zap.String("outcome", outcome.Outcome),
			zap.String("rule", outcome.Rule),
		)
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	slices.Reverse(runs)
	for _, r := range runs {
		result.Trace = append(result.Trace, traceEvent(r))
	}

	for _, msg := range EvaluateAssertions(result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute performs one engine call. Calls are validated by LoadScenario.
func (h *Harness) execute(ctx context.Context, call string) StepOutcome {
	out := StepOutcome{Call: call}

	var (
		bindings []ir.Binding
		ok       bool
		err      error
	)
	switch store.Operation(call) {
	case store.OpValidate:
		err = h.engine.Validate(ctx, h.problem)
		ok = err == nil
	case store.OpSolve:
		bindings, ok, err = h.engine.Solve(ctx, h.problem, h.cfg)
	case store.OpBindingSpace:
		var space *ir.BindingSpace
		space, ok, err = h.engine.BindingSpace(ctx, h.problem.CompositeWebService, h.cfg)
		if space != nil {
			bindings = space.Bindings
		}
	}

	switch {
	case err != nil:
		out.Outcome = engine.OutcomeOf(err)
		var ee *engine.Error
		if errors.As(err, &ee) {
			out.Phase = string(ee.Phase)
		}
		if verr, isValidation := validate.AsError(err); isValidation {
			out.Rule = verr.Code
			out.Field = verr.Field
		}
	case !ok:
		out.Outcome = metrics.OutcomeNoSolution
	default:
		out.Outcome = metrics.OutcomeOK
		if call != string(store.OpValidate) {
			out.Bindings = renderBindings(bindings)
		}
	}
	return out
}

// checkExpect compares an outcome to its expectation. A nil expectation
// requires success.
func checkExpect(want *Expect, got StepOutcome) []string {
	if want == nil {
		want = &Expect{Outcome: metrics.OutcomeOK}
	}

	var errs []string
	if got.Outcome != want.Outcome {
		errs = append(errs, fmt.Sprintf("outcome = %s, expected %s", got.Outcome, want.Outcome))
	}
	if want.Rule != "" && got.Rule != want.Rule {
		errs = append(errs, fmt.Sprintf("rule = %q, expected %q", got.Rule, want.Rule))
	}
	if want.Field != "" && got.Field != want.Field {
		errs = append(errs, fmt.Sprintf("field = %q, expected %q", got.Field, want.Field))
	}
	if want.Bindings != nil && len(got.Bindings) != *want.Bindings {
		errs = append(errs, fmt.Sprintf("%d binding(s), expected %d", len(got.Bindings), *want.Bindings))
	}
	return errs
}
