package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/metrics"
	"github.com/roach88/qaco/internal/store"
	"github.com/roach88/qaco/internal/validate"
)

// errNoStrategy is returned when an Engine was built without a strategy.
var errNoStrategy = errors.New("no strategy configured")

// RunRecorder receives one record per engine call.
// Implemented by *store.Store.
type RunRecorder interface {
	RecordRun(ctx context.Context, run store.Run) (store.Run, error)
}

// Engine validates input, delegates to a Strategy and validates its output.
type Engine struct {
	strategy     Strategy
	strategyName string
	logger       *zap.Logger
	metrics      *metrics.Recorder
	recorder     RunRecorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records call counts, durations and rule violations.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRecorder appends a run record for every call.
// Recorder failures are logged and never change the call's result.
func WithRecorder(r RunRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithStrategyName overrides the strategy name used in logs and run records.
// By default the strategy's Name() is used when it has one.
func WithStrategyName(name string) Option {
	return func(e *Engine) {
		e.strategyName = name
	}
}

// New creates an Engine around the given strategy.
func New(strategy Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategy: strategy,
		logger:   zap.NewNop(),
	}
	if strategy != nil {
		e.strategyName = StrategyName(strategy)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solve validates problem, asks the strategy for a solution and validates
// every returned binding.
//
// Returns (nil, false, nil) when the strategy finds no solution.
func (e *Engine) Solve(ctx context.Context, problem *ir.QACOProblem, cfg any) ([]ir.Binding, bool, error) {
	c := e.begin(ctx, store.OpSolve, func() (string, error) { return ir.ProblemHash(problem) })

	if err := validate.QACOProblem(problem); err != nil {
		return nil, false, c.fail(KindInvalidProblem, err)
	}
	c.advance(PhaseInputValidated)

	if e.strategy == nil {
		return nil, false, c.fail(KindStrategyFailed, errNoStrategy)
	}
	bindings, ok, err := e.strategy.Solve(ctx, problem, cfg)
	if err != nil {
		return nil, false, c.fail(KindStrategyFailed, err)
	}
	c.advance(PhaseSolved)
	if !ok {
		c.noSolution()
		return nil, false, nil
	}

	if err := validate.Bindings(bindings); err != nil {
		return nil, false, c.fail(KindInvalidSolution, err)
	}
	c.advance(PhaseOutputValidated)

	c.succeed(len(bindings), bindings)
	return bindings, true, nil
}

// BindingSpace validates the shape of cws, asks the strategy for its binding
// space and validates it. No referential checks are made.
//
// Returns (nil, false, nil) when the strategy cannot produce a space.
func (e *Engine) BindingSpace(ctx context.Context, cws *ir.CompositeWebService, cfg any) (*ir.BindingSpace, bool, error) {
	c := e.begin(ctx, store.OpBindingSpace, func() (string, error) { return ir.CWSHash(cws) })

	if err := validate.CompositeWebService(cws); err != nil {
		return nil, false, c.fail(KindInvalidProblem, err)
	}
	c.advance(PhaseInputValidated)

	if e.strategy == nil {
		return nil, false, c.fail(KindStrategyFailed, errNoStrategy)
	}
	space, ok, err := e.strategy.BindingSpace(ctx, cws, cfg)
	if err != nil {
		return nil, false, c.fail(KindStrategyFailed, err)
	}
	c.advance(PhaseSolved)
	if !ok {
		c.noSolution()
		return nil, false, nil
	}

	if err := validate.BindingSpace(space); err != nil {
		return nil, false, c.fail(KindInvalidSolution, err)
	}
	c.advance(PhaseOutputValidated)

	c.succeed(len(space.Bindings), space)
	return space, true, nil
}

// Validate runs only the input phase of Solve.
func (e *Engine) Validate(ctx context.Context, problem *ir.QACOProblem) error {
	c := e.begin(ctx, store.OpValidate, func() (string, error) { return ir.ProblemHash(problem) })

	if err := validate.QACOProblem(problem); err != nil {
		return c.fail(KindInvalidProblem, err)
	}
	c.advance(PhaseInputValidated)
	c.succeed(0, nil)
	return nil
}

// call tracks one pass through the pipeline.
type call struct {
	e      *Engine
	ctx    context.Context
	op     store.Operation
	hash   string
	phase  Phase
	start  time.Time
	logger *zap.Logger
}

func (e *Engine) begin(ctx context.Context, op store.Operation, hash func() (string, error)) *call {
	c := &call{
		e:     e,
		ctx:   ctx,
		op:    op,
		phase: PhaseIdle,
		start: time.Now(),
	}
	// The hash only identifies runs in the log.
	if e.recorder != nil {
		if h, err := hash(); err == nil {
			c.hash = h
		} else {
			e.logger.Debug("problem hash unavailable", zap.String("operation", string(op)), zap.Error(err))
		}
	}
	c.logger = e.logger.With(
		zap.String("operation", string(op)),
		zap.String("strategy", e.strategyName),
	)
	return c
}

func (c *call) advance(p Phase) {
	c.phase = p
	c.logger.Debug("phase reached", zap.String("phase", string(p)))
}

// fail logs, counts and records err once, then wraps it.
func (c *call) fail(kind ErrorKind, err error) error {
	ee := &Error{Kind: kind, Phase: c.phase, Operation: c.op, Err: err}

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("phase", string(c.phase)),
		zap.Error(err),
	}
	if verr, ok := validate.AsError(err); ok {
		fields = append(fields,
			zap.String("rule", verr.Code),
			zap.String("field", verr.Field),
			zap.String("entity", verr.Entity),
		)
		if c.e.metrics != nil {
			c.e.metrics.RecordValidationFailure(string(verr.Kind), verr.Code)
		}
	}
	c.logger.Warn("engine call failed", fields...)

	c.finish(outcomeFor(kind), store.Run{
		Status:    store.StatusFailed,
		ErrorKind: string(kind),
		ErrorRule: ee.Rule(),
		Message:   err.Error(),
	})
	return ee
}

func (c *call) noSolution() {
	c.logger.Info("strategy found no solution")
	c.finish(metrics.OutcomeNoSolution, store.Run{Status: store.StatusNoSolution})
}

func (c *call) succeed(count int, result any) {
	c.phase = PhaseReturned
	c.logger.Debug("engine call succeeded", zap.Int("bindings", count))

	run := store.Run{Status: store.StatusOK, BindingCount: count}
	if result != nil && c.e.recorder != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			c.logger.Warn("cannot encode result for run log", zap.Error(err))
		} else {
			run.Result = raw
		}
	}
	c.finish(metrics.OutcomeOK, run)
}

func (c *call) finish(outcome string, run store.Run) {
	if c.e.metrics != nil {
		c.e.metrics.RecordCall(string(c.op), outcome, time.Since(c.start))
	}
	if c.e.recorder == nil {
		return
	}

	run.Operation = c.op
	run.ProblemHash = c.hash
	run.Strategy = c.e.strategyName
	recorded, err := c.e.recorder.RecordRun(c.ctx, run)
	if err != nil {
		c.logger.Warn("cannot record run", zap.Error(err))
		return
	}
	c.logger.Debug("run recorded", zap.String("run_id", recorded.ID), zap.Int64("seq", recorded.CreatedSeq))
}

func outcomeFor(kind ErrorKind) string {
	switch kind {
	case KindInvalidProblem:
		return metrics.OutcomeInvalidProblem
	case KindInvalidSolution:
		return metrics.OutcomeInvalidSolution
	default:
		return metrics.OutcomeStrategyFailed
	}
}
