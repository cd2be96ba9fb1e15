package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/qaco/internal/metrics"
	"github.com/roach88/qaco/internal/store"
	"github.com/roach88/qaco/internal/validate"
)

// Phase is the last pipeline state a call reached.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseInputValidated  Phase = "input_validated"
	PhaseSolved          Phase = "solved"
	PhaseOutputValidated Phase = "output_validated"
	PhaseReturned        Phase = "returned"
)

// ErrorKind categorizes engine failures.
type ErrorKind string

const (
	// KindInvalidProblem indicates the input failed validation.
	KindInvalidProblem ErrorKind = ErrorKind(validate.KindInvalidProblem)

	// KindInvalidSolution indicates the strategy output failed validation.
	KindInvalidSolution ErrorKind = ErrorKind(validate.KindInvalidSolution)

	// KindStrategyFailed indicates the strategy itself returned an error.
	KindStrategyFailed ErrorKind = "STRATEGY_FAILED"
)

// Error is returned by every failing engine call.
type Error struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Phase is the last state reached before the failure.
	Phase Phase

	// Operation is the engine call that failed.
	Operation store.Operation

	// Err is the cause: a *validate.Error or the strategy's error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (phase=%s): %v", e.Operation, e.Kind, e.Phase, e.Err)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Err }

// Rule returns the violated rule code, or "" when the cause is not a
// validation error.
func (e *Error) Rule() string {
	if verr, ok := validate.AsError(e.Err); ok {
		return verr.Code
	}
	return ""
}

// IsInvalidProblem returns true if err is an engine input validation failure.
// Uses errors.As to handle wrapped errors.
func IsInvalidProblem(err error) bool {
	return hasKind(err, KindInvalidProblem)
}

// IsInvalidSolution returns true if err is an engine output validation failure.
// Uses errors.As to handle wrapped errors.
func IsInvalidSolution(err error) bool {
	return hasKind(err, KindInvalidSolution)
}

// IsStrategyFailed returns true if err is a strategy failure.
func IsStrategyFailed(err error) bool {
	return hasKind(err, KindStrategyFailed)
}

func hasKind(err error, kind ErrorKind) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}

// OutcomeOf returns the metrics outcome label of a call that returned err.
// nil is "ok"; an error from outside the engine counts as a strategy failure.
func OutcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	var ee *Error
	if errors.As(err, &ee) {
		return outcomeFor(ee.Kind)
	}
	return metrics.OutcomeStrategyFailed
}
