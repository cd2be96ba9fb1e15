package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/qaco/internal/engine"
	"github.com/roach88/qaco/internal/validate"
)

// Violation describes the rule an invalid problem or solution broke.
type Violation struct {
	Kind    string `json:"kind"`
	Phase   string `json:"phase,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Field   string `json:"field,omitempty"`
	Entity  string `json:"entity,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field != "" {
		return fmt.Sprintf("%s %s: %s", v.Rule, v.Field, v.Message)
	}
	if v.Rule != "" {
		return fmt.Sprintf("%s %s", v.Rule, v.Message)
	}
	return v.Message
}

// violationFrom extracts the violation carried by an engine error.
// ok is false for errors that did not come from the engine.
func violationFrom(err error) (Violation, bool) {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		return Violation{}, false
	}
	v := Violation{
		Kind:    string(engErr.Kind),
		Phase:   string(engErr.Phase),
		Message: engErr.Err.Error(),
	}
	if verr, ok := validate.AsError(engErr.Err); ok {
		v.Rule = verr.Code
		v.Field = verr.Field
		v.Entity = verr.Entity
		v.Message = verr.Message
	}
	return v, true
}

// outputEngineError reports a failed engine call. Validation and strategy
// failures exit with ExitFailure; anything else is a command error.
// data is attached to the JSON envelope.
func outputEngineError(formatter *OutputFormatter, err error, data any) error {
	v, ok := violationFrom(err)
	if !ok {
		return outputCommandError(formatter, ErrCodeGeneric, err)
	}

	code := v.Rule
	if code == "" {
		code = ErrCodeStrategyError
	}

	if formatter.Format == "json" {
		_ = formatter.Failure(code, v.Message, v, data)
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s\n\n", headline(v.Kind))
		fmt.Fprintf(formatter.Writer, "  %s\n", v)
		if v.Entity != "" {
			fmt.Fprintf(formatter.Writer, "  entity: %s\n", v.Entity)
		}
		formatter.VerboseLog("phase: %s", v.Phase)
	}
	return WrapExitError(ExitFailure, code, err)
}

func headline(kind string) string {
	switch engine.ErrorKind(kind) {
	case engine.KindInvalidProblem:
		return "Invalid problem"
	case engine.KindInvalidSolution:
		return "Invalid solution"
	default:
		return "Strategy failed"
	}
}

// outputCommandError reports an error that is not about the problem itself.
func outputCommandError(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}
