package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"cuelang.org/go/cue/token"

	"github.com/roach88/qaco/internal/compiler"
	"github.com/roach88/qaco/internal/ir"
)

// Error codes for command-level failures.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeUnsupported   = "E003" // Unsupported problem file format
	ErrCodeLoadFailed    = "E004" // CUE/YAML parse failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // Problem file does not match the model
	ErrCodeStoreFailed   = "E007" // Run log could not be opened or read
	ErrCodeUnknownStrat  = "E008" // Unknown strategy name
	ErrCodeNoRunLog      = "E009" // Run log not configured
	ErrCodeStrategyError = "STRATEGY_FAILED"
	ErrCodeNoSolution    = "NO_SOLUTION"
)

// LoadError represents a problem file that could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// details returns the position for JSON output, or nil when unknown.
func (e *LoadError) details() any {
	if !e.Pos.IsValid() {
		return nil
	}
	return map[string]any{
		"file":   e.Pos.Filename(),
		"line":   e.Pos.Line(),
		"column": e.Pos.Column(),
	}
}

// LoadProblem reads a problem file or CUE package directory.
// Every failure is a *LoadError.
func LoadProblem(path string) (*ir.QACOProblem, error) {
	problem, err := compiler.Load(path)
	if err != nil {
		return nil, toLoadError(path, err)
	}
	return problem, nil
}

func toLoadError(path string, err error) *LoadError {
	var compileErr *compiler.CompileError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("problem file not found: %s", path)}
	case errors.Is(err, compiler.ErrUnsupportedFormat):
		return &LoadError{Code: ErrCodeUnsupported, Message: err.Error()}
	case errors.As(err, &compileErr):
		code := ErrCodeBuildFailed
		if compileErr.Field == "cue" {
			code = ErrCodeLoadFailed
		}
		return &LoadError{
			Code:    code,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	default:
		return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
}

// outputLoadError reports err and returns the command-error exit.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	_ = formatter.Error(loadErr.Code, loadErr.Message, loadErr.details())
	return WrapExitError(ExitCommandError, loadErr.Code, loadErr)
}
