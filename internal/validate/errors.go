package validate

import (
	"errors"
	"fmt"
)

// Kind separates bad input from bad strategy output.
type Kind string

const (
	// KindInvalidProblem marks malformed or referentially inconsistent input.
	KindInvalidProblem Kind = "INVALID_PROBLEM"

	// KindInvalidSolution marks structurally malformed strategy output.
	KindInvalidSolution Kind = "INVALID_SOLUTION"
)

// Sentinels matched by (*Error).Is, for use with errors.Is.
var (
	ErrInvalidProblem  = errors.New("invalid problem")
	ErrInvalidSolution = errors.New("invalid solution")
)

// Rule codes (Q100-Q299). Codes are stable and safe to match on.
const (
	// General (Q100)
	RuleUnsupportedConstraint = "Q100" // constraint type outside the closed set

	// Problem envelope (Q101-Q109)
	RuleProblemMissing    = "Q101" // QACOProblem is nil
	RuleDefinitionMissing = "Q102" // Problem definition is nil
	RuleCWSMissing        = "Q103" // CompositeWebService is nil

	// Composite service shape (Q110-Q119)
	RuleNoTasks             = "Q110" // at least one task required
	RuleNoCandidateServices = "Q111" // at least one candidate service required
	RuleBlankTaskName       = "Q112" // task name is blank
	RuleBlankCandidateName  = "Q113" // candidate service name is blank
	RuleBlankFeatureName    = "Q114" // feature name is blank

	// Graph shape (Q120-Q129)
	RuleEmptyGraph  = "Q120" // graph has no nodes
	RuleNoStartNode = "Q121" // graph has no START node
	RuleNoEndNode   = "Q122" // graph has no END node

	// Optimization references (Q130-Q139)
	RuleUnknownPreferenceFeature = "Q130" // preference feature not in the CWS
	RuleUnknownAggregatorFeature = "Q131" // aggregator feature not in the CWS

	// Global constraints (Q140-Q149)
	RuleUnknownGlobalFeature = "Q140" // global feature not in the CWS
	RuleGlobalNotOptimized   = "Q141" // global feature is not an optimization criterion
	RuleGlobalFeatureMissing = "Q142" // global constraint has no input feature

	// Local constraints (Q150-Q159)
	RuleUnknownConstraintFeature = "Q150" // feature constraint feature not in the CWS
	RuleUnknownConstraintTask    = "Q151" // feature constraint task not in the CWS
	RuleValueAndOutputFeature    = "Q152" // local constraint sets both value and output feature

	// Binding constraints (Q160-Q169)
	RuleUnknownProviderTask = "Q160" // binding constraint task not in the CWS

	// Strategy output (Q201-Q209)
	RuleEmptyBinding          = "Q201" // binding has no mappings
	RuleMappingWithoutTask    = "Q202" // mapping has nil task
	RuleMappingWithoutService = "Q203" // mapping has nil candidate service
	RuleBindingSpaceMissing   = "Q204" // binding space is nil
	RuleEmptyBindingSpace     = "Q205" // binding space has no bindings
)

// Error describes the first violation found by a check.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`  // path to the offending value
	Entity  string `json:"entity,omitempty"` // name of the offending task, feature, ...
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches ErrInvalidProblem or ErrInvalidSolution by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidProblem:
		return e.Kind == KindInvalidProblem
	case ErrInvalidSolution:
		return e.Kind == KindInvalidSolution
	}
	return false
}

func problemError(code, field, entity, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidProblem,
		Code:    code,
		Field:   field,
		Entity:  entity,
		Message: fmt.Sprintf(format, args...),
	}
}

func solutionError(code, field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidSolution,
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// orNil converts a typed nil *Error into a nil error interface.
func orNil(e *Error) error {
	if e == nil {
		return nil
	}
	return e
}
