package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/qaco/internal/metrics"
	"github.com/roach88/qaco/internal/store"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Problem is the problem file or CUE package directory to load.
	// LoadScenario resolves it relative to the scenario file.
	Problem string `yaml:"problem"`

	// Strategy names the strategy under test. Defaults to "uniform".
	Strategy string `yaml:"strategy,omitempty"`

	// Seed fixes the strategy's random source for every call.
	Seed *int64 `yaml:"seed,omitempty"`

	// Steps are the engine calls, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the recorded runs after all steps.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one engine call.
type Step struct {
	// Call is "validate", "solve" or "binding_space".
	Call string `yaml:"call"`

	// Expect is checked against the call's outcome. Nil expects success.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a step.
type Expect struct {
	// Outcome is one of ok, no_solution, invalid_problem, invalid_solution
	// and strategy_failed.
	Outcome string `yaml:"outcome"`

	// Rule is the expected violated rule code, e.g. "Q141".
	Rule string `yaml:"rule,omitempty"`

	// Field is the expected path of the offending value.
	Field string `yaml:"field,omitempty"`

	// Bindings is the expected number of bindings on success.
	Bindings *int `yaml:"bindings,omitempty"`
}

// Assertion validates the trace of recorded runs.
type Assertion struct {
	// Type specifies the assertion type:
	// - "run_contains": a run with Operation, Status and Rule exists
	// - "run_order": Operations appear in this order
	// - "run_count": Operation appears exactly Count times
	Type string `yaml:"type"`

	Operation  string   `yaml:"operation,omitempty"`
	Status     string   `yaml:"status,omitempty"`
	Rule       string   `yaml:"rule,omitempty"`
	Count      int      `yaml:"count,omitempty"`
	Operations []string `yaml:"operations,omitempty"`
}

// Assertion type constants.
const (
	AssertRunContains = "run_contains"
	AssertRunOrder    = "run_order"
	AssertRunCount    = "run_count"
)

var (
	validCalls = []string{
		string(store.OpValidate),
		string(store.OpSolve),
		string(store.OpBindingSpace),
	}
	validOutcomes = []string{
		metrics.OutcomeOK,
		metrics.OutcomeNoSolution,
		metrics.OutcomeInvalidProblem,
		metrics.OutcomeInvalidSolution,
		metrics.OutcomeStrategyFailed,
	}
	validAssertions = []string{AssertRunContains, AssertRunOrder, AssertRunCount}
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative problem path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(scenario.Problem) {
		scenario.Problem = filepath.Join(filepath.Dir(path), scenario.Problem)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without resolving paths.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Problem == "" {
		return fmt.Errorf("problem is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !slices.Contains(validCalls, step.Call) {
			return fmt.Errorf("steps[%d]: call %q must be one of %v", i, step.Call, validCalls)
		}
		if step.Expect != nil && !slices.Contains(validOutcomes, step.Expect.Outcome) {
			return fmt.Errorf("steps[%d]: outcome %q must be one of %v", i, step.Expect.Outcome, validOutcomes)
		}
	}

	for i, a := range s.Assertions {
		if !slices.Contains(validAssertions, a.Type) {
			return fmt.Errorf("assertions[%d]: type %q must be one of %v", i, a.Type, validAssertions)
		}
		switch a.Type {
		case AssertRunContains, AssertRunCount:
			if a.Operation == "" {
				return fmt.Errorf("assertions[%d]: %s requires operation", i, a.Type)
			}
		case AssertRunOrder:
			if len(a.Operations) < 2 {
				return fmt.Errorf("assertions[%d]: run_order requires at least two operations", i)
			}
		}
	}
	return nil
}
