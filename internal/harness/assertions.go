package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s", event.Seq, event.Operation, event.Status)
		if event.ErrorRule != "" {
			fmt.Fprintf(&buf, " %s", event.ErrorRule)
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the trace and returns
// one message per failure.
func EvaluateAssertions(trace []TraceEvent, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(trace, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(trace []TraceEvent, a Assertion) error {
	switch a.Type {
	case AssertRunContains:
		return assertRunContains(trace, a)
	case AssertRunOrder:
		return assertRunOrder(trace, a)
	case AssertRunCount:
		return assertRunCount(trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertRunContains checks for a run of the operation. Status and Rule are
// only compared when set.
func assertRunContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Operation != a.Operation {
			continue
		}
		if a.Status != "" && event.Status != a.Status {
			continue
		}
		if a.Rule != "" && event.ErrorRule != a.Rule {
			continue
		}
		return nil
	}

	want := a.Operation
	if a.Status != "" {
		want += " " + a.Status
	}
	if a.Rule != "" {
		want += " " + a.Rule
	}
	return &AssertionError{
		Type:     AssertRunContains,
		Expected: fmt.Sprintf("run %s", want),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertRunOrder checks that the first run of each operation appears in the
// given order. Runs in between are allowed.
func assertRunOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event.Operation]; !seen {
			positions[event.Operation] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range a.Operations {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertRunOrder,
				Expected: fmt.Sprintf("all operations present: %v", a.Operations),
				Actual:   fmt.Sprintf("missing operation: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Operations); i++ {
		prev, curr := a.Operations[i-1], a.Operations[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertRunOrder,
				Expected: fmt.Sprintf("operations in order: %v", a.Operations),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertRunCount checks that the operation was recorded exactly Count times.
func assertRunCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Operation == a.Operation {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertRunCount,
			Expected: fmt.Sprintf("%d runs of %s", a.Count, a.Operation),
			Actual:   fmt.Sprintf("%d runs", count),
			Trace:    trace,
		}
	}
	return nil
}
