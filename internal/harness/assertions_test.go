package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTrace = []TraceEvent{
	{Seq: 1, ID: "run-1", Operation: "validate", Status: "ok"},
	{Seq: 2, ID: "run-2", Operation: "solve", Status: "failed", ErrorKind: "INVALID_PROBLEM", ErrorRule: "Q141"},
	{Seq: 3, ID: "run-3", Operation: "solve", Status: "ok", BindingCount: 1},
	{Seq: 4, ID: "run-4", Operation: "binding_space", Status: "no_solution"},
}

func TestAssertRunContains(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantPass  bool
	}{
		{"operation only", Assertion{Operation: "binding_space"}, true},
		{"with status", Assertion{Operation: "solve", Status: "ok"}, true},
		{"with rule", Assertion{Operation: "solve", Status: "failed", Rule: "Q141"}, true},
		{"wrong rule", Assertion{Operation: "solve", Rule: "Q140"}, false},
		{"wrong status", Assertion{Operation: "validate", Status: "failed"}, false},
		{"absent", Assertion{Operation: "optimize"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertRunContains
			err := assertRunContains(sampleTrace, tt.assertion)
			if tt.wantPass {
				assert.NoError(t, err)
				return
			}
			var aerr *AssertionError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, "not found in trace", aerr.Actual)
		})
	}
}

func TestAssertRunOrder(t *testing.T) {
	assert.NoError(t, assertRunOrder(sampleTrace, Assertion{Operations: []string{"validate", "solve", "binding_space"}}))
	assert.NoError(t, assertRunOrder(sampleTrace, Assertion{Operations: []string{"validate", "binding_space"}}))

	err := assertRunOrder(sampleTrace, Assertion{Operations: []string{"solve", "validate"}})
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "solve (pos 2) should be before validate (pos 1)", aerr.Actual)

	err = assertRunOrder(sampleTrace, Assertion{Operations: []string{"validate", "optimize"}})
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "missing operation: optimize", aerr.Actual)
}

func TestAssertRunCount(t *testing.T) {
	assert.NoError(t, assertRunCount(sampleTrace, Assertion{Operation: "solve", Count: 2}))
	assert.NoError(t, assertRunCount(sampleTrace, Assertion{Operation: "optimize", Count: 0}))

	err := assertRunCount(sampleTrace, Assertion{Operation: "validate", Count: 2})
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "2 runs of validate", aerr.Expected)
	assert.Equal(t, "1 runs", aerr.Actual)
}

func TestEvaluateAssertions(t *testing.T) {
	failures := EvaluateAssertions(sampleTrace, []Assertion{
		{Type: AssertRunCount, Operation: "solve", Count: 2},
		{Type: AssertRunContains, Operation: "validate", Status: "failed"},
		{Type: "final_state"},
	})
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], "Assertion failed: run_contains")
	assert.Contains(t, failures[1], `unknown assertion type "final_state"`)
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertRunCount,
		Expected: "1 runs of solve",
		Actual:   "2 runs",
		Trace:    sampleTrace[:2],
	}
	assert.Equal(t,
		"Assertion failed: run_count\n  Expected: 1 runs of solve\n  Actual: 2 runs\n\nFull trace:\n  [1] validate ok\n  [2] solve failed Q141\n",
		err.Error())
}
