package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordCall(t *testing.T) {
	r := New()
	r.RecordCall("solve", OutcomeOK, 2*time.Millisecond)
	r.RecordCall("solve", OutcomeOK, time.Millisecond)
	r.RecordCall("solve", OutcomeInvalidProblem, time.Millisecond)

	assert.Equal(t, 2.0, promtest.ToFloat64(r.calls.WithLabelValues("solve", OutcomeOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.calls.WithLabelValues("solve", OutcomeInvalidProblem)))
	assert.Equal(t, 1, promtest.CollectAndCount(r.callDuration))
}

func TestRecorder_RecordValidationFailure(t *testing.T) {
	r := New()
	r.RecordValidationFailure("INVALID_PROBLEM", "Q141")

	assert.Equal(t, 1.0, promtest.ToFloat64(r.validationFailures.WithLabelValues("INVALID_PROBLEM", "Q141")))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordValidationFailure("INVALID_SOLUTION", "Q201")

	assert.Equal(t, 0, promtest.CollectAndCount(b.validationFailures))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.RecordCall("binding_space", OutcomeOK, time.Millisecond)

	path := filepath.Join(t.TempDir(), "qaco.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `qaco_engine_calls_total{operation="binding_space",outcome="ok"} 1`)
}

func TestRecorder_WriteTextfile_BadPath(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "qaco.prom"))
	assert.Error(t, err)
}
