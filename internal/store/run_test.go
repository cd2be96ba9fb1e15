package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.RecordRun(ctx, Run{Operation: OpSolve, Status: StatusOK, BindingCount: 1})
	require.NoError(t, err)
	second, err := s.RecordRun(ctx, Run{Operation: OpValidate, Status: StatusOK})
	require.NoError(t, err)

	assert.Equal(t, "run-1", first.ID)
	assert.Equal(t, "run-2", second.ID)
	assert.Equal(t, int64(1), first.CreatedSeq)
	assert.Equal(t, int64(2), second.CreatedSeq)
}

func TestRecordRun_KeepsCallerID(t *testing.T) {
	s := createTestStore(t)

	run, err := s.RecordRun(context.Background(), Run{ID: "fixed", Operation: OpSolve, Status: StatusNoSolution})
	require.NoError(t, err)
	assert.Equal(t, "fixed", run.ID)
}

func TestRecordRun_DuplicateIDFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.RecordRun(ctx, Run{ID: "dup", Operation: OpSolve, Status: StatusOK})
	require.NoError(t, err)
	_, err = s.RecordRun(ctx, Run{ID: "dup", Operation: OpSolve, Status: StatusOK})
	assert.Error(t, err)
}

func TestRecordRun_RejectsUnknownOperation(t *testing.T) {
	s := createTestStore(t)
	_, err := s.RecordRun(context.Background(), Run{Operation: "optimize", Status: StatusOK})
	assert.Error(t, err)
}

func TestRecordRun_FailureFieldsRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := Run{
		Operation:   OpSolve,
		ProblemHash: "abc",
		Strategy:    "uniform",
		Status:      StatusFailed,
		ErrorKind:   "INVALID_PROBLEM",
		ErrorRule:   "Q141",
		Message:     "GlobalConstraint feature must be part of Optimization's features: Cost",
	}
	recorded, err := s.RecordRun(ctx, in)
	require.NoError(t, err)

	got, err := s.GetRun(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, recorded, got)
	assert.JSONEq(t, "null", string(got.Result))
}

func TestRecordRun_ResultIsCanonical(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.RecordRun(ctx, Run{
		Operation: OpSolve,
		Status:    StatusOK,
		Result:    json.RawMessage(`{ "b": 1, "a": "<x>" }`),
	})
	require.NoError(t, err)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<x>","b":1}`, string(got.Result))
}

func TestRecordRun_InvalidResult(t *testing.T) {
	s := createTestStore(t)
	_, err := s.RecordRun(context.Background(), Run{Operation: OpSolve, Status: StatusOK, Result: json.RawMessage(`{`)})
	assert.Error(t, err)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, op := range []Operation{OpValidate, OpSolve, OpBindingSpace} {
		_, err := s.RecordRun(ctx, Run{Operation: op, Status: StatusOK})
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, OpBindingSpace, all[0].Operation)
	assert.Equal(t, OpValidate, all[2].Operation)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, int64(3), limited[0].CreatedSeq)
	assert.Equal(t, int64(2), limited[1].CreatedSeq)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestRunsForProblem(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, hash := range []string{"p1", "p2", "p1"} {
		_, err := s.RecordRun(ctx, Run{Operation: OpSolve, Status: StatusOK, ProblemHash: hash})
		require.NoError(t, err)
	}

	runs, err := s.RunsForProblem(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(1), runs[0].CreatedSeq)
	assert.Equal(t, int64(3), runs[1].CreatedSeq)
}
