package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/qaco/internal/ir"
)

// Operation names the engine call a run records.
type Operation string

const (
	OpSolve        Operation = "solve"
	OpBindingSpace Operation = "binding_space"
	OpValidate     Operation = "validate"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK         Status = "ok"
	StatusNoSolution Status = "no_solution"
	StatusFailed     Status = "failed"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one row of the run log.
type Run struct {
	ID           string          `json:"id"`
	Operation    Operation       `json:"operation"`
	ProblemHash  string          `json:"problem_hash,omitempty"`
	Strategy     string          `json:"strategy,omitempty"`
	Status       Status          `json:"status"`
	ErrorKind    string          `json:"error_kind,omitempty"`
	ErrorRule    string          `json:"error_rule,omitempty"`
	Message      string          `json:"message,omitempty"`
	BindingCount int             `json:"binding_count"`
	Result       json.RawMessage `json:"result,omitempty"`
	CreatedSeq   int64           `json:"created_seq"`
}

// RecordRun appends a run and returns it with ID and CreatedSeq filled in.
// A caller-supplied ID is kept; CreatedSeq is always assigned by the store.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	result, err := canonicalResult(run.Result)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	run.Result = json.RawMessage(result)

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, operation, problem_hash, strategy, status, error_kind, error_rule, message, binding_count, result, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs))
		RETURNING created_seq
	`,
		run.ID,
		string(run.Operation),
		run.ProblemHash,
		run.Strategy,
		string(run.Status),
		run.ErrorKind,
		run.ErrorRule,
		run.Message,
		run.BindingCount,
		result,
	).Scan(&run.CreatedSeq)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY created_seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunsForProblem returns every run of a problem hash in insertion order.
func (s *Store) RunsForProblem(ctx context.Context, problemHash string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE problem_hash = ?
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`, problemHash)
	if err != nil {
		return nil, fmt.Errorf("query runs for problem: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs for problem: %w", err)
	}
	return runs, nil
}

const runColumns = `id, operation, problem_hash, strategy, status, error_kind, error_rule, message, binding_count, result, created_seq`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		operation string
		status    string
		result    string
	)
	err := row.Scan(
		&run.ID,
		&operation,
		&run.ProblemHash,
		&run.Strategy,
		&status,
		&run.ErrorKind,
		&run.ErrorRule,
		&run.Message,
		&run.BindingCount,
		&result,
		&run.CreatedSeq,
	)
	if err != nil {
		return Run{}, err
	}
	run.Operation = Operation(operation)
	run.Status = Status(status)
	run.Result = json.RawMessage(result)
	return run, nil
}

// canonicalResult re-encodes a result payload as canonical JSON TEXT so that
// equal results are stored byte-identically.
func canonicalResult(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "null", nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode result: %w", err)
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}
