package harness

import (
	"fmt"

	"github.com/roach88/qaco/internal/ir"
	"github.com/roach88/qaco/internal/store"
)

// StepOutcome is what one engine call produced.
type StepOutcome struct {
	Call    string `json:"call"`
	Outcome string `json:"outcome"`
	Phase   string `json:"phase,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Field   string `json:"field,omitempty"`

	// Bindings renders each returned binding as "task -> service" lines.
	Bindings [][]string `json:"bindings,omitempty"`
}

// TraceEvent is one run recorded by the engine.
type TraceEvent struct {
	Seq          int64  `json:"seq"`
	ID           string `json:"id"`
	Operation    string `json:"operation"`
	Status       string `json:"status"`
	Strategy     string `json:"strategy,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorRule    string `json:"error_rule,omitempty"`
	BindingCount int    `json:"binding_count"`
}

func traceEvent(r store.Run) TraceEvent {
	return TraceEvent{
		Seq:          r.CreatedSeq,
		ID:           r.ID,
		Operation:    string(r.Operation),
		Status:       string(r.Status),
		Strategy:     r.Strategy,
		ErrorKind:    r.ErrorKind,
		ErrorRule:    r.ErrorRule,
		BindingCount: r.BindingCount,
	}
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Steps holds the outcome of each step, in order.
	Steps []StepOutcome `json:"steps"`

	// Trace holds the recorded runs, oldest first.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepOutcome{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func renderBindings(bs []ir.Binding) [][]string {
	out := make([][]string, 0, len(bs))
	for _, b := range bs {
		lines := make([]string, 0, len(b.BindingMappings))
		for _, m := range b.BindingMappings {
			lines = append(lines, fmt.Sprintf("%s -> %s", m.Task.Name, m.CandidateService.Name))
		}
		out = append(out, lines)
	}
	return out
}
