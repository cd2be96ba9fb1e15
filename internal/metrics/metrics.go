// Package metrics provides Prometheus metrics recording for the engine.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for qaco_engine_calls_total.
const (
	OutcomeOK              = "ok"
	OutcomeNoSolution      = "no_solution"
	OutcomeInvalidProblem  = "invalid_problem"
	OutcomeInvalidSolution = "invalid_solution"
	OutcomeStrategyFailed  = "strategy_failed"
)

// Recorder owns a registry and the engine's collectors.
// A Recorder is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	calls              *prometheus.CounterVec
	callDuration       *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qaco_engine_calls_total",
				Help: "Total number of engine calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qaco_engine_call_duration_seconds",
				Help:    "Engine call duration in seconds, strategy time included",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"operation"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qaco_validation_failures_total",
				Help: "Total number of validation failures by kind and rule",
			},
			[]string{"kind", "rule"},
		),
	}
}

// RecordCall records one engine call.
func (r *Recorder) RecordCall(operation, outcome string, duration time.Duration) {
	r.calls.WithLabelValues(operation, outcome).Inc()
	r.callDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordValidationFailure records one violated rule.
func (r *Recorder) RecordValidationFailure(kind, rule string) {
	r.validationFailures.WithLabelValues(kind, rule).Inc()
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
