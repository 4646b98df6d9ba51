// Package telemetry exposes Prometheus metrics for the solve pipeline: a
// CounterVec/HistogramVec/GaugeVec trio behind a registry, so a solve's
// outcome, duration, and model size are all observable.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics for one process's worth of solves. A
// cmd/rotation-core invocation only ever runs one solve, but the registry
// composes cleanly if the core is ever embedded in a longer-lived process.
type Registry struct {
	registry prometheus.Registerer

	solveOutcomesTotal   prometheus.CounterVec
	solveDuration        prometheus.HistogramVec
	modelVariablesTotal  prometheus.GaugeVec
	modelConstraintsTotal prometheus.GaugeVec

	mu sync.RWMutex
}

// New creates and registers the solve metrics against the global default
// registry. It panics if any metric fails to register.
func New() *Registry {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers the solve metrics against a custom
// registry (used by tests to avoid colliding with the global one).
func NewWithRegistry(registerer prometheus.Registerer) *Registry {
	r := &Registry{registry: registerer}

	r.solveOutcomesTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rotation_solve_outcomes_total",
			Help: "Total solves by resulting status",
		},
		[]string{"status"},
	)
	r.registry.MustRegister(&r.solveOutcomesTotal)

	r.solveDuration = *prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rotation_solve_duration_seconds",
			Help:    "CP-SAT solve wall-clock duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	r.registry.MustRegister(&r.solveDuration)

	r.modelVariablesTotal = *prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rotation_model_variables_total",
			Help: "Decision variables in the most recently built model",
		},
		[]string{"kind"},
	)
	r.registry.MustRegister(&r.modelVariablesTotal)

	r.modelConstraintsTotal = *prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rotation_model_constraints_total",
			Help: "Constraints emitted for the most recently built model",
		},
		[]string{},
	)
	r.registry.MustRegister(&r.modelConstraintsTotal)

	return r
}

// RecordSolve records one solve's outcome and duration.
func (r *Registry) RecordSolve(status string, durationSeconds float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.solveOutcomesTotal.WithLabelValues(status).Inc()
	r.solveDuration.WithLabelValues(status).Observe(durationSeconds)
}

// RecordModelSize records the variable and constraint counts of a built
// model.
func (r *Registry) RecordModelSize(assignmentVars, blockVars, constraints int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.modelVariablesTotal.WithLabelValues("assignment").Set(float64(assignmentVars))
	r.modelVariablesTotal.WithLabelValues("block").Set(float64(blockVars))
	r.modelConstraintsTotal.WithLabelValues().Set(float64(constraints))
}
