// Package metrics exports the service's Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

type Metrics struct {
	Analyses         *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	Solves           *prometheus.CounterVec
	SolveDuration    *prometheus.HistogramVec
	PairQueries      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics
// handler.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utagms",
			Name:      "analyses_total",
			Help:      "Analyses run, by kind and status.",
		}, []string{"kind", "status"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "utagms",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"kind"}),
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utagms",
			Name:      "solves_total",
			Help:      "LP/MILP solves, by backend and outcome.",
		}, []string{"backend", "outcome"}),
		SolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "utagms",
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one solver call.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"backend"}),
		PairQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utagms",
			Name:      "pair_queries_total",
			Help:      "Necessary relation pair checks, by how they were resolved.",
		}, []string{"path"}),
	}
	reg.MustRegister(m.Analyses, m.AnalysisDuration, m.Solves, m.SolveDuration, m.PairQueries)
	return m
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(kind, status string, d time.Duration) {
	m.Analyses.WithLabelValues(kind, status).Inc()
	m.AnalysisDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// PairsResolved counts pair checks answered by the solver and by the
// dominance shortcut.
func (m *Metrics) PairsResolved(solved, fastPath int64) {
	m.PairQueries.WithLabelValues("solver").Add(float64(solved))
	m.PairQueries.WithLabelValues("fast_path").Add(float64(fastPath))
}

// Outcome classifies a solver result for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "optimal"
	case errors.Is(err, lp.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, lp.ErrUnbounded):
		return "unbounded"
	case errors.Is(err, lp.ErrIntegerUnsupported):
		return "unsupported"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}

type instrumented struct {
	next lp.Solver
	m    *Metrics
}

// InstrumentSolver wraps s so every solve is timed and counted.
func InstrumentSolver(s lp.Solver, m *Metrics) lp.Solver {
	return &instrumented{next: s, m: m}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Solve(ctx context.Context, model *lp.Model) (*lp.Solution, error) {
	start := time.Now()
	sol, err := i.next.Solve(ctx, model)
	backend := i.next.Name()
	i.m.SolveDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	i.m.Solves.WithLabelValues(backend, Outcome(err)).Inc()
	return sol, err
}
