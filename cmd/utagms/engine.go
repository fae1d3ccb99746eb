package main

import (
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/utagms/internal/config"
	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/metrics"
	"github.com/MikeSquared-Agency/utagms/internal/sampler"
	"github.com/MikeSquared-Agency/utagms/internal/uta"
)

func engineOptions(cfg *config.Config) uta.Options {
	return uta.Options{
		BigM:                 cfg.Solver.BigM,
		RepresentativeWeight: cfg.Solver.RepresentativeWeight,
		Tolerance:            cfg.Solver.Tolerance,
		Workers:              cfg.Solver.Workers,
		SolveTimeout:         cfg.SolveTimeout(),
		FastPath:             cfg.Solver.FastPathEnabled,
		Precision:            cfg.Ranking.Precision,
		Samples:              cfg.Sampler.Samples,
	}
}

// newEngine builds the engine for cfg. m may be nil.
func newEngine(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*uta.Engine, error) {
	solver, err := lp.New(cfg.Solver.Backend)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	if m != nil {
		solver = metrics.InstrumentSolver(solver, m)
	}

	e := uta.NewEngine(solver, engineOptions(cfg), logger)
	if m != nil {
		e.WithObserver(m)
	}
	if cfg.Sampler.Enabled {
		e.WithSampler(sampler.NewPolyrun(cfg.Sampler.Java, cfg.Sampler.Jar, logger))
	}
	return e, nil
}
