package uta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// ErrInfeasible means no value function satisfies the preference information.
var ErrInfeasible = errors.New("uta: preference information admits no compatible value function")

// Sampler draws points uniformly from the polytope of a model. Every sample
// holds one value per model column, in column order.
type Sampler interface {
	Sample(ctx context.Context, m *lp.Model, n int) ([][]float64, error)
}

type Options struct {
	// BigM relaxes the rank-bound indicator constraints.
	BigM float64
	// RepresentativeWeight is the factor M in the objective M*eps - delta.
	RepresentativeWeight float64
	// Tolerance is the largest epsilon still read as "cannot be strict".
	Tolerance float64
	// Workers bounds the concurrent pair queries.
	Workers      int
	SolveTimeout time.Duration
	// FastPath skips the solver for pairs ordered by weak dominance.
	FastPath  bool
	Precision int
	// Samples is the number of sampler draws; 0 disables acceptability.
	Samples int
}

func DefaultOptions() Options {
	return Options{
		BigM:                 100,
		RepresentativeWeight: 1000,
		Tolerance:            1e-9,
		Workers:              4,
		FastPath:             true,
		Precision:            4,
	}
}

// Observer is told how the pair checks of each necessary relation were
// resolved.
type Observer interface {
	PairsResolved(solved, fastPath int64)
}

type Engine struct {
	solver   lp.Solver
	sampler  Sampler
	observer Observer
	opts     Options
	logger   *slog.Logger
}

func NewEngine(solver lp.Solver, opts Options, logger *slog.Logger) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{solver: solver, opts: opts, logger: logger}
}

// WithSampler enables acceptability histograms on representative runs.
func (e *Engine) WithSampler(s Sampler) *Engine {
	e.sampler = s
	return e
}

func (e *Engine) WithObserver(o Observer) *Engine {
	e.observer = o
	return e
}

// WithSamples returns a copy of e drawing n samples per representative run.
func (e *Engine) WithSamples(n int) *Engine {
	cp := *e
	cp.opts.Samples = n
	return &cp
}

// Sampling reports whether representative runs compute acceptability.
func (e *Engine) Sampling() bool { return e.sampler != nil && e.opts.Samples > 0 }

func (e *Engine) Options() Options { return e.opts }

func (e *Engine) prepare(p *problem.Problem) (*instance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in := newInstance(p)
	if p.HasPositions() {
		e.logger.Debug("rank bounds present, models are mixed-integer", "positions", len(p.Positions), "solver", e.solver.Name())
	}
	return in, nil
}

func (e *Engine) solve(ctx context.Context, m *lp.Model) (*lp.Solution, error) {
	if e.opts.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.SolveTimeout)
		defer cancel()
	}
	return e.solver.Solve(ctx, m)
}

// feasible solves the structural model with epsilon maximized. An infeasible
// model or an optimum without a positive epsilon is reported as ErrInfeasible.
func (e *Engine) feasible(ctx context.Context, in *instance) (*build, *lp.Solution, error) {
	b := in.structural("feasibility", e.opts.BigM)
	b.maximizeEpsilon()
	sol, err := e.solve(ctx, b.model)
	if errors.Is(err, lp.ErrInfeasible) {
		return nil, nil, fmt.Errorf("%w: structural model infeasible", ErrInfeasible)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("feasibility: %w", err)
	}
	if eps := sol.Value(b.eps); eps <= e.opts.Tolerance {
		return nil, nil, fmt.Errorf("%w: preferences cannot hold strictly (epsilon %.3g)", ErrInfeasible, eps)
	}
	return b, sol, nil
}

// Rank solves the feasibility model and ranks the alternatives by the value
// function it returns.
func (e *Engine) Rank(ctx context.Context, p *problem.Problem) (Ranking, error) {
	in, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	b, sol, err := e.feasible(ctx, in)
	if err != nil {
		return nil, err
	}
	return rank(in.grid, b.space.Values(sol), e.opts.Precision), nil
}

// Hasse computes the necessary relation and returns its transitive reduction.
func (e *Engine) Hasse(ctx context.Context, p *problem.Problem) (Diagram, error) {
	rel, err := e.Necessary(ctx, p)
	if err != nil {
		return nil, err
	}
	return Reduce(rel), nil
}
