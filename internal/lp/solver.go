package lp

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInfeasible         = errors.New("lp: model is infeasible")
	ErrUnbounded          = errors.New("lp: model is unbounded")
	ErrIntegerUnsupported = errors.New("lp: backend cannot solve models with binary variables")
)

// Solution is an optimal assignment, indexed by Var.
type Solution struct {
	Objective float64
	Values    []float64
}

func (s *Solution) Value(v Var) float64 { return s.Values[v] }

// Solver solves a model to optimality.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
	Name() string
}

const (
	BackendSimplex = "simplex"
	BackendHiGHS   = "highs"
)

// New returns the solver registered under backend.
func New(backend string) (Solver, error) {
	switch backend {
	case "", BackendSimplex:
		return NewSimplex(), nil
	case BackendHiGHS:
		return newHiGHS()
	}
	return nil, fmt.Errorf("lp: unknown backend %q", backend)
}

// run executes solve on its own goroutine so a cancelled context returns
// promptly even when the engine itself cannot be interrupted. The engine is
// not stopped: an abandoned solve keeps its goroutine and memory until it
// finishes, and its result is discarded. Callers issuing many solves should
// check ctx between them.
func run(ctx context.Context, solve func() (*Solution, error)) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		sol *Solution
		err error
	}
	ch := make(chan result, 1)
	go func() {
		sol, err := solve()
		ch <- result{sol, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.sol, r.err
	}
}
