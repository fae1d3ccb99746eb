package uta

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// Relation maps an alternative to the sorted ids it necessarily dominates.
// Every alternative is a key.
type Relation map[string][]string

// Has reports whether a necessarily dominates b.
func (r Relation) Has(a, b string) bool {
	for _, x := range r[a] {
		if x == b {
			return true
		}
	}
	return false
}

func (r Relation) sets() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(r))
	for a, bs := range r {
		set := make(map[string]bool, len(bs))
		for _, b := range bs {
			set[b] = true
		}
		out[a] = set
	}
	return out
}

// Necessary computes, for every ordered pair (a,b), whether every compatible
// value function ranks a at least as high as b.
func (e *Engine) Necessary(ctx context.Context, p *problem.Problem) (Relation, error) {
	in, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.feasible(ctx, in); err != nil {
		return nil, err
	}
	return e.necessary(ctx, in)
}

// necessary fans the pair queries out by source alternative. Each task owns
// one slot of rows so no merge step is needed.
func (e *Engine) necessary(ctx context.Context, in *instance) (Relation, error) {
	ids := in.grid.ids
	n := len(ids)
	rows := make([][]string, n)
	var solved, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for a := 0; a < n; a++ {
		g.Go(func() error {
			dominated := []string{}
			for b := 0; b < n; b++ {
				if a == b {
					continue
				}
				if e.opts.FastPath && in.grid.weaklyDominates(a, b) {
					skipped.Add(1)
					dominated = append(dominated, ids[b])
					continue
				}
				// A stopped group skips the remaining pairs of this row.
				if err := gctx.Err(); err != nil {
					return err
				}
				ok, err := e.dominates(gctx, in, a, b)
				if err != nil {
					return fmt.Errorf("necessary relation %s over %s: %w", ids[a], ids[b], err)
				}
				solved.Add(1)
				if ok {
					dominated = append(dominated, ids[b])
				}
			}
			sort.Strings(dominated)
			rows[a] = dominated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rel := make(Relation, n)
	for a, id := range ids {
		rel[id] = rows[a]
	}
	if e.observer != nil {
		e.observer.PairsResolved(solved.Load(), skipped.Load())
	}
	e.logger.Debug("necessary relation computed", "alternatives", n, "solved", solved.Load(), "fast_path", skipped.Load())
	return rel, nil
}

// dominates poses U(b) >= U(a) + eps on a fresh model. When the best epsilon
// is not positive, b can never catch up with a.
func (e *Engine) dominates(ctx context.Context, in *instance, a, b int) (bool, error) {
	ids := in.grid.ids
	bd := in.structural(fmt.Sprintf("pair_%s_%s", ids[a], ids[b]), e.opts.BigM)
	bd.strict("query", b, a)
	bd.maximizeEpsilon()
	sol, err := e.solve(ctx, bd.model)
	if err != nil {
		return false, err
	}
	return sol.Value(bd.eps) <= e.opts.Tolerance, nil
}
