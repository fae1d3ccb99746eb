package uta

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// Representative is the value function that best reflects the necessary
// relation while spreading incomparable alternatives apart as little as
// possible.
type Representative struct {
	Ranking       Ranking              `json:"ranking"`
	Epsilon       float64              `json:"epsilon"`
	Delta         float64              `json:"delta"`
	Functions     Functions            `json:"functions"`
	Relation      Relation             `json:"relation"`
	Acceptability map[string][]float64 `json:"acceptability,omitempty"`
}

// Representative computes the necessary relation and then one value function
// maximizing M*eps - delta, where eps separates necessarily ordered pairs and
// delta bounds the gap between incomparable ones.
func (e *Engine) Representative(ctx context.Context, p *problem.Problem) (*Representative, error) {
	in, err := e.prepare(p)
	if err != nil {
		return nil, err
	}
	if _, _, err := e.feasible(ctx, in); err != nil {
		return nil, err
	}
	rel, err := e.necessary(ctx, in)
	if err != nil {
		return nil, err
	}
	return e.representative(ctx, in, rel)
}

// Functions returns the marginal utility functions of the representative
// value function.
func (e *Engine) Functions(ctx context.Context, p *problem.Problem) (Functions, error) {
	rep, err := e.Representative(ctx, p)
	if err != nil {
		return nil, err
	}
	return rep.Functions, nil
}

func (e *Engine) representative(ctx context.Context, in *instance, rel Relation) (*Representative, error) {
	b := in.structural("representative", e.opts.BigM)
	delta := b.model.AddVar("delta", 0, math.Inf(1))
	dom := rel.sets()
	ids := in.grid.ids

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			ij, ji := dom[ids[i]][ids[j]], dom[ids[j]][ids[i]]
			switch {
			case ij && ji:
			case ij:
				b.strict("nec_"+ids[i]+"_"+ids[j], i, j)
			case ji:
				b.strict("nec_"+ids[j]+"_"+ids[i], j, i)
			default:
				diff := b.space.Utility(i).Sub(b.space.Utility(j))
				b.model.Add("gap_"+ids[i]+"_"+ids[j], diff.Plus(-1, delta), lp.LE, 0)
				b.model.Add("gap_"+ids[j]+"_"+ids[i], lp.Expr{}.Sub(diff).Plus(-1, delta), lp.LE, 0)
			}
		}
	}
	b.model.Maximize(lp.Expr{}.Plus(e.opts.RepresentativeWeight, b.eps).Plus(-1, delta))

	sol, err := e.solve(ctx, b.model)
	if errors.Is(err, lp.ErrInfeasible) {
		return nil, fmt.Errorf("%w: representative model infeasible", ErrInfeasible)
	}
	if err != nil {
		return nil, fmt.Errorf("representative: %w", err)
	}

	values := b.space.Values(sol)
	rep := &Representative{
		Ranking:   rank(in.grid, values, e.opts.Precision),
		Epsilon:   round(sol.Value(b.eps), e.opts.Precision),
		Delta:     round(sol.Value(delta), e.opts.Precision),
		Functions: functionsOf(in.grid, values, e.opts.Precision),
		Relation:  rel,
	}
	if e.Sampling() {
		rep.Acceptability = e.acceptability(ctx, in)
	}
	return rep, nil
}
