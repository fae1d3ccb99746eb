//go:build highs

package lp

import (
	"context"
	"fmt"
	"math"

	"github.com/lanl/highs"
)

// HiGHS solves LP and MILP models through the cgo HiGHS bindings.
type HiGHS struct{}

func newHiGHS() (Solver, error) { return &HiGHS{}, nil }

func (h *HiGHS) Name() string { return BackendHiGHS }

func (h *HiGHS) Solve(ctx context.Context, m *Model) (*Solution, error) {
	m.Seal()
	return run(ctx, func() (*Solution, error) { return solveHiGHS(m) })
}

func toHiGHS(m *Model) *highs.Model {
	n := len(m.vars)
	hm := &highs.Model{
		Maximize: true,
		ColCosts: make([]float64, n),
		ColLower: make([]float64, n),
		ColUpper: make([]float64, n),
		VarTypes: make([]highs.VariableType, n),
	}
	for i, v := range m.vars {
		hm.ColLower[i] = v.Lower
		hm.ColUpper[i] = v.Upper
		hm.VarTypes[i] = highs.ContinuousType
		if v.Kind == Binary {
			hm.VarTypes[i] = highs.IntegerType
		}
	}
	for _, t := range m.objective {
		hm.ColCosts[t.Var] = t.Coef
	}

	for r, c := range m.constraints {
		lower, upper := math.Inf(-1), math.Inf(1)
		switch c.Op {
		case LE:
			upper = c.RHS
		case GE:
			lower = c.RHS
		case EQ:
			lower, upper = c.RHS, c.RHS
		}
		hm.RowLower = append(hm.RowLower, lower)
		hm.RowUpper = append(hm.RowUpper, upper)
		for _, t := range c.Terms {
			hm.ConstMatrix = append(hm.ConstMatrix, highs.Nonzero{Row: r, Col: int(t.Var), Val: t.Coef})
		}
	}
	return hm
}

func solveHiGHS(m *Model) (*Solution, error) {
	sol, err := toHiGHS(m).Solve()
	if err != nil {
		return nil, fmt.Errorf("lp: highs on %s: %w", m.Name, err)
	}
	switch sol.Status {
	case highs.Optimal:
	case highs.Infeasible:
		return nil, ErrInfeasible
	case highs.Unbounded:
		return nil, ErrUnbounded
	default:
		return nil, fmt.Errorf("lp: highs on %s: status %s", m.Name, sol.Status)
	}

	values := make([]float64, len(m.vars))
	copy(values, sol.ColumnPrimal)
	return &Solution{Objective: m.objective.Eval(values), Values: values}, nil
}
