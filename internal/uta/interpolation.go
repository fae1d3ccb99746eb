package uta

import (
	"sort"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

// addInterpolation ties every observed value that is not a characteristic
// point to the line between its two neighbouring points:
//
//	u(v) - (1-t)*u(before) - t*u(after) = 0,  t = (v-before)/(after-before)
func addInterpolation(s *Space) {
	g := s.grid
	for i := range g.scales {
		sc := &g.scales[i]
		if sc.exact {
			continue
		}
		for _, v := range sc.values {
			if sc.onGrid[v] {
				continue
			}
			before, after, t := bracket(sc.points, v)
			s.model.Add("interp_"+sc.id, lp.Expr{}.
				Plus(1, s.Var(i, v)).
				Plus(-(1-t), s.Var(i, before)).
				Plus(-t, s.Var(i, after)), lp.EQ, 0)
		}
	}
}

// bracket finds the ascending neighbours of v in points and the relative
// position of v between them. v must lie strictly inside the range.
func bracket(points []float64, v float64) (before, after, t float64) {
	j := sort.SearchFloat64s(points, v)
	before, after = points[j-1], points[j]
	return before, after, (v - before) / (after - before)
}

// interpolate recomputes the utility of every off-grid value of a solved
// assignment from its neighbouring breakpoints.
func interpolate(g *Grid, values map[Key]float64) {
	for i := range g.scales {
		sc := &g.scales[i]
		if sc.exact {
			continue
		}
		for _, v := range sc.values {
			if sc.onGrid[v] {
				continue
			}
			before, after, t := bracket(sc.points, v)
			ub := values[Key{Criterion: i, Value: before}]
			ua := values[Key{Criterion: i, Value: after}]
			values[Key{Criterion: i, Value: v}] = ub + t*(ua-ub)
		}
	}
}
