package uta

import "github.com/MikeSquared-Agency/utagms/internal/lp"

// addBase emits the zero anchor, normalization, monotonicity and bounds
// constraints. With fixed weights every marginal function is normalized to
// reach 1 at its best breakpoint, so the weighted sum of the best values is
// 1; without weights the plain sum of the best values is 1.
func addBase(s *Space) {
	m := s.model
	g := s.grid
	var norm lp.Expr

	for i := range g.scales {
		sc := &g.scales[i]
		worst := s.Var(i, sc.worst())
		best := s.Var(i, sc.best())

		m.Add("anchor_"+sc.id, lp.Expr{}.Plus(1, worst), lp.EQ, 0)
		if g.weighted {
			if len(sc.points) > 1 {
				m.Add("normal_"+sc.id, lp.Expr{}.Plus(1, best), lp.EQ, 1)
			}
		} else {
			norm = norm.Plus(1, best)
		}

		order := sc.ordered()
		for k := 1; k < len(order); k++ {
			m.Add("monotone_"+sc.id,
				lp.Expr{}.Plus(1, s.Var(i, order[k])).Plus(-1, s.Var(i, order[k-1])), lp.GE, 0)
		}
		for _, v := range interior(order) {
			u := s.Var(i, v)
			m.Add("lower_"+sc.id, lp.Expr{}.Plus(1, u).Plus(-1, worst), lp.GE, 0)
			m.Add("upper_"+sc.id, lp.Expr{}.Plus(1, best).Plus(-1, u), lp.GE, 0)
		}
	}
	if !g.weighted {
		m.Add("normalization", norm, lp.EQ, 1)
	}
}

func interior(order []float64) []float64 {
	if len(order) < 3 {
		return nil
	}
	return order[1 : len(order)-1]
}
