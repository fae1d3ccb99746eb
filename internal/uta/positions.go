package uta

import (
	"fmt"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
)

// addPositions encodes the rank bounds with binary "i is higher than j"
// indicators h(i,j). For a pair outside one indifference class exactly one
// indicator is set and the winner leads by at least epsilon:
//
//	U(i) - U(j) - eps - M*h(i,j) >= -M
//	h(i,j) + h(j,i) = 1
//
// Pairs tied by indifference get both indicators fixed at 0. The number of
// alternatives above i is at most worst-1 and the number below at most n-best.
func (b *build) addPositions() {
	positions := b.in.problem.Positions
	if len(positions) == 0 {
		return
	}
	ids := b.in.grid.ids
	n := len(ids)
	m := b.model

	indicators := make(map[[2]int]lp.Var)
	higher := func(i, j int) lp.Var {
		k := [2]int{i, j}
		if v, ok := indicators[k]; ok {
			return v
		}
		v := m.AddBinary(fmt.Sprintf("h_%s_%s", ids[i], ids[j]))
		indicators[k] = v
		return v
	}

	linked := make(map[[2]int]bool)
	for _, pos := range positions {
		i := b.in.index[pos.Alternative]
		var above, below lp.Expr
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			hij, hji := higher(i, j), higher(j, i)
			above = above.Plus(1, hji)
			below = below.Plus(1, hij)

			k := [2]int{min(i, j), max(i, j)}
			if linked[k] {
				continue
			}
			linked[k] = true

			label := ids[i] + "_" + ids[j]
			if b.in.class[i] == b.in.class[j] {
				m.Add("tie_"+label, lp.Expr{}.Plus(1, hij), lp.EQ, 0)
				m.Add("tie_"+ids[j]+"_"+ids[i], lp.Expr{}.Plus(1, hji), lp.EQ, 0)
				continue
			}
			ui, uj := b.space.Utility(i), b.space.Utility(j)
			m.Add("above_"+label, ui.Sub(uj).Plus(-1, b.eps).Plus(-b.bigM, hij), lp.GE, -b.bigM)
			m.Add("above_"+ids[j]+"_"+ids[i], uj.Sub(ui).Plus(-1, b.eps).Plus(-b.bigM, hji), lp.GE, -b.bigM)
			m.Add("order_"+label, lp.Expr{}.Plus(1, hij).Plus(1, hji), lp.EQ, 1)
		}
		m.Add("worst_"+pos.Alternative, above, lp.LE, float64(pos.Worst-1))
		m.Add("best_"+pos.Alternative, below, lp.LE, float64(n-pos.Best))
	}
}
