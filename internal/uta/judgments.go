package uta

import "github.com/MikeSquared-Agency/utagms/internal/lp"

// strict emits U(a) - U(b) - eps >= 0, or U(a) - U(b) >= 0 when the model has
// no epsilon column.
func (b *build) strict(label string, a, c int) {
	e := b.space.Utility(a).Sub(b.space.Utility(c))
	if b.hasEps {
		e = e.Plus(-1, b.eps)
	}
	b.model.Add(label, e, lp.GE, 0)
}

// equal emits U(a) - U(b) = 0.
func (b *build) equal(label string, a, c int) {
	b.model.Add(label, b.space.Utility(a).Sub(b.space.Utility(c)), lp.EQ, 0)
}

func (b *build) addJudgments() {
	for _, pr := range b.in.problem.Preferences {
		b.strict("pref_"+pr.Superior+"_"+pr.Inferior, b.in.index[pr.Superior], b.in.index[pr.Inferior])
	}
	for _, ind := range b.in.problem.Indifferences {
		b.equal("indiff_"+ind.First+"_"+ind.Second, b.in.index[ind.First], b.in.index[ind.Second])
	}
}
