package uta

import (
	"math"
	"sort"
)

type RankedAlternative struct {
	ID      string  `json:"id"`
	Utility float64 `json:"utility"`
}

// Ranking is ordered by ascending utility, ties by id.
type Ranking []RankedAlternative

// Map returns the utilities keyed by alternative id.
func (r Ranking) Map() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, ra := range r {
		out[ra.ID] = ra.Utility
	}
	return out
}

// rank evaluates every alternative from values. Each weighted marginal term
// and the total are rounded to precision decimals.
func rank(g *Grid, values map[Key]float64, precision int) Ranking {
	out := make(Ranking, len(g.ids))
	for a, id := range g.ids {
		var total float64
		for i := range g.scales {
			u := values[Key{Criterion: i, Value: g.performance[a][i]}]
			total += round(g.weights[i]*u, precision)
		}
		out[a] = RankedAlternative{ID: id, Utility: round(total, precision)}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Utility != out[j].Utility {
			return out[i].Utility < out[j].Utility
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func round(x float64, precision int) float64 {
	s := math.Pow10(precision)
	r := math.Round(x*s) / s
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
