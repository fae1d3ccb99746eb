package uta

import "sort"

// Point is one (performance, utility) pair of a marginal function.
type Point struct {
	Value   float64 `json:"value"`
	Utility float64 `json:"utility"`
}

// Functions maps a criterion id to its marginal utility function sorted by
// performance value.
type Functions map[string][]Point

func functionsOf(g *Grid, values map[Key]float64, precision int) Functions {
	out := make(Functions, len(g.scales))
	for i := range g.scales {
		sc := &g.scales[i]
		seen := make(map[float64]bool)
		var pts []Point
		for _, vs := range [][]float64{sc.points, sc.values} {
			for _, v := range vs {
				if seen[v] {
					continue
				}
				seen[v] = true
				pts = append(pts, Point{Value: v, Utility: round(values[Key{Criterion: i, Value: v}], precision)})
			}
		}
		sort.Slice(pts, func(a, b int) bool { return pts[a].Value < pts[b].Value })
		out[sc.id] = pts
	}
	return out
}
