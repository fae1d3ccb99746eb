// Package uta builds the UTA-GMS constraint models and runs the necessary
// relation, representative function and ranking analyses over them.
package uta

import (
	"fmt"
	"math"
	"sort"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// snapTolerance is the relative distance under which a characteristic point
// reuses an observed value.
const snapTolerance = 1e-9

// Key identifies a marginal utility variable.
type Key struct {
	Criterion int
	Value     float64
}

// scale is the immutable per-criterion geometry shared by every model built
// for one problem.
type scale struct {
	id     string
	gain   bool
	exact  bool
	values []float64 // distinct observed values, ascending
	points []float64 // breakpoints, ascending
	onGrid map[float64]bool
}

// worst is the least preferred breakpoint.
func (s *scale) worst() float64 {
	if s.gain {
		return s.points[0]
	}
	return s.points[len(s.points)-1]
}

// best is the most preferred breakpoint.
func (s *scale) best() float64 {
	if s.gain {
		return s.points[len(s.points)-1]
	}
	return s.points[0]
}

// ordered returns the breakpoints from least to most preferred.
func (s *scale) ordered() []float64 {
	out := make([]float64, len(s.points))
	copy(out, s.points)
	if !s.gain {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Grid holds the scales and performance matrix of a validated problem.
type Grid struct {
	ids         []string
	scales      []scale
	weights     []float64
	weighted    bool
	performance [][]float64 // [alternative][criterion]
}

// NewGrid derives the variable geometry of p. p must be valid.
func NewGrid(p *problem.Problem) *Grid {
	g := &Grid{
		ids:         p.AlternativeIDs(),
		scales:      make([]scale, len(p.Criteria)),
		weights:     p.Weights(),
		performance: make([][]float64, len(p.Alternatives)),
	}
	for _, w := range g.weights {
		if w != 1 {
			g.weighted = true
		}
	}

	for a, alt := range p.Alternatives {
		g.performance[a] = make([]float64, len(p.Criteria))
		for i, c := range p.Criteria {
			g.performance[a][i] = alt.Performances[c.ID]
		}
	}

	for i, c := range p.Criteria {
		seen := make(map[float64]bool)
		var values []float64
		for a := range g.performance {
			v := g.performance[a][i]
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Float64s(values)

		s := scale{id: c.ID, gain: c.Direction == problem.Gain, exact: c.Exact(), values: values}
		if s.exact {
			s.points = values
		} else {
			s.points = characteristicPoints(values, c.Segments)
		}
		s.onGrid = make(map[float64]bool, len(s.points))
		for _, pt := range s.points {
			s.onGrid[pt] = true
		}
		g.scales[i] = s
	}
	return g
}

// characteristicPoints spreads n points evenly over the observed range,
// reusing an observed value when a point falls on it.
func characteristicPoints(values []float64, n int) []float64 {
	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		return []float64{lo}
	}
	tol := snapTolerance * (hi - lo)
	points := make([]float64, n)
	for k := 0; k < n; k++ {
		x := lo + (hi-lo)*float64(k)/float64(n-1)
		switch k {
		case 0:
			x = lo
		case n - 1:
			x = hi
		default:
			j := sort.SearchFloat64s(values, x)
			for _, c := range []int{j - 1, j} {
				if c >= 0 && c < len(values) && math.Abs(values[c]-x) <= tol {
					x = values[c]
				}
			}
		}
		points[k] = x
	}
	return points
}

func (g *Grid) Alternatives() []string { return g.ids }

func (g *Grid) NumCriteria() int { return len(g.scales) }

// Points returns the ascending breakpoints of criterion i.
func (g *Grid) Points(i int) []float64 { return g.scales[i].points }

// Space is the variable registry of one model.
type Space struct {
	grid  *Grid
	model *lp.Model
	vars  map[Key]lp.Var
	keys  []Key
}

// NewSpace allocates one variable per breakpoint and per interpolated value
// of every criterion.
func NewSpace(g *Grid, m *lp.Model) *Space {
	s := &Space{grid: g, model: m, vars: make(map[Key]lp.Var)}
	for i := range g.scales {
		sc := &g.scales[i]
		for _, v := range sc.points {
			s.register(Key{Criterion: i, Value: v})
		}
		for _, v := range sc.values {
			s.register(Key{Criterion: i, Value: v})
		}
	}
	return s
}

func (s *Space) register(k Key) {
	if _, ok := s.vars[k]; ok {
		return
	}
	name := fmt.Sprintf("u_%s_%g", s.grid.scales[k.Criterion].id, k.Value)
	s.vars[k] = s.model.AddVar(name, 0, math.Inf(1))
	s.keys = append(s.keys, k)
}

// Var returns the variable of criterion i at value v. It panics for values
// outside the registry, which would be a construction bug.
func (s *Space) Var(i int, v float64) lp.Var {
	x, ok := s.vars[Key{Criterion: i, Value: v}]
	if !ok {
		panic(fmt.Sprintf("uta: no variable for criterion %d value %g", i, v))
	}
	return x
}

// Keys returns the registered keys in allocation order.
func (s *Space) Keys() []Key { return s.keys }

func (s *Space) Model() *lp.Model { return s.model }

func (s *Space) Grid() *Grid { return s.grid }

// Utility is the weighted sum of the marginal utilities of alternative a.
func (s *Space) Utility(a int) lp.Expr {
	e := make(lp.Expr, 0, len(s.grid.scales))
	for i := range s.grid.scales {
		e = e.Plus(s.grid.weights[i], s.Var(i, s.grid.performance[a][i]))
	}
	return e
}

// Values reads the marginal utilities of every registered key from sol.
func (s *Space) Values(sol *lp.Solution) map[Key]float64 {
	out := make(map[Key]float64, len(s.vars))
	for k, v := range s.vars {
		out[k] = sol.Value(v)
	}
	return out
}

// valuesFromRow reads the marginal utilities of every registered key from a
// raw column assignment.
func (s *Space) valuesFromRow(row []float64) map[Key]float64 {
	out := make(map[Key]float64, len(s.vars))
	for k, v := range s.vars {
		out[k] = row[v]
	}
	return out
}

// utilityOf evaluates the weighted utility of alternative a.
func (g *Grid) utilityOf(a int, values map[Key]float64) float64 {
	var u float64
	for i := range g.scales {
		u += g.weights[i] * values[Key{Criterion: i, Value: g.performance[a][i]}]
	}
	return u
}

// weaklyDominates reports whether a is at least as good as b on every
// criterion, taking directions into account.
func (g *Grid) weaklyDominates(a, b int) bool {
	for i := range g.scales {
		pa, pb := g.performance[a][i], g.performance[b][i]
		if g.scales[i].gain && pa < pb {
			return false
		}
		if !g.scales[i].gain && pa > pb {
			return false
		}
	}
	return true
}
