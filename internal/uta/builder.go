package uta

import (
	"math"

	"github.com/MikeSquared-Agency/utagms/internal/lp"
	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

// instance is the read-only view of one problem shared by all model builds.
type instance struct {
	problem *problem.Problem
	grid    *Grid
	index   map[string]int
	class   []int // indifference class representative per alternative
}

func newInstance(p *problem.Problem) *instance {
	in := &instance{
		problem: p,
		grid:    NewGrid(p),
		index:   p.Index(),
	}
	in.class = indifferenceClasses(len(p.Alternatives), in.index, p.Indifferences)
	return in
}

// indifferenceClasses closes the indifference statements transitively with a
// union-find and returns the class representative of every alternative.
func indifferenceClasses(n int, index map[string]int, pairs []problem.Indifference) []int {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for _, p := range pairs {
		a, b := find(index[p.First]), find(index[p.Second])
		if a != b {
			parent[max(a, b)] = min(a, b)
		}
	}
	class := make([]int, n)
	for i := range class {
		class[i] = find(i)
	}
	return class
}

// build is one model under construction.
type build struct {
	in     *instance
	model  *lp.Model
	space  *Space
	eps    lp.Var
	hasEps bool
	bigM   float64
}

// structural returns a fresh model holding the base, interpolation, judgment
// and position constraints with a free epsilon capped at 1.
func (in *instance) structural(name string, bigM float64) *build {
	m := lp.NewModel(name)
	b := &build{in: in, model: m, hasEps: true, bigM: bigM}
	b.eps = m.AddVar("epsilon", math.Inf(-1), 1)
	b.space = NewSpace(in.grid, m)
	addBase(b.space)
	addInterpolation(b.space)
	b.addJudgments()
	b.addPositions()
	return b
}

// sampling returns the polytope handed to the sampler: base, interpolation
// and judgment constraints with preferences as weak inequalities.
func (in *instance) sampling() *build {
	m := lp.NewModel("sampling")
	b := &build{in: in, model: m}
	b.space = NewSpace(in.grid, m)
	addBase(b.space)
	addInterpolation(b.space)
	b.addJudgments()
	return b
}

// maximizeEpsilon sets the objective to epsilon.
func (b *build) maximizeEpsilon() {
	b.model.Maximize(lp.Expr{}.Plus(1, b.eps))
}
