package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	simplexTol = 1e-10
	zeroRowTol = 1e-12
	rankTol    = 1e-9
)

// Simplex solves continuous models with gonum's dense simplex. Models with
// binary columns are rejected with ErrIntegerUnsupported.
type Simplex struct{}

func NewSimplex() *Simplex { return &Simplex{} }

func (s *Simplex) Name() string { return BackendSimplex }

func (s *Simplex) Solve(ctx context.Context, m *Model) (*Solution, error) {
	m.Seal()
	if m.HasIntegers() {
		return nil, ErrIntegerUnsupported
	}
	return run(ctx, func() (*Solution, error) { return solveSimplex(m) })
}

// placement says how a model column is expressed with non-negative
// standard-form columns.
type placement int

const (
	unused   placement = iota // appears in no constraint, fixed at value
	shifted                   // x = base + x', x' >= 0
	mirrored                  // x = base - x', x' >= 0
	split                     // x = x+ - x-, both >= 0
)

type column struct {
	place placement
	pos   int
	base  float64
}

// stdRow is one row of the standard form before slack columns are added.
type stdRow struct {
	coefs map[int]float64
	op    Op
	rhs   float64
}

// standardForm turns a model into min c'x s.t. Ax = b, x >= 0 without going
// through a generic converter: columns with a finite lower bound are shifted,
// columns with only an upper bound are mirrored and only truly free columns
// are split. Splitting bounded columns would create zero-cost rays which the
// simplex can mistake for an unbounded direction.
type standardForm struct {
	cols  []column
	n     int // structural standard columns
	rows  []stdRow
	value []float64 // values of unused model columns
}

func newStandardForm(m *Model) (*standardForm, error) {
	sf := &standardForm{
		cols:  make([]column, len(m.vars)),
		value: make([]float64, len(m.vars)),
	}

	used := make([]bool, len(m.vars))
	for _, c := range m.constraints {
		for _, t := range c.Terms {
			used[t.Var] = true
		}
	}
	obj := make([]float64, len(m.vars))
	for _, t := range m.objective {
		obj[t.Var] = t.Coef
	}

	var bounds []stdRow
	for i, v := range m.vars {
		lower, upper := !math.IsInf(v.Lower, -1), !math.IsInf(v.Upper, 1)
		if lower && upper && v.Upper < v.Lower-zeroRowTol {
			return nil, ErrInfeasible
		}
		if !used[i] {
			val, err := unusedValue(v, obj[i])
			if err != nil {
				return nil, err
			}
			sf.cols[i] = column{place: unused}
			sf.value[i] = val
			continue
		}
		switch {
		case lower:
			sf.cols[i] = column{place: shifted, pos: sf.n, base: v.Lower}
			if upper {
				bounds = append(bounds, stdRow{coefs: map[int]float64{sf.n: 1}, op: LE, rhs: v.Upper - v.Lower})
			}
			sf.n++
		case upper:
			sf.cols[i] = column{place: mirrored, pos: sf.n, base: v.Upper}
			sf.n++
		default:
			sf.cols[i] = column{place: split, pos: sf.n}
			sf.n += 2
		}
	}

	for _, c := range m.constraints {
		r := stdRow{coefs: make(map[int]float64, len(c.Terms)), op: c.Op, rhs: c.RHS}
		for _, t := range c.Terms {
			col := sf.cols[t.Var]
			switch col.place {
			case shifted:
				r.coefs[col.pos] += t.Coef
				r.rhs -= t.Coef * col.base
			case mirrored:
				r.coefs[col.pos] -= t.Coef
				r.rhs -= t.Coef * col.base
			case split:
				r.coefs[col.pos] += t.Coef
				r.coefs[col.pos+1] -= t.Coef
			}
		}
		if len(r.coefs) == 0 {
			if !satisfied(r.op, r.rhs) {
				return nil, ErrInfeasible
			}
			continue
		}
		sf.rows = append(sf.rows, r)
	}
	sf.rows = append(sf.rows, bounds...)

	if err := sf.dropDependentEqualities(); err != nil {
		return nil, err
	}
	return sf, nil
}

// unusedValue picks the optimal value of a column that only the objective
// references.
func unusedValue(v Variable, coef float64) (float64, error) {
	lower, upper := !math.IsInf(v.Lower, -1), !math.IsInf(v.Upper, 1)
	switch {
	case coef > 0:
		if !upper {
			return 0, ErrUnbounded
		}
		return v.Upper, nil
	case coef < 0:
		if !lower {
			return 0, ErrUnbounded
		}
		return v.Lower, nil
	case lower:
		return v.Lower, nil
	case upper:
		return v.Upper, nil
	}
	return 0, nil
}

// satisfied checks an empty row 0 op rhs.
func satisfied(op Op, rhs float64) bool {
	switch op {
	case LE:
		return rhs >= -zeroRowTol
	case GE:
		return rhs <= zeroRowTol
	}
	return math.Abs(rhs) <= zeroRowTol
}

// dropDependentEqualities removes equality rows spanned by earlier ones so
// the standard-form matrix keeps full row rank. Inequalities always own a
// slack column and never make the matrix rank deficient. A dependent row
// whose right-hand side disagrees with its combination is infeasible.
func (sf *standardForm) dropDependentEqualities() error {
	var basis [][]float64
	var basisRHS []float64
	var pivots []int

	kept := sf.rows[:0]
	for _, r := range sf.rows {
		if r.op != EQ {
			kept = append(kept, r)
			continue
		}
		dense := make([]float64, sf.n)
		scale := 0.0
		for j, a := range r.coefs {
			dense[j] = a
			scale = math.Max(scale, math.Abs(a))
		}
		rhs := r.rhs
		for k, p := range pivots {
			if f := dense[p]; f != 0 {
				for j, a := range basis[k] {
					dense[j] -= f * a
				}
				rhs -= f * basisRHS[k]
			}
		}
		pivot, best := -1, rankTol*math.Max(scale, 1)
		for j, a := range dense {
			if math.Abs(a) > best {
				pivot, best = j, math.Abs(a)
			}
		}
		if pivot < 0 {
			if math.Abs(rhs) > rankTol*math.Max(math.Abs(r.rhs), 1) {
				return ErrInfeasible
			}
			continue
		}
		inv := 1 / dense[pivot]
		for j := range dense {
			dense[j] *= inv
		}
		basis = append(basis, dense)
		basisRHS = append(basisRHS, rhs*inv)
		pivots = append(pivots, pivot)
		kept = append(kept, r)
	}
	sf.rows = kept
	return nil
}

// objective is min c'x over the structural columns, the negation of the
// model's maximization.
func (sf *standardForm) objective(m *Model) []float64 {
	c := make([]float64, sf.n)
	for _, t := range m.objective {
		col := sf.cols[t.Var]
		switch col.place {
		case shifted:
			c[col.pos] -= t.Coef
		case mirrored:
			c[col.pos] += t.Coef
		case split:
			c[col.pos] -= t.Coef
			c[col.pos+1] += t.Coef
		}
	}
	return c
}

// values maps a standard-form point back to model columns.
func (sf *standardForm) values(x []float64) []float64 {
	out := make([]float64, len(sf.cols))
	for i, col := range sf.cols {
		switch col.place {
		case unused:
			out[i] = sf.value[i]
		case shifted:
			out[i] = col.base + x[col.pos]
		case mirrored:
			out[i] = col.base - x[col.pos]
		case split:
			out[i] = x[col.pos] - x[col.pos+1]
		}
	}
	return out
}

func solveSimplex(m *Model) (*Solution, error) {
	sf, err := newStandardForm(m)
	if err != nil {
		return nil, err
	}
	cost := sf.objective(m)

	if len(sf.rows) == 0 {
		// Every used column only carries its sign restriction.
		for _, c := range cost {
			if c < 0 {
				return nil, ErrUnbounded
			}
		}
		values := sf.values(make([]float64, sf.n))
		return &Solution{Objective: m.objective.Eval(values), Values: values}, nil
	}

	slacks := 0
	for _, r := range sf.rows {
		if r.op != EQ {
			slacks++
		}
	}
	cols := sf.n + slacks
	a := mat.NewDense(len(sf.rows), cols, nil)
	b := make([]float64, len(sf.rows))
	c := make([]float64, cols)
	copy(c, cost)
	s := sf.n
	for i, r := range sf.rows {
		for j, v := range r.coefs {
			a.Set(i, j, v)
		}
		switch r.op {
		case LE:
			a.Set(i, s, 1)
			s++
		case GE:
			a.Set(i, s, -1)
			s++
		}
		b[i] = r.rhs
	}

	_, x, err := gonumlp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		switch {
		case errors.Is(err, gonumlp.ErrInfeasible):
			return nil, ErrInfeasible
		case errors.Is(err, gonumlp.ErrUnbounded):
			return nil, ErrUnbounded
		}
		return nil, fmt.Errorf("lp: simplex on %s: %w", m.Name, err)
	}

	values := sf.values(x)
	return &Solution{Objective: m.objective.Eval(values), Values: values}, nil
}
