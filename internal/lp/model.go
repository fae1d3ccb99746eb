// Package lp holds the linear model handed to an external LP/MILP engine and
// the adapters for the engines the service can use.
package lp

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Var is a column handle. It is only meaningful for the model that created it.
type Var int

type Kind int

const (
	Continuous Kind = iota
	Binary
)

// Op is the relational operator of a constraint.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Variable is a column definition. Unbounded sides are +/-Inf.
type Variable struct {
	Name  string
	Kind  Kind
	Lower float64
	Upper float64
}

type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression. Duplicate variables are merged when the
// expression is added to a model.
type Expr []Term

// Plus appends coef*v.
func (e Expr) Plus(coef float64, v Var) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Sub returns a new expression e - o.
func (e Expr) Sub(o Expr) Expr {
	out := make(Expr, len(e), len(e)+len(o)+1)
	copy(out, e)
	for _, t := range o {
		out = append(out, Term{Var: t.Var, Coef: -t.Coef})
	}
	return out
}

// Eval computes the expression for an assignment.
func (e Expr) Eval(values []float64) float64 {
	var s float64
	for _, t := range e {
		s += t.Coef * values[t.Var]
	}
	return s
}

type Constraint struct {
	Label string
	Terms Expr
	Op    Op
	RHS   float64
}

// Model is a write-once linear program: maximize Objective subject to
// Constraints and variable bounds. It is sealed by the first Solve and any
// later mutation panics.
type Model struct {
	Name        string
	vars        []Variable
	constraints []Constraint
	objective   Expr
	sealed      bool
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVar adds a continuous column with the given bounds.
func (m *Model) AddVar(name string, lower, upper float64) Var {
	m.mustOpen()
	m.vars = append(m.vars, Variable{Name: name, Kind: Continuous, Lower: lower, Upper: upper})
	return Var(len(m.vars) - 1)
}

// AddFree adds an unbounded continuous column.
func (m *Model) AddFree(name string) Var {
	return m.AddVar(name, math.Inf(-1), math.Inf(1))
}

// AddBinary adds a 0/1 integer column.
func (m *Model) AddBinary(name string) Var {
	m.mustOpen()
	m.vars = append(m.vars, Variable{Name: name, Kind: Binary, Lower: 0, Upper: 1})
	return Var(len(m.vars) - 1)
}

// Add appends the constraint expr op rhs.
func (m *Model) Add(label string, expr Expr, op Op, rhs float64) {
	m.mustOpen()
	m.constraints = append(m.constraints, Constraint{Label: label, Terms: m.merge(expr), Op: op, RHS: rhs})
}

// Maximize sets the objective.
func (m *Model) Maximize(expr Expr) {
	m.mustOpen()
	m.objective = m.merge(expr)
}

// Seal freezes the model. Solvers call it before reading the model.
func (m *Model) Seal() { m.sealed = true }

func (m *Model) Sealed() bool { return m.sealed }

func (m *Model) Vars() []Variable { return m.vars }

func (m *Model) Variable(v Var) Variable { return m.vars[v] }

func (m *Model) NumVars() int { return len(m.vars) }

func (m *Model) Constraints() []Constraint { return m.constraints }

func (m *Model) Objective() Expr { return m.objective }

// HasIntegers reports whether any column is binary.
func (m *Model) HasIntegers() bool {
	for _, v := range m.vars {
		if v.Kind == Binary {
			return true
		}
	}
	return false
}

// String renders the model in a readable LP-like format, mainly for debug logs.
func (m *Model) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "model %s\nmaximize %s\n", m.Name, m.format(m.objective))
	for _, c := range m.constraints {
		fmt.Fprintf(&b, "  %s: %s %s %g\n", c.Label, m.format(c.Terms), c.Op, c.RHS)
	}
	return b.String()
}

func (m *Model) format(e Expr) string {
	if len(e) == 0 {
		return "0"
	}
	parts := make([]string, len(e))
	for i, t := range e {
		parts[i] = fmt.Sprintf("%+g %s", t.Coef, m.vars[t.Var].Name)
	}
	return strings.Join(parts, " ")
}

func (m *Model) mustOpen() {
	if m.sealed {
		panic("lp: model " + m.Name + " modified after solve")
	}
}

// merge sums duplicate columns, drops zero coefficients and orders terms by
// column so that serialized models are deterministic.
func (m *Model) merge(expr Expr) Expr {
	coefs := make(map[Var]float64, len(expr))
	for _, t := range expr {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			panic(fmt.Sprintf("lp: variable %d does not belong to model %s", t.Var, m.Name))
		}
		coefs[t.Var] += t.Coef
	}
	out := make(Expr, 0, len(coefs))
	for v, c := range coefs {
		if c != 0 {
			out = append(out, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out
}
