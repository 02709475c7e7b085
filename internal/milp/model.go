// Package milp holds a solver-agnostic mixed-integer linear program:
// variables, grouped linear constraints and a linear minimisation objective.
// The representation is pure data; back-ends lower it when solving, which is
// what lets the diagnoser rebuild the problem with a constraint group left
// out without touching solver state.
package milp

import (
	"fmt"
	"math"
	"sort"
)

type VarType int

const (
	Continuous VarType = iota
	Binary
)

// Var is a handle into a Model's variable table.
type Var int

type variable struct {
	name string
	typ  VarType
	lo   float64
	hi   float64
	cost float64 // objective coefficient (minimisation)
}

// Term is one coefficient*variable entry of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Constraint is Lo <= sum(Terms) <= Hi. Either bound may be infinite.
type Constraint struct {
	Lo    float64
	Hi    float64
	Terms []Term
}

// GE builds sum(terms) >= lo.
func GE(lo float64, terms ...Term) Constraint {
	return Constraint{Lo: lo, Hi: math.Inf(1), Terms: terms}
}

// LE builds sum(terms) <= hi.
func LE(hi float64, terms ...Term) Constraint {
	return Constraint{Lo: math.Inf(-1), Hi: hi, Terms: terms}
}

// EQ builds sum(terms) == v.
func EQ(v float64, terms ...Term) Constraint {
	return Constraint{Lo: v, Hi: v, Terms: terms}
}

// Model is a MILP under construction. Constraints are grouped under stable
// string names; groups remember their emission order so lowered problems are
// deterministic. The model never talks to a solver itself.
type Model struct {
	name   string
	vars   []variable
	order  []string
	groups map[string][]Constraint
}

func New(name string) *Model {
	return &Model{
		name:   name,
		groups: map[string][]Constraint{},
	}
}

func (m *Model) Name() string { return m.name }

// Continuous adds a bounded continuous variable with zero objective cost.
func (m *Model) Continuous(name string, lo, hi float64) Var {
	m.vars = append(m.vars, variable{name: name, typ: Continuous, lo: lo, hi: hi})
	return Var(len(m.vars) - 1)
}

// Binary adds a {0,1} variable with zero objective cost.
func (m *Model) Binary(name string) Var {
	m.vars = append(m.vars, variable{name: name, typ: Binary, lo: 0, hi: 1})
	return Var(len(m.vars) - 1)
}

// SetCost sets the objective coefficient of v.
func (m *Model) SetCost(v Var, cost float64) {
	m.vars[v].cost = cost
}

// Add appends a constraint to the named group, creating the group on first
// use. Terms referencing the same variable are merged and zero coefficients
// dropped, so lowered rows never carry duplicate columns.
func (m *Model) Add(group string, c Constraint) {
	c.Terms = mergeTerms(c.Terms)
	if _, ok := m.groups[group]; !ok {
		m.order = append(m.order, group)
	}
	m.groups[group] = append(m.groups[group], c)
}

// Groups returns group names in emission order.
func (m *Model) Groups() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Group returns the constraints of one group (nil if absent).
func (m *Model) Group(name string) []Constraint {
	return m.groups[name]
}

func (m *Model) VarCount() int { return len(m.vars) }

func (m *Model) ConstraintCount() int {
	n := 0
	for _, cs := range m.groups {
		n += len(cs)
	}
	return n
}

// VarName returns the name a variable was declared with.
func (m *Model) VarName(v Var) string {
	return m.vars[v].name
}

// Objective evaluates the objective at the given variable values.
func (m *Model) Objective(values []float64) (float64, error) {
	if len(values) != len(m.vars) {
		return 0, fmt.Errorf("got %d values for %d variables", len(values), len(m.vars))
	}
	total := 0.0
	for i, v := range m.vars {
		total += v.cost * values[i]
	}
	return total, nil
}

func mergeTerms(terms []Term) []Term {
	if len(terms) < 2 {
		return dropZero(terms)
	}
	byVar := map[Var]float64{}
	for _, t := range terms {
		byVar[t.Var] += t.Coef
	}
	merged := make([]Term, 0, len(byVar))
	for v, coef := range byVar {
		if coef == 0 {
			continue
		}
		merged = append(merged, Term{Var: v, Coef: coef})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Var < merged[j].Var })
	return merged
}

func dropZero(terms []Term) []Term {
	out := terms[:0]
	for _, t := range terms {
		if t.Coef != 0 {
			out = append(out, t)
		}
	}
	return out
}
