package ilp

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

type variable struct {
	lo, hi  float64
	integer bool
	obj     float64
	costs   []Cost
}

type row struct {
	terms []Term
	sense Sense
	rhs   float64
}

// Model is a mixed-integer program under construction.
type Model struct {
	vars   []variable
	rows   []row
	offset float64
}

// NewModel returns an empty model.
func NewModel() *Model { return &Model{} }

// AddVar appends a variable with bounds [lo, hi]; hi may be Unbounded.
func (m *Model) AddVar(lo, hi float64, integer bool) Var {
	m.vars = append(m.vars, variable{lo: lo, hi: hi, integer: integer})

	return Var(len(m.vars) - 1)
}

// AddInt appends an integer variable with bounds [lo, hi].
func (m *Model) AddInt(lo, hi float64) Var { return m.AddVar(lo, hi, true) }

// SetBounds replaces the bounds of v.
func (m *Model) SetBounds(v Var, lo, hi float64) {
	m.vars[v].lo, m.vars[v].hi = lo, hi
}

// Bounds returns the bounds of v.
func (m *Model) Bounds(v Var) (lo, hi float64) { return m.vars[v].lo, m.vars[v].hi }

// AddObjective adds c*v to the objective.
func (m *Model) AddObjective(v Var, c float64) { m.vars[v].obj += c }

// AddOffset adds a constant to the objective.
func (m *Model) AddOffset(c float64) { m.offset += c }

// AddCost adds a convex cost of the integer variable v to the objective.
func (m *Model) AddCost(v Var, c Cost) { m.vars[v].costs = append(m.vars[v].costs, c) }

// AddRow appends sum(terms) <sense> rhs. Repeated variables are merged and
// zero coefficients dropped.
func (m *Model) AddRow(terms []Term, sense Sense, rhs float64) {
	merged := make(map[Var]float64, len(terms))
	for _, t := range terms {
		merged[t.Var] += t.Coef
	}
	out := make([]Term, 0, len(merged))
	for v, c := range merged {
		if c != 0 {
			out = append(out, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	m.rows = append(m.rows, row{terms: out, sense: sense, rhs: rhs})
}

// NumVars is the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumRows is the number of rows.
func (m *Model) NumRows() int { return len(m.rows) }

// Evaluate returns the objective at x.
func (m *Model) Evaluate(x []float64) float64 {
	sum := m.offset
	for j, v := range m.vars {
		sum += v.obj * x[j]
		for _, c := range v.costs {
			sum += c.Eval(x[j])
		}
	}

	return sum
}

// Feasible checks x against bounds, integrality and rows within tol.
func (m *Model) Feasible(x []float64, tol float64) error {
	if len(x) != len(m.vars) {
		return fmt.Errorf("ilp: point has %d entries, model has %d variables", len(x), len(m.vars))
	}
	for j, v := range m.vars {
		if x[j] < v.lo-tol || x[j] > v.hi+tol {
			return fmt.Errorf("ilp: variable %d = %g outside [%g, %g]", j, x[j], v.lo, v.hi)
		}
		if v.integer && math.Abs(x[j]-math.Round(x[j])) > tol {
			return fmt.Errorf("ilp: variable %d = %g is not integral", j, x[j])
		}
	}
	for i, r := range m.rows {
		lhs := 0.0
		for _, t := range r.terms {
			lhs += t.Coef * x[t.Var]
		}
		scale := tol * math.Max(1, math.Abs(r.rhs))
		if (r.sense == LE && lhs > r.rhs+scale) ||
			(r.sense == GE && lhs < r.rhs-scale) ||
			(r.sense == EQ && math.Abs(lhs-r.rhs) > scale) {
			return fmt.Errorf("ilp: row %d violated: %g vs %g", i, lhs, r.rhs)
		}
	}

	return nil
}

// validate checks the model before solving.
func (m *Model) validate() error {
	if len(m.vars) == 0 {
		return ErrEmptyModel
	}
	for j, v := range m.vars {
		if math.IsInf(v.lo, 0) || math.IsNaN(v.lo) || math.IsNaN(v.hi) || v.lo > v.hi {
			return errors.Wrapf(ErrBadBounds, "variable %d: [%g, %g]", j, v.lo, v.hi)
		}
		if v.integer && (v.lo != math.Floor(v.lo) || (!math.IsInf(v.hi, 1) && v.hi != math.Floor(v.hi))) {
			return errors.Wrapf(ErrBadBounds, "integer variable %d: [%g, %g]", j, v.lo, v.hi)
		}
		if len(v.costs) > 0 && !v.integer {
			return errors.Wrapf(ErrNonConvex, "continuous variable %d", j)
		}
		for _, c := range v.costs {
			if weight(c) < 0 {
				return errors.Wrapf(ErrNonConvex, "variable %d: negative weight", j)
			}
		}
	}
	for i, r := range m.rows {
		for _, t := range r.terms {
			if t.Var < 0 || int(t.Var) >= len(m.vars) || math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return errors.Wrapf(ErrBadRow, "row %d", i)
			}
		}
		if math.IsNaN(r.rhs) || math.IsInf(r.rhs, 0) {
			return errors.Wrapf(ErrBadRow, "row %d: rhs %g", i, r.rhs)
		}
	}

	return nil
}
