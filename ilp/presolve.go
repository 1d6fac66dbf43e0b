package ilp

import "math"

const (
	pivotTol    = 1e-9
	residualTol = 1e-7
)

// independentRows returns the equality rows of m that are linearly
// independent, in input order. ok is false when a dependent row has an
// inconsistent right-hand side, which makes the model infeasible.
//
// Dependence does not change when variables are shifted by their bounds, so
// the selection made at the root holds for every node.
func independentRows(m *Model, eq []int) (keep []int, ok bool) {
	type basisRow struct {
		v     []float64
		rhs   float64
		pivot int
	}
	var (
		n     = len(m.vars)
		basis []basisRow
	)
	for _, i := range eq {
		v := make([]float64, n)
		for _, t := range m.rows[i].terms {
			v[t.Var] += t.Coef
		}
		rhs := m.rows[i].rhs
		for _, b := range basis {
			f := v[b.pivot]
			if f == 0 {
				continue
			}
			for j, a := range b.v {
				if a != 0 {
					v[j] -= f * a
				}
			}
			rhs -= f * b.rhs
		}

		p, best := -1, 0.0
		for j, a := range v {
			if math.Abs(a) > best {
				p, best = j, math.Abs(a)
			}
		}
		if best <= pivotTol {
			if math.Abs(rhs) > residualTol*math.Max(1, math.Abs(m.rows[i].rhs)) {
				return nil, false
			}
			continue
		}
		inv := 1 / v[p]
		for j := range v {
			v[j] *= inv
		}
		basis = append(basis, basisRow{v: v, rhs: rhs * inv, pivot: p})
		keep = append(keep, i)
	}

	return keep, true
}
