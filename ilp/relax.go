package ilp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	intTol       = 1e-6
	cutTol       = 1e-7
	maxCutRounds = 100
	chordWindow  = 2
)

// relaxation is the LP optimum of one node, in model coordinates.
type relaxation struct {
	x   []float64
	obj float64
}

// lpRow is one standard-form row before densification. slack is +1 for a
// <= row, -1 for a >= row and 0 for an equality.
type lpRow struct {
	idx   []int
	val   []float64
	rhs   float64
	slack int8
}

// relax solves the relaxation of nd, adding chord cuts until every epigraph
// variable matches the interpolated cost at the relaxed point. It returns
// errInterrupted when a limit passes between two LP solves.
func (e *bbEngine) relax(nd *node) (*relaxation, error) {
	for round := 0; ; round++ {
		if e.interrupted() {
			return nil, errInterrupted
		}
		rel, t, err := e.solveLP(nd)
		if err != nil {
			return nil, err
		}
		if round >= maxCutRounds || !e.separate(nd, rel.x, t) {
			return rel, nil
		}
	}
}

// solveLP assembles and solves the standard-form LP of nd. The returned t
// holds the epigraph values (NaN where the cost is constant at this node).
func (e *bbEngine) solveLP(nd *node) (*relaxation, []float64, error) {
	var (
		n      = e.n
		col    = make([]int, n)
		ncol   = 0
		offset = e.offset
	)
	for j := 0; j < n; j++ {
		offset += e.obj[j] * nd.lo[j]
		if e.inRows[j] || !math.IsInf(nd.hi[j], 1) || e.epi[j] >= 0 {
			col[j] = ncol
			ncol++
			continue
		}
		col[j] = -1
		if e.obj[j] < 0 {
			return nil, nil, ErrUnbounded
		}
	}

	tcol := make([]int, len(e.epiVar))
	for q, j := range e.epiVar {
		if nd.hi[j] == nd.lo[j] {
			tcol[q] = -1
			offset += e.costAt(j, nd.lo[j])
			continue
		}
		tcol[q] = ncol
		ncol++
	}

	rows := make([]lpRow, 0, len(e.eqRows)+len(e.ineqRows)+n)
	for _, i := range e.eqRows {
		rows = append(rows, e.shiftedRow(i, col, nd, 0))
	}
	for _, i := range e.ineqRows {
		s := int8(1)
		if e.m.rows[i].sense == GE {
			s = -1
		}
		rows = append(rows, e.shiftedRow(i, col, nd, s))
	}
	for j := 0; j < n; j++ {
		if !math.IsInf(nd.hi[j], 1) {
			rows = append(rows, lpRow{idx: []int{col[j]}, val: []float64{1}, rhs: nd.hi[j] - nd.lo[j], slack: 1})
		}
	}
	for q, j := range e.epiVar {
		if tcol[q] < 0 {
			continue
		}
		for _, k := range e.chordsIn(q, nd.lo[j], nd.hi[j]) {
			fk := e.costAt(j, float64(k))
			slope := e.costAt(j, float64(k+1)) - fk
			rows = append(rows, lpRow{
				idx:   []int{tcol[q], col[j]},
				val:   []float64{1, -slope},
				rhs:   fk + slope*(nd.lo[j]-float64(k)),
				slack: -1,
			})
		}
	}

	x := make([]float64, n)
	t := make([]float64, len(e.epiVar))
	for q := range t {
		t[q] = math.NaN()
	}
	if len(rows) == 0 {
		copy(x, nd.lo)
		return &relaxation{x: x, obj: offset}, t, nil
	}

	cost := make([]float64, ncol)
	for j := 0; j < n; j++ {
		if col[j] >= 0 {
			cost[col[j]] = e.obj[j]
		}
	}
	for q := range tcol {
		if tcol[q] >= 0 {
			cost[tcol[q]] = 1
		}
	}

	// Columns left empty (zero-slope chords only) stay at their lower bound.
	used := make([]bool, ncol)
	for _, r := range rows {
		for k, c := range r.idx {
			if r.val[k] != 0 {
				used[c] = true
			}
		}
	}
	dense := make([]int, ncol)
	width := 0
	for c := range used {
		dense[c] = -1
		if used[c] {
			dense[c] = width
			width++
		} else if cost[c] < 0 {
			return nil, nil, ErrUnbounded
		}
	}
	for j := range col {
		if col[j] >= 0 {
			col[j] = dense[col[j]]
		}
	}
	for q := range tcol {
		if tcol[q] >= 0 {
			tcol[q] = dense[tcol[q]]
		}
	}

	s := width
	for _, r := range rows {
		if r.slack != 0 {
			width++
		}
	}
	A := mat.NewDense(len(rows), width, nil)
	b := make([]float64, len(rows))
	c := make([]float64, width)
	for old, d := range dense {
		if d >= 0 {
			c[d] = cost[old]
		}
	}
	for i, r := range rows {
		for k, old := range r.idx {
			if d := dense[old]; d >= 0 {
				A.Set(i, d, A.At(i, d)+r.val[k])
			}
		}
		if r.slack != 0 {
			A.Set(i, s, float64(r.slack))
			s++
		}
		b[i] = r.rhs
	}

	optF, optX, err := lp.Simplex(c, A, b, e.opts.Tol, nil)
	if err != nil {
		return nil, nil, err
	}
	for j := 0; j < n; j++ {
		x[j] = nd.lo[j]
		if col[j] >= 0 {
			x[j] += optX[col[j]]
		}
	}
	for q := range tcol {
		if tcol[q] >= 0 {
			t[q] = optX[tcol[q]]
		}
	}

	return &relaxation{x: x, obj: optF + offset}, t, nil
}

// shiftedRow maps model row i into LP columns with x = lo + x'.
func (e *bbEngine) shiftedRow(i int, col []int, nd *node, slack int8) lpRow {
	r := e.m.rows[i]
	out := lpRow{
		idx:   make([]int, 0, len(r.terms)),
		val:   make([]float64, 0, len(r.terms)),
		rhs:   r.rhs,
		slack: slack,
	}
	for _, t := range r.terms {
		out.idx = append(out.idx, col[t.Var])
		out.val = append(out.val, t.Coef)
		out.rhs -= t.Coef * nd.lo[t.Var]
	}

	return out
}

// separate adds the chord of the integer interval containing x[j] for every
// epigraph variable that lies below the interpolated cost. It reports whether
// any chord was added.
func (e *bbEngine) separate(nd *node, x, t []float64) bool {
	added := false
	for q, j := range e.epiVar {
		if math.IsNaN(t[q]) {
			continue
		}
		k := e.intervalOf(x[j], nd.lo[j], nd.hi[j])
		fk := e.costAt(j, float64(k))
		g := fk + (e.costAt(j, float64(k+1))-fk)*(x[j]-float64(k))
		if t[q] >= g-cutTol*math.Max(1, math.Abs(g)) {
			continue
		}
		if e.addChord(q, k) {
			added = true
		}
	}

	return added
}

// intervalOf returns the start k of the integer interval [k, k+1] holding v,
// clamped so that the interval lies inside [lo, hi].
func (e *bbEngine) intervalOf(v, lo, hi float64) int {
	k := math.Floor(v + intTol)
	if !math.IsInf(hi, 1) && k > hi-1 {
		k = hi - 1
	}
	if k < lo {
		k = lo
	}

	return int(k)
}

// addChord inserts chord k into the pool of epigraph q.
func (e *bbEngine) addChord(q, k int) bool {
	if _, dup := e.chordSet[q][k]; dup {
		return false
	}
	e.chordSet[q][k] = struct{}{}
	list := append(e.chords[q], k)
	sort.Ints(list)
	e.chords[q] = list

	return true
}

// chordsIn returns the pooled chords of q usable on [lo, hi], seeding one
// when none fits.
func (e *bbEngine) chordsIn(q int, lo, hi float64) []int {
	var out []int
	for _, k := range e.chords[q] {
		if float64(k) >= lo && (math.IsInf(hi, 1) || float64(k+1) <= hi) {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		k := e.intervalOf(e.guess(e.epiVar[q]), lo, hi)
		e.addChord(q, k)
		out = append(out, k)
	}

	return out
}
