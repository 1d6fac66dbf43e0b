package ilp

import (
	"context"
	"math"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	feasTol  = 1e-5
	pruneTol = 1e-9
)

// errInterrupted stops a node whose relaxation ran into the time limit or a
// done context.
var errInterrupted = errors.New("ilp: relaxation interrupted")

// node is one subproblem of the search tree. bound is the relaxation value
// of its parent, a valid lower bound until the node itself is solved.
type node struct {
	lo, hi []float64
	bound  float64
	depth  int
	seq    int
}

// nodeLess orders open nodes by bound, then deeper first, then creation order.
func nodeLess(a, b interface{}) int {
	x, y := a.(*node), b.(*node)
	switch {
	case x.bound < y.bound:
		return -1
	case x.bound > y.bound:
		return 1
	case x.depth > y.depth:
		return -1
	case x.depth < y.depth:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	}

	return 0
}

// bbEngine is the best-bound branch and bound over a presolved Model.
type bbEngine struct {
	ctx  context.Context
	m    *Model
	opts Options
	n    int

	obj     []float64
	offset  float64
	integer []bool
	costs   [][]Cost

	inRows   []bool
	eqRows   []int
	ineqRows []int

	epi      []int
	epiVar   []int
	chords   [][]int
	chordSet []map[int]struct{}

	start      time.Time
	open       *binaryheap.Heap
	seq        int
	nodes      int
	lpFailures int
	failBound  float64
	hasBest    bool
	best       float64
	bestX      []float64
}

// newEngine presolves m. It returns a nil root when presolve proves the
// model infeasible.
func newEngine(ctx context.Context, m *Model, opts Options) (*bbEngine, *node, error) {
	n := len(m.vars)
	e := &bbEngine{
		ctx:     ctx,
		m:       m,
		opts:    opts,
		n:       n,
		obj:     make([]float64, n),
		offset:  m.offset,
		integer: make([]bool, n),
		costs:   make([][]Cost, n),
		inRows:  make([]bool, n),
		epi:     make([]int, n),
		open:    binaryheap.NewWith(nodeLess),
		best:    math.Inf(1),
	}
	e.failBound = math.Inf(1)
	root := &node{lo: make([]float64, n), hi: make([]float64, n), bound: math.Inf(-1)}
	for j, v := range m.vars {
		root.lo[j], root.hi[j] = v.lo, v.hi
		e.obj[j] = v.obj
		e.integer[j] = v.integer
		for _, c := range v.costs {
			if slope, off, ok := affine(c, v.lo); ok {
				e.obj[j] += slope
				e.offset += off
				continue
			}
			e.costs[j] = append(e.costs[j], c)
		}
	}

	var eq []int
	for i, r := range m.rows {
		if len(r.terms) == 0 {
			if !emptyRowHolds(r) {
				return e, nil, nil
			}
			continue
		}
		if r.sense == EQ {
			eq = append(eq, i)
		} else {
			e.ineqRows = append(e.ineqRows, i)
		}
	}
	keep, ok := independentRows(m, eq)
	if !ok {
		return e, nil, nil
	}
	e.eqRows = keep
	for _, i := range append(append([]int(nil), e.eqRows...), e.ineqRows...) {
		for _, t := range m.rows[i].terms {
			e.inRows[t.Var] = true
		}
	}

	for j := range e.epi {
		e.epi[j] = -1
		if len(e.costs[j]) == 0 {
			continue
		}
		q := len(e.epiVar)
		e.epi[j] = q
		e.epiVar = append(e.epiVar, j)
		e.chords = append(e.chords, nil)
		e.chordSet = append(e.chordSet, make(map[int]struct{}))
		e.seedChords(q, root.lo[j], root.hi[j])
	}

	return e, root, nil
}

func emptyRowHolds(r row) bool {
	switch r.sense {
	case LE:
		return 0 <= r.rhs
	case GE:
		return 0 >= r.rhs
	}

	return r.rhs == 0
}

// seedChords adds the chords of a small window around the cost minimiser.
func (e *bbEngine) seedChords(q int, lo, hi float64) {
	c := math.Floor(e.guess(e.epiVar[q]))
	seeded := false
	for k := c - chordWindow; k <= c+chordWindow; k++ {
		if k < lo || (!math.IsInf(hi, 1) && k+1 > hi) {
			continue
		}
		e.addChord(q, int(k))
		seeded = true
	}
	if !seeded && lo < hi {
		e.addChord(q, e.intervalOf(c, lo, hi))
	}
}

// costAt evaluates the non-affine costs of variable j at x.
func (e *bbEngine) costAt(j int, x float64) float64 {
	sum := 0.0
	for _, c := range e.costs[j] {
		sum += c.Eval(x)
	}

	return sum
}

// guess is the weight-averaged minimiser estimate of the costs of j.
func (e *bbEngine) guess(j int) float64 {
	var sum, wsum, plain float64
	for _, c := range e.costs[j] {
		w := weight(c)
		sum += w * c.Guess()
		wsum += w
		plain += c.Guess()
	}
	if wsum > 0 {
		return sum / wsum
	}

	return plain / float64(len(e.costs[j]))
}

// run explores the tree from root until it is exhausted or a limit fires.
func (e *bbEngine) run(root *node) (*Result, error) {
	e.start = time.Now()
	if h := e.opts.Hint; len(h) == e.n {
		e.offer(h)
	}

	var (
		dive      = root
		exhausted bool
		err       error
	)
	for {
		if e.limitReached(dive) {
			break
		}
		nd := dive
		dive = nil
		if nd == nil {
			v, ok := e.open.Pop()
			if !ok {
				exhausted = true
				break
			}
			nd = v.(*node)
			if e.prunable(nd.bound) {
				continue
			}
		}
		if dive, err = e.process(nd); err != nil {
			return nil, err
		}
	}

	return e.result(dive, exhausted), nil
}

// process solves nd and returns the child to dive into, pushing its sibling.
func (e *bbEngine) process(nd *node) (*node, error) {
	e.nodes++
	rel, err := e.relax(nd)
	if err != nil {
		switch {
		case errors.Is(err, errInterrupted):
			e.open.Push(nd)
			return nil, nil
		case errors.Is(err, lp.ErrInfeasible):
			return nil, nil
		case nd.depth == 0 && (errors.Is(err, lp.ErrUnbounded) || errors.Is(err, ErrUnbounded)):
			return nil, ErrUnbounded
		case nd.depth == 0:
			return nil, errors.Wrap(err, "ilp: root relaxation")
		}
		e.lpFailures++
		e.failBound = math.Min(e.failBound, nd.bound)
		klog.V(2).Infof("ilp: relaxation failed at depth %d: %v", nd.depth, err)

		return nil, nil
	}
	if e.prunable(rel.obj) {
		return nil, nil
	}

	j := e.branchVar(rel.x)
	if j < 0 {
		e.offer(rel.x)
		return nil, nil
	}

	v := rel.x[j]
	down := e.child(nd, rel.obj)
	down.hi[j] = math.Floor(v)
	up := e.child(nd, rel.obj)
	up.lo[j] = math.Ceil(v)
	if v-math.Floor(v) < 0.5 {
		e.open.Push(up)
		return down, nil
	}
	e.open.Push(down)

	return up, nil
}

func (e *bbEngine) child(parent *node, bound float64) *node {
	e.seq++
	c := &node{
		lo:    append([]float64(nil), parent.lo...),
		hi:    append([]float64(nil), parent.hi...),
		bound: bound,
		depth: parent.depth + 1,
		seq:   e.seq,
	}

	return c
}

// branchVar returns the most fractional integer variable, or -1.
func (e *bbEngine) branchVar(x []float64) int {
	best, bestDist := -1, intTol
	for j, v := range x {
		if !e.integer[j] {
			continue
		}
		f := v - math.Floor(v)
		if d := math.Min(f, 1-f); d > bestDist {
			best, bestDist = j, d
		}
	}

	return best
}

// offer rounds x and keeps it as incumbent when feasible and improving.
func (e *bbEngine) offer(x []float64) {
	cand := append([]float64(nil), x...)
	for j := range cand {
		if e.integer[j] {
			cand[j] = math.Round(cand[j])
		}
	}
	if err := e.m.Feasible(cand, feasTol); err != nil {
		klog.V(3).Infof("ilp: rejected candidate: %v", err)
		return
	}
	obj := e.m.Evaluate(cand)
	if e.hasBest && obj >= e.best {
		return
	}
	e.hasBest, e.best, e.bestX = true, obj, cand
	klog.V(2).Infof("ilp: incumbent %.6g after %d nodes", obj, e.nodes)
}

func (e *bbEngine) prunable(bound float64) bool {
	return e.hasBest && bound >= e.best-pruneTol*math.Max(1, math.Abs(e.best))
}

// lowerBound is the smallest bound over the open nodes, the pending dive and
// the nodes whose relaxation failed.
func (e *bbEngine) lowerBound(dive *node) float64 {
	lb := e.failBound
	if v, ok := e.open.Peek(); ok && v.(*node).bound < lb {
		lb = v.(*node).bound
	}
	if dive != nil && dive.bound < lb {
		lb = dive.bound
	}
	if e.hasBest && lb > e.best {
		lb = e.best
	}

	return lb
}

// interrupted reports whether the time limit has passed or ctx is done.
func (e *bbEngine) interrupted() bool {
	return e.ctx.Err() != nil || (e.opts.TimeLimit > 0 && time.Since(e.start) >= e.opts.TimeLimit)
}

func (e *bbEngine) limitReached(dive *node) bool {
	elapsed := time.Since(e.start)
	if err := e.ctx.Err(); err != nil {
		klog.V(2).Infof("ilp: search stopped: %v", err)
		return true
	}
	if e.opts.TimeLimit > 0 && elapsed >= e.opts.TimeLimit {
		klog.V(2).Infof("ilp: time limit %s reached", e.opts.TimeLimit)
		return true
	}
	if e.opts.MaxNodes > 0 && e.nodes >= e.opts.MaxNodes {
		return true
	}
	if !e.hasBest || e.nodes == 0 {
		return false
	}
	gap := relGap(e.best, e.lowerBound(dive))
	if gap <= e.opts.GapLimit {
		return true
	}
	for _, cp := range e.opts.Schedule {
		if elapsed >= cp.After && gap <= cp.Gap {
			klog.V(2).Infof("ilp: checkpoint %s reached with gap %.4g", cp.After, gap)
			return true
		}
	}

	return false
}

func (e *bbEngine) result(dive *node, exhausted bool) *Result {
	res := &Result{Nodes: e.nodes, Elapsed: time.Since(e.start), Bound: math.Inf(-1), Gap: math.Inf(1)}
	if e.lpFailures > 0 {
		klog.Warningf("ilp: %d relaxations failed and were pruned", e.lpFailures)
	}
	proven := exhausted && e.lpFailures == 0
	switch {
	case proven && e.hasBest:
		res.Status, res.Bound, res.Gap = Optimal, e.best, 0
	case proven:
		res.Status = Infeasible
	case e.hasBest:
		res.Bound = e.lowerBound(dive)
		res.Gap = relGap(e.best, res.Bound)
		res.Status = Feasible
		if res.Gap == 0 {
			res.Status = Optimal
		}
	default:
		res.Status = NoSolution
		res.Bound = e.lowerBound(dive)
	}
	if e.hasBest {
		res.X, res.Objective = e.bestX, e.best
	}

	return res
}

// relGap is the gap between incumbent and bound relative to the incumbent.
func relGap(best, bound float64) float64 {
	d := best - bound
	if d <= pruneTol*math.Max(1, math.Abs(best)) {
		return 0
	}
	if math.IsInf(bound, -1) || math.Abs(best) < 1e-12 {
		return math.Inf(1)
	}

	return d / math.Abs(best)
}
