package ilpform

import (
	"math"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
)

// parityPenalty is the objective price of one odd chart boundary under soft
// parity. It dominates every evaluated term, which are normalised to [0, 1].
const parityPenalty = 10

const noVar ilp.Var = -1

// linear is sum(terms) + c.
type linear struct {
	terms []ilp.Term
	c     float64
}

func (l linear) plus(o linear, sign float64) linear {
	out := linear{terms: make([]ilp.Term, 0, len(l.terms)+len(o.terms)), c: l.c + sign*o.c}
	out.terms = append(out.terms, l.terms...)
	for _, t := range o.terms {
		out.terms = append(out.terms, ilp.Term{Var: t.Var, Coef: sign * t.Coef})
	}

	return out
}

// sum combines expressions with the given signs.
func sum(signs []float64, exprs ...linear) linear {
	out := linear{}
	for i, e := range exprs {
		out = out.plus(e, signs[i])
	}

	return out
}

// isoTerm is one isometry cost of a segment seen from one chart.
type isoTerm struct {
	seg  chart.SegmentID
	cost ilp.Cost
}

// formulation is the model of one round plus what is needed to read it back.
type formulation struct {
	t     *chart.Topology
	res   chart.Result
	mask  chart.Mask
	p     *config.Parameters
	pairs []singularity.Pair

	m      *ilp.Model
	seg    []ilp.Var
	parity []ilp.Var
	iso    []isoTerm
	// chartW and pairW are the undropped regularity and alignment weights.
	chartW []float64
	pairW  []float64
}

// formulate emits the program of one round. Dropped charts and pairs keep
// their auxiliaries at zero weight so that rounds share one variable layout.
func formulate(t *chart.Topology, res chart.Result, mask chart.Mask, p *config.Parameters,
	pairs []singularity.Pair, dropCharts, dropPairs []bool) (*formulation, error) {
	f := &formulation{
		t: t, res: res, mask: mask, p: p, pairs: pairs,
		m:      ilp.NewModel(),
		seg:    make([]ilp.Var, len(t.Segments)),
		parity: make([]ilp.Var, len(t.Charts)),
		chartW: make([]float64, len(t.Charts)),
		pairW:  make([]float64, len(pairs)),
	}
	for i := range f.seg {
		f.seg[i] = noVar
	}
	for i := range f.parity {
		f.parity[i] = noVar
	}

	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, mask) {
			continue
		}
		for _, sid := range t.Charts[ci].Segments {
			switch {
			case res[sid].IsExcluded():
				return nil, errors.Wrapf(ErrSubProblem, "segment %d is excluded but borders chart %d", sid, cid)
			case res[sid].IsUnknown() && f.seg[sid] == noVar:
				f.seg[sid] = f.m.AddInt(1, ilp.Unbounded)
			}
		}
	}

	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		if !t.Active(cid, mask) {
			continue
		}
		if p.Isometry {
			f.addIsometry(cid)
		}
		f.addStructure(cid)
		f.addRegularity(cid, dropCharts[ci])
	}
	if p.AlignSingularities {
		for i := range pairs {
			f.addAlignment(i, dropPairs[i])
		}
	}

	return f, nil
}

// side is the linear side sum of side s of chart c.
func (f *formulation) side(c chart.ChartID, s int) linear {
	var l linear
	for _, sid := range f.t.Charts[c].Sides[s].Segments {
		if v := f.seg[sid]; v != noVar {
			l.terms = append(l.terms, ilp.Term{Var: v, Coef: 1})
			continue
		}
		n, _ := f.res[sid].Value()
		l.c += float64(n)
	}

	return l
}

func (f *formulation) sides(c chart.ChartID) []linear {
	out := make([]linear, f.t.Charts[c].Valence())
	for i := range out {
		out[i] = f.side(c, i)
	}

	return out
}

func (f *formulation) isoCost(target, weight float64) ilp.Cost {
	if f.p.ILPMethod == config.Abs {
		return ilp.AbsDeviation{Target: target, Weight: weight}
	}

	return ilp.QuadDeviation{Target: target, Weight: weight}
}

func (f *formulation) addIsometry(c chart.ChartID) {
	ch := &f.t.Charts[c]
	w := f.p.Alpha / float64(len(ch.Segments))
	for _, sid := range ch.Segments {
		cost := f.isoCost(math.Max(1, f.t.Target(sid, c)), w)
		f.iso = append(f.iso, isoTerm{seg: sid, cost: cost})
		if v := f.seg[sid]; v != noVar {
			f.m.AddCost(v, cost)
			continue
		}
		n, _ := f.res[sid].Value()
		f.m.AddOffset(cost.Eval(float64(n)))
	}
}

// addStructure bounds every side below by one and the boundary by
// sum = 2k + p, k >= 2.
func (f *formulation) addStructure(c chart.ChartID) {
	var boundary linear
	for _, s := range f.sides(c) {
		f.m.AddRow(s.terms, ilp.GE, 1-s.c)
		boundary = boundary.plus(s, 1)
	}

	k := f.m.AddInt(2, ilp.Unbounded)
	var odd ilp.Var
	if f.p.HardParityConstraint {
		odd = f.m.AddInt(0, 0)
	} else {
		odd = f.m.AddInt(0, 1)
		f.m.AddObjective(odd, parityPenalty)
	}
	f.parity[c] = odd
	terms := append(boundary.terms, ilp.Term{Var: k, Coef: -2}, ilp.Term{Var: odd, Coef: -1})
	f.m.AddRow(terms, ilp.EQ, -boundary.c)
}

// chartWeight matches the evaluator: reg/v^2, halved for hexagons, scaled
// for non-quads.
func (f *formulation) chartWeight(v int) float64 {
	p := f.p
	if (v == 4 && !p.RegularityQuadrilaterals) || (v != 4 && !p.RegularityNonQuadrilaterals) {
		return 0
	}
	w := (1 - p.Alpha) / float64(v*v)
	if v == 6 {
		w *= .5
	}
	if v != 4 {
		w *= p.RegularityNonQuadrilateralsWeight
	}

	return w
}

// hinge adds a continuous h >= max(0, e) priced at w per unit.
func (f *formulation) hinge(e linear, w float64) {
	h := f.m.AddVar(0, ilp.Unbounded, false)
	f.m.AddObjective(h, w)
	terms := []ilp.Term{{Var: h, Coef: 1}}
	for _, t := range e.terms {
		terms = append(terms, ilp.Term{Var: t.Var, Coef: -t.Coef})
	}
	f.m.AddRow(terms, ilp.GE, e.c)
}

// absolute adds a continuous a >= |e| priced at w per unit.
func (f *formulation) absolute(e linear, w float64) {
	a := f.m.AddVar(0, ilp.Unbounded, false)
	f.m.AddObjective(a, w)
	for _, sign := range []float64{1, -1} {
		terms := []ilp.Term{{Var: a, Coef: 1}}
		for _, t := range e.terms {
			terms = append(terms, ilp.Term{Var: t.Var, Coef: -sign * t.Coef})
		}
		f.m.AddRow(terms, ilp.GE, sign*e.c)
	}
}

func (f *formulation) addRegularity(c chart.ChartID, dropped bool) {
	v := f.t.Charts[c].Valence()
	f.chartW[c] = f.chartWeight(v)
	if f.chartW[c] == 0 {
		return
	}
	w := f.chartW[c]
	if dropped {
		w = 0
	}

	s := f.sides(c)
	at := func(j int) linear { return s[j%v] }
	one := linear{c: 1}
	for j := 0; j < v; j++ {
		switch v {
		case 4:
			f.absolute(sum([]float64{1, -1}, at(j), at(j+2)), w)
		case 3:
			f.hinge(sum([]float64{1, 1, -1, -1}, at(j), one, at(j+1), at(j+2)), w)
		case 5:
			f.hinge(sum([]float64{1, 1, 1, -1, -1, -1},
				at(j), at(j+1), one, at(j+2), at(j+3), at(j+4)), w)
		case 6:
			f.hinge(sum([]float64{1, 1, -1, -1}, at(j), one, at(j+2), at(j+4)), w)
			// at(j)+at(j+2)+at(j+4) = 2m + q, q priced like one unit of hinge.
			tri := sum([]float64{1, 1, 1}, at(j), at(j+2), at(j+4))
			m := f.m.AddInt(0, ilp.Unbounded)
			q := f.m.AddInt(0, 1)
			f.m.AddObjective(q, w)
			terms := append(tri.terms, ilp.Term{Var: m, Coef: -2}, ilp.Term{Var: q, Coef: -1})
			f.m.AddRow(terms, ilp.EQ, -tri.c)
		}
	}
}

// upDown is the linear form of evaluate.UpDown.
func (f *formulation) upDown(c chart.ChartID, side int) (up, down linear) {
	s := f.sides(c)
	v := len(s)
	at := func(j int) linear { return s[(side+j)%v] }

	switch v {
	case 3:
		down = sum([]float64{1, 1, -1}, at(0), at(2), at(1))
		up = sum([]float64{1, 1, -1}, at(1), at(0), at(2))
	case 5:
		down = sum([]float64{1, 1, 1, -1, -1}, at(0), at(1), at(2), at(3), at(4))
		up = sum([]float64{1, 1, 1, -1, -1}, at(3), at(4), at(0), at(1), at(2))
	case 6:
		down = sum([]float64{1, 1, -1}, at(0), at(2), at(4))
		up = sum([]float64{1, 1, -1}, at(4), at(0), at(2))
	}

	return up, down
}

func (f *formulation) addAlignment(i int, dropped bool) {
	pr := f.pairs[i]
	reg := 1 - f.p.Alpha
	w := 0.0
	for _, c := range pr.Charts {
		v := f.t.Charts[c].Valence()
		w += reg * f.p.AlignSingularitiesWeight * .5 / float64(v*v)
	}
	f.pairW[i] = w
	if dropped {
		w = 0
	}

	up0, down0 := f.upDown(pr.Charts[0], pr.Sides[0])
	up1, down1 := f.upDown(pr.Charts[1], pr.Sides[1])
	f.absolute(up0.plus(down1, -1), w)
	f.absolute(down0.plus(up1, -1), w)
}

// result writes the solved segment variables into a copy of res.
func (f *formulation) result(x []float64) chart.Result {
	out := f.res.Clone()
	for sid, v := range f.seg {
		if v != noVar {
			out[sid] = chart.Fixed(int(math.Round(x[v])))
		}
	}

	return out
}

// odd reports whether any chart boundary came out odd.
func (f *formulation) odd(x []float64) bool {
	for _, v := range f.parity {
		if v != noVar && math.Round(x[v]) == 1 {
			return true
		}
	}

	return false
}
