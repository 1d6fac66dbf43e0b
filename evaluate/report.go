package evaluate

import (
	"math"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/singularity"
)

// Report is the cost breakdown of one quantization.
type Report struct {
	Charts        int `json:"charts"`
	RegularCharts int `json:"regular_charts"`
	InvalidCharts int `json:"invalid_charts"`

	Isometry     float64 `json:"isometry"`
	SideIsometry float64 `json:"side_isometry"`
	Regularity   float64 `json:"regularity"`
	RegularityV3 float64 `json:"regularity_v3"`
	RegularityV4 float64 `json:"regularity_v4"`
	RegularityV5 float64 `json:"regularity_v5"`
	RegularityV6 float64 `json:"regularity_v6"`
	Alignment    float64 `json:"alignment"`

	Pairs        int `json:"pairs"`
	AlignedPairs int `json:"aligned_pairs"`
}

// Total is isometry + regularity + alignment, the terms the solvers optimise.
func (r Report) Total() float64 { return r.Isometry + r.Regularity + r.Alignment }

// Valid reports whether counts meets the structural minimum on chart c:
// every side at least 1, and an even boundary of at least 4.
func Valid(t *chart.Topology, counts []int, c chart.ChartID) bool {
	for _, s := range t.SideSums(counts, c) {
		if s < 1 {
			return false
		}
	}
	b := t.BoundarySum(counts, c)

	return b >= 4 && b%2 == 0
}

// Evaluate scores counts on every used chart of t. pairs are usually
// singularity.Find over the whole topology.
func Evaluate(t *chart.Topology, counts []int, p *config.Parameters, pairs []singularity.Pair) Report {
	var (
		iso = p.Alpha
		reg = 1 - p.Alpha
		r   Report
	)
	for ci := range t.Charts {
		cid := chart.ChartID(ci)
		ch := &t.Charts[ci]
		if ch.Unused {
			continue
		}
		r.Charts++
		v := ch.Valence()
		if !Valid(t, counts, cid) {
			r.InvalidCharts++
		}

		chartIso := 0.0
		for _, sid := range ch.Segments {
			d := math.Max(1, t.Target(sid, cid)) - float64(counts[sid])
			chartIso += d * d
		}
		if n := len(ch.Segments); n > 0 {
			r.Isometry += iso * chartIso / float64(n)
		}
		for i, side := range ch.Sides {
			d := side.Length/ch.EdgeLength - float64(t.SideSum(counts, cid, i))
			r.SideIsometry += d * d
		}

		if (v == 4 && !p.RegularityQuadrilaterals) || (v != 4 && !p.RegularityNonQuadrilaterals) {
			continue
		}
		irr := Irregularity(t, counts, cid)
		if irr == 0 {
			r.RegularCharts++
		}
		cost := float64(irr)
		if v == 6 {
			cost *= .5
		}
		if v != 4 {
			cost *= p.RegularityNonQuadrilateralsWeight
		}
		cost *= reg / float64(v*v)
		r.Regularity += cost
		switch v {
		case 3:
			r.RegularityV3 += cost
		case 4:
			r.RegularityV4 += cost
		case 5:
			r.RegularityV5 += cost
		case 6:
			r.RegularityV6 += cost
		}
	}

	r.Pairs = len(pairs)
	for _, pair := range pairs {
		mis := Misalignment(t, counts, pair)
		cost := reg * p.AlignSingularitiesWeight * .5 * float64(mis)
		for _, c := range pair.Charts {
			v := t.Charts[c].Valence()
			r.Alignment += cost / float64(v*v)
		}
		if mis == 0 {
			r.AlignedPairs++
		}
	}

	return r
}
