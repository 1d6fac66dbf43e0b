package cluster

import "github.com/katalvlaran/quadquant/chart"

// Assignment maps every chart to a cluster in [0, Count).
type Assignment struct {
	Of    []int
	Count int
}

// Single puts all n charts into one cluster.
func Single(n int) Assignment {
	return Assignment{Of: make([]int, n), Count: 1}
}

// Members lists the charts of cluster k in ascending order.
func (a Assignment) Members(k int) []chart.ChartID {
	var out []chart.ChartID
	for c, of := range a.Of {
		if of == k {
			out = append(out, chart.ChartID(c))
		}
	}

	return out
}

// Mask selects the charts of cluster k.
func (a Assignment) Mask(k int) chart.Mask {
	m := make(chart.Mask, len(a.Of))
	for c, of := range a.Of {
		m[c] = of == k
	}

	return m
}

// Sizes counts the charts of every cluster.
func (a Assignment) Sizes() []int {
	out := make([]int, a.Count)
	for _, of := range a.Of {
		out[of]++
	}

	return out
}

// Cross reports whether segment sid separates two clusters.
func (a Assignment) Cross(t *chart.Topology, sid chart.SegmentID) bool {
	c := t.Segments[sid].Charts
	if c[0] == chart.NoChart || c[1] == chart.NoChart {
		return false
	}

	return a.Of[c[0]] != a.Of[c[1]]
}
