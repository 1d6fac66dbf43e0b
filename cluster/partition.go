package cluster

import (
	"github.com/katalvlaran/quadquant/chart"
	"github.com/plan-systems/klog"
)

const unassigned = -1

// walker grows one cluster breadth-first.
type walker struct {
	t     *chart.Topology
	of    []int
	queue []chart.ChartID
}

// grow assigns up to limit charts reachable from start to cluster k and
// returns how many it assigned. Charts may be queued twice; the second pop
// is skipped.
func (w *walker) grow(start chart.ChartID, k, limit int) int {
	w.queue = append(w.queue[:0], start)
	n := 0
	for len(w.queue) > 0 && n < limit {
		c := w.queue[0]
		w.queue = w.queue[1:]
		if w.of[c] != unassigned {
			continue
		}
		w.of[c] = k
		n++
		for _, adj := range w.t.Charts[c].Adjacent {
			if w.of[adj] == unassigned {
				w.queue = append(w.queue, adj)
			}
		}
	}

	return n
}

// Partition groups the charts of t into clusters of at most maxSize charts.
// Clusters smaller than max(maxSize/3, min(maxSize, 10)) hand their charts
// one by one to an adjacent cluster. maxSize <= 0 or at least the chart
// count yields a single cluster.
func Partition(t *chart.Topology, maxSize int) Assignment {
	n := len(t.Charts)
	if maxSize <= 0 || maxSize >= n {
		return Single(n)
	}

	w := &walker{t: t, of: make([]int, n)}
	for i := range w.of {
		w.of[i] = unassigned
	}
	count := 0
	for c := 0; c < n; c++ {
		if w.of[c] != unassigned {
			continue
		}
		size := w.grow(chart.ChartID(c), count, maxSize)
		klog.V(2).Infof("cluster: initial cluster %d has %d charts", count, size)
		count++
	}

	limit := max(maxSize/3, min(maxSize, 10))
	for k := 0; k < count; k++ {
		dissolve(t, w.of, k, limit)
	}

	a := compact(w.of, count)
	klog.V(1).Infof("cluster: %d charts in %d clusters, sizes %v", n, a.Count, a.Sizes())

	return a
}

// dissolve moves the charts of cluster k into adjacent clusters while k is
// smaller than limit. Charts with no foreign neighbour stay.
func dissolve(t *chart.Topology, of []int, k, limit int) {
	var members []chart.ChartID
	for c, v := range of {
		if v == k {
			members = append(members, chart.ChartID(c))
		}
	}
	if len(members) >= limit {
		return
	}

	for len(members) > 0 {
		moved := false
		for i, c := range members {
			target := foreign(t, of, c, k)
			if target == unassigned {
				continue
			}
			of[c] = target
			members = append(members[:i], members[i+1:]...)
			moved = true
			break
		}
		if !moved {
			return
		}
	}
}

// foreign returns the cluster of the first neighbour of c outside k.
func foreign(t *chart.Topology, of []int, c chart.ChartID, k int) int {
	for _, adj := range t.Charts[c].Adjacent {
		if of[adj] != unassigned && of[adj] != k {
			return of[adj]
		}
	}

	return unassigned
}

// compact renumbers the non-empty clusters in order of first appearance.
func compact(of []int, count int) Assignment {
	remap := make([]int, count)
	for i := range remap {
		remap[i] = unassigned
	}
	a := Assignment{Of: make([]int, len(of))}
	for c, k := range of {
		if remap[k] == unassigned {
			remap[k] = a.Count
			a.Count++
		}
		a.Of[c] = remap[k]
	}

	return a
}
