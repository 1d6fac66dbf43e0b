package flownet

import "github.com/katalvlaran/quadquant/bimdf"

// Stats is the cost breakdown of one solved network, by edge category.
type Stats struct {
	PairUnalignersUsed int `json:"n_pair_unaligners_used"`

	IsoNonPaired float64 `json:"cost_iso_nonpaired"`
	IsoPaired    float64 `json:"cost_iso_paired"`

	NeighborV3 float64 `json:"cost_regularity_neighbor_v3"`
	NeighborV4 float64 `json:"cost_regularity_neighbor_v4"`
	NeighborV5 float64 `json:"cost_regularity_neighbor_v5"`
	NeighborV6 float64 `json:"cost_regularity_neighbor_v6"`
	OppositeV6 float64 `json:"cost_regularity_opposite_v6"`

	SideLoopsV3 float64 `json:"cost_regularity_sideloops_v3"`
	SideLoopsV4 float64 `json:"cost_regularity_sideloops_v4"`
	SideLoopsV5 float64 `json:"cost_regularity_sideloops_v5"`
	SideLoopsV6 float64 `json:"cost_regularity_sideloops_v6"`

	SingOnBoundV3 float64 `json:"cost_sing_on_bound_v3"`
	SingOnBoundV5 float64 `json:"cost_sing_on_bound_v5"`
	SingOnBoundV6 float64 `json:"cost_sing_on_bound_v6"`

	Alignment float64 `json:"cost_alignment"`
}

// Isometry sums the segment deviation costs.
func (s Stats) Isometry() float64 { return s.IsoNonPaired + s.IsoPaired }

// Regularity sums the emergency and boundary-singularity costs.
func (s Stats) Regularity() float64 {
	return s.NeighborV3 + s.NeighborV4 + s.NeighborV5 + s.NeighborV6 + s.OppositeV6 +
		s.SideLoopsV3 + s.SideLoopsV4 + s.SideLoopsV5 + s.SideLoopsV6 +
		s.SingOnBoundV3 + s.SingOnBoundV5 + s.SingOnBoundV6
}

// Sum is the total tracked cost.
func (s Stats) Sum() float64 { return s.Isometry() + s.Regularity() + s.Alignment }

// tracking remembers which edges belong to which cost category.
type tracking struct {
	segments    [][2]bimdf.Edge
	sideLoops   [7][]bimdf.Edge
	neighbor    [7][]bimdf.Edge
	oppositeV6  []bimdf.Edge
	singOnBound [7][]bimdf.Edge
	unpaired    []bimdf.Edge
	paired      []bimdf.Edge
	unaligners  []bimdf.Edge
}

func (tr *tracking) stats(n *bimdf.Network, sol bimdf.Solution) Stats {
	sum := func(edges []bimdf.Edge) float64 {
		total := 0.0
		for _, e := range edges {
			total += n.EdgeCost(e, sol[e])
		}
		return total
	}
	used := 0
	for _, e := range tr.unaligners {
		if sol[e] != 0 {
			used++
		}
	}

	return Stats{
		PairUnalignersUsed: used,
		IsoNonPaired:       sum(tr.unpaired),
		IsoPaired:          sum(tr.paired),
		NeighborV3:         sum(tr.neighbor[3]),
		NeighborV4:         sum(tr.neighbor[4]),
		NeighborV5:         sum(tr.neighbor[5]),
		NeighborV6:         sum(tr.neighbor[6]),
		OppositeV6:         sum(tr.oppositeV6),
		SideLoopsV3:        sum(tr.sideLoops[3]),
		SideLoopsV4:        sum(tr.sideLoops[4]),
		SideLoopsV5:        sum(tr.sideLoops[5]),
		SideLoopsV6:        sum(tr.sideLoops[6]),
		SingOnBoundV3:      sum(tr.singOnBound[3]),
		SingOnBoundV5:      sum(tr.singOnBound[5]),
		SingOnBoundV6:      sum(tr.singOnBound[6]),
		Alignment:          sum(tr.unaligners),
	}
}
