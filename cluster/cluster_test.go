package cluster_test

import (
	"testing"

	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/cluster"
	"github.com/stretchr/testify/require"
)

func strip(t *testing.T, n int, opts ...builder.BuilderOption) *chart.Topology {
	topo, err := builder.BuildTopology(opts, builder.Grid(1, n))
	require.NoError(t, err)
	return topo
}

func TestPartition(t *testing.T) {
	cases := []struct {
		name    string
		charts  int
		maxSize int
		want    []int
	}{
		{"even split", 6, 3, []int{0, 0, 0, 1, 1, 1}},
		{"small tail dissolved", 7, 3, []int{0, 0, 0, 1, 1, 1, 1}},
		{"disabled", 4, 0, []int{0, 0, 0, 0}},
		{"larger than topology", 4, 4, []int{0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := cluster.Partition(strip(t, tc.charts), tc.maxSize)
			require.Equal(t, tc.want, a.Of)
			require.Len(t, a.Sizes(), a.Count)
		})
	}
}

func TestPartitionGrid(t *testing.T) {
	topo, err := builder.BuildTopology(nil, builder.Grid(2, 2))
	require.NoError(t, err)

	a := cluster.Partition(topo, 2)
	require.Equal(t, 2, a.Count)
	require.Equal(t, []chart.ChartID{0, 1}, a.Members(0))
	require.Equal(t, []chart.ChartID{2, 3}, a.Members(1))
	require.Equal(t, chart.Mask{false, false, true, true}, a.Mask(1))
}

func TestFixCrossSegments(t *testing.T) {
	cases := []struct {
		name   string
		length float64
		edge   float64
		want   int
	}{
		{"exact", 6, 3, 2},
		{"round up to even", 35, 5, 8},
		{"round down to even", 30, 5, 6},
		{"floor", 2, 5, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topo := strip(t, 2, builder.WithSegmentLength(tc.length), builder.WithEdgeLength(tc.edge))
			a := cluster.Partition(topo, 1)
			require.Equal(t, 2, a.Count)

			res := chart.NewResult(len(topo.Segments))
			require.Equal(t, 1, cluster.FixCrossSegments(topo, a, res))
			shared := topo.Charts[0].Sides[1].Segments[0]
			n, ok := res[shared].Value()
			require.True(t, ok)
			require.Equal(t, tc.want, n)
			require.Equal(t, len(topo.Segments)-1, res.Unknowns())
		})
	}
}

func TestSubProblemAndMerge(t *testing.T) {
	topo := strip(t, 2)
	a := cluster.Partition(topo, 1)
	res := chart.NewResult(len(topo.Segments))
	cluster.FixCrossSegments(topo, a, res)

	sub, mask := cluster.SubProblem(topo, a, 1, res)
	require.Equal(t, chart.Mask{false, true}, mask)
	for _, sid := range topo.Charts[1].Segments {
		if sub[sid].IsUnknown() {
			sub[sid] = chart.Fixed(2)
		}
	}
	require.Equal(t, len(topo.Segments)-1, res.Unknowns(), "sub-problem result is a copy")

	require.NoError(t, cluster.Merge(res, sub))
	for _, sid := range topo.Charts[1].Segments {
		require.True(t, res[sid].IsFixed())
	}
	for _, sid := range topo.Charts[0].Segments {
		if !a.Cross(topo, sid) {
			require.True(t, res[sid].IsUnknown())
		}
	}

	shared := topo.Charts[0].Sides[1].Segments[0]
	sub[shared] = chart.Fixed(4)
	require.ErrorIs(t, cluster.Merge(res, sub), cluster.ErrConflict)
	require.ErrorIs(t, cluster.Merge(res, sub[:1]), cluster.ErrLength)
}
