package singularity_test

import (
	"testing"

	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PairsSuite struct {
	suite.Suite
	topo *chart.Topology
}

// SetupTest builds a triangle joined to a pentagon through two quads.
func (s *PairsSuite) SetupTest() {
	var err error
	s.topo, err = builder.BuildTopology(nil, builder.Chain(3, 2, 5))
	require.NoError(s.T(), err)
}

func (s *PairsSuite) TestChainYieldsOnePair() {
	in := singularity.Find(s.topo, singularity.Options{})
	require.Len(s.T(), in.Pairs, 1)
	p := in.Pairs[0]
	require.Equal(s.T(), [2]chart.ChartID{0, 3}, p.Charts)
	require.Equal(s.T(), [2]int{0, 0}, p.Sides)
	require.Equal(s.T(), []singularity.DirectedQuad{
		{Chart: 1, Sides: [2]int{0, 2}},
		{Chart: 2, Sides: [2]int{0, 2}},
	}, p.Quads)
	require.Zero(s.T(), in.SelfPairs)

	require.True(s.T(), in.IsPaired(0, 0))
	require.False(s.T(), in.IsPaired(0, 1))
	require.True(s.T(), in.IsPaired(1, 0))
	require.True(s.T(), in.IsPaired(1, 2))
	require.False(s.T(), in.IsPaired(1, 1))
	require.True(s.T(), in.IsPaired(3, 0))
}

func (s *PairsSuite) TestPairingSoundness() {
	in := singularity.Find(s.topo, singularity.Options{})
	for _, p := range in.Pairs {
		require.NotEqual(s.T(), p.Charts[0], p.Charts[1])
		for _, c := range p.Charts {
			v := s.topo.Charts[c].Valence()
			require.Contains(s.T(), []int{3, 5, 6}, v)
		}
		for _, q := range p.Quads {
			require.Equal(s.T(), 4, s.topo.Charts[q.Chart].Valence())
		}
	}
}

func (s *PairsSuite) TestDecidedSegmentStopsTrace() {
	res := chart.NewResult(len(s.topo.Segments))
	link := s.topo.Charts[1].Sides[2].Segments[0]
	res[link] = chart.Fixed(2)
	in := singularity.Find(s.topo, singularity.Options{Result: res})
	require.Empty(s.T(), in.Pairs)
}

func (s *PairsSuite) TestInactiveChartStopsTrace() {
	in := singularity.Find(s.topo, singularity.Options{Mask: chart.Mask{true, true, false, true}})
	require.Empty(s.T(), in.Pairs)
}

func (s *PairsSuite) TestRemoveUnalignedAndClear() {
	in := singularity.Find(s.topo, singularity.Options{})
	cp := in.Clone()

	in.RemoveUnaligned([]bool{false})
	require.Empty(s.T(), in.Pairs)
	for _, row := range in.Paired {
		for _, v := range row {
			require.False(s.T(), v)
		}
	}

	cp.RemoveUnaligned([]bool{true})
	require.Len(s.T(), cp.Pairs, 1)
	require.True(s.T(), cp.IsPaired(2, 2))

	cp.Clear()
	require.Empty(s.T(), cp.Pairs)
	require.False(s.T(), cp.IsPaired(2, 2))
}

func TestPairsSuite(t *testing.T) {
	suite.Run(t, new(PairsSuite))
}

func TestFind_AdjacentIrregulars(t *testing.T) {
	topo, err := builder.BuildTopology(nil, builder.Chain(6, 0, 3))
	require.NoError(t, err)
	in := singularity.Find(topo, singularity.Options{})
	require.Len(t, in.Pairs, 1)
	require.Empty(t, in.Pairs[0].Quads)
}

func TestFind_MultiSegmentSideStopsTrace(t *testing.T) {
	// triangle 0 and triangle 1 share a side split into two segments
	segs := []chart.SegmentSpec{{Length: 5}, {Length: 5}, {Length: 10}, {Length: 10}, {Length: 10}, {Length: 10}}
	topo, err := chart.Assemble([]chart.ChartSpec{
		{Sides: [][]chart.SegmentID{{0, 1}, {2}, {3}}, EdgeLength: 5},
		{Sides: [][]chart.SegmentID{{1, 0}, {4}, {5}}, EdgeLength: 5},
	}, segs)
	require.NoError(t, err)
	in := singularity.Find(topo, singularity.Options{})
	require.Empty(t, in.Pairs)
}

func TestFind_SelfPairIsCountedAndDropped(t *testing.T) {
	// A triangle whose side 0 leads through one quad back into its own side 1.
	// Quad sides: 0 = segment 0 (triangle side 0), 2 = segment 1 (triangle side 1).
	segs := []chart.SegmentSpec{{Length: 10}, {Length: 10}, {Length: 10}, {Length: 10}, {Length: 10}}
	topo, err := chart.Assemble([]chart.ChartSpec{
		{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5},
		{Sides: [][]chart.SegmentID{{0}, {3}, {1}, {4}}, EdgeLength: 5},
	}, segs)
	require.NoError(t, err)

	in := singularity.Find(topo, singularity.Options{})
	require.Empty(t, in.Pairs)
	require.Equal(t, 2, in.SelfPairs, "found once from each end")
}

// TestFind_CrossingCorridorStopsTrace crosses the corridor of two triangles
// through quad 1 twice: once through sides 0/2 and once through sides 1/3.
func TestFind_CrossingCorridorStopsTrace(t *testing.T) {
	segs := make([]chart.SegmentSpec, 10)
	for i := range segs {
		segs[i] = chart.SegmentSpec{Length: 1}
	}
	side := func(ids ...chart.SegmentID) [][]chart.SegmentID {
		out := make([][]chart.SegmentID, len(ids))
		for i, id := range ids {
			out[i] = []chart.SegmentID{id}
		}
		return out
	}
	topo, err := chart.Assemble([]chart.ChartSpec{
		{Sides: side(0, 1, 2), EdgeLength: 1},
		{Sides: side(0, 3, 4, 5), EdgeLength: 1},
		{Sides: side(4, 6, 3, 7), EdgeLength: 1},
		{Sides: side(5, 8, 9), EdgeLength: 1},
	}, segs)
	require.NoError(t, err)

	in := singularity.Find(topo, singularity.Options{})
	require.Empty(t, in.Pairs)
	require.Zero(t, in.SelfPairs)
	require.False(t, in.IsPaired(0, 0))
}
