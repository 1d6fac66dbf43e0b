package chart_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/spatial/r3"
)

type TopologySuite struct {
	suite.Suite
	grid *chart.Topology
}

func (s *TopologySuite) SetupTest() {
	var err error
	s.grid, err = builder.BuildTopology(nil, builder.Grid(2, 2))
	require.NoError(s.T(), err)
}

func (s *TopologySuite) TestIncidenceIsSymmetric() {
	require.NoError(s.T(), s.grid.Validate())
	for i, seg := range s.grid.Segments {
		for k := 0; k < 2; k++ {
			c := seg.Charts[k]
			if c == chart.NoChart {
				require.Equal(s.T(), -1, seg.SideIndex[k])
				continue
			}
			side := s.grid.Charts[c].Sides[seg.SideIndex[k]]
			require.Contains(s.T(), side.Segments, chart.SegmentID(i))
		}
	}
}

func (s *TopologySuite) TestValidateDetectsBrokenReference() {
	s.grid.Segments[0].SideIndex[0] = 3
	err := s.grid.Validate()
	require.ErrorIs(s.T(), err, chart.ErrMalformed)

	var ie *chart.InputError
	require.ErrorAs(s.T(), err, &ie)
}

func (s *TopologySuite) TestValidateDetectsLengthDrift() {
	s.grid.Charts[0].Sides[0].Length += 1
	require.ErrorIs(s.T(), s.grid.Validate(), chart.ErrMalformed)
}

// TestValidateDetectsAdjacencyWithoutSegment lists the diagonal charts of the
// grid as neighbours on both ends, so the symmetric check alone passes.
func (s *TopologySuite) TestValidateDetectsAdjacencyWithoutSegment() {
	s.grid.Charts[0].Adjacent = append(s.grid.Charts[0].Adjacent, 3)
	s.grid.Charts[3].Adjacent = append(s.grid.Charts[3].Adjacent, 0)
	err := s.grid.Validate()
	require.ErrorIs(s.T(), err, chart.ErrMalformed)
	require.Contains(s.T(), err.Error(), "shares no segment")
}

func (s *TopologySuite) TestValidateDetectsMissingAdjacency() {
	s.grid.Charts[0].Adjacent = []chart.ChartID{2}
	s.grid.Charts[1].Adjacent = []chart.ChartID{3}
	err := s.grid.Validate()
	require.ErrorIs(s.T(), err, chart.ErrMalformed)
	require.Contains(s.T(), err.Error(), "does not list it")
}

func (s *TopologySuite) TestSums() {
	counts := make([]int, len(s.grid.Segments))
	for i := range counts {
		counts[i] = i + 1
	}
	sides := s.grid.SideSums(counts, 0)
	require.Len(s.T(), sides, 4)
	total := 0
	for _, v := range sides {
		total += v
	}
	require.Equal(s.T(), total, s.grid.BoundarySum(counts, 0))
}

func (s *TopologySuite) TestMask() {
	var all chart.Mask
	require.True(s.T(), all.Has(3))
	require.Equal(s.T(), 4, all.Size(4))

	m := chart.Mask{true, false, true, false}
	require.False(s.T(), m.Has(1))
	require.False(s.T(), m.Has(chart.NoChart))
	require.Equal(s.T(), 2, m.Size(4))

	s.grid.Charts[2].Unused = true
	require.False(s.T(), s.grid.Active(2, nil))
	require.True(s.T(), s.grid.Active(0, m))
}

func TestTopologySuite(t *testing.T) {
	suite.Run(t, new(TopologySuite))
}

func TestAssemble_Rejects(t *testing.T) {
	seg := []chart.SegmentSpec{{Length: 1}, {Length: 1}, {Length: 1}}
	tri := chart.ChartSpec{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 1}

	_, err := chart.Assemble([]chart.ChartSpec{tri, tri, tri}, seg)
	require.ErrorIs(t, err, chart.ErrMalformed, "segment on three sides")

	_, err = chart.Assemble([]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}}, EdgeLength: 1}}, seg)
	require.ErrorIs(t, err, chart.ErrMalformed, "valence two")

	_, err = chart.Assemble([]chart.ChartSpec{tri}, append(seg, chart.SegmentSpec{Length: 1}))
	require.ErrorIs(t, err, chart.ErrMalformed, "orphan segment")

	_, err = chart.Assemble([]chart.ChartSpec{{Sides: tri.Sides}}, seg)
	require.ErrorIs(t, err, chart.ErrMalformed, "zero edge length")

	_, err = chart.Assemble([]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {0}}, EdgeLength: 1}}, seg[:2])
	require.ErrorIs(t, err, chart.ErrMalformed, "segment twice on one chart")
}

func TestBuild_GridSurface(t *testing.T) {
	surf, err := builder.GridSurface(2, 3, 2, 0.5)
	require.NoError(t, err)

	topo, err := chart.Build(surf)
	require.NoError(t, err)
	require.NoError(t, topo.Validate())
	require.Len(t, topo.Charts, 6)
	// one segment per patch side: 3*3 horizontal + 2*4 vertical
	require.Len(t, topo.Segments, 17)
	for _, seg := range topo.Segments {
		require.InDelta(t, 1.0, seg.Length, 1e-12)
	}
	for _, c := range topo.Charts {
		require.Equal(t, 4, c.Valence())
		for _, side := range c.Sides {
			require.Len(t, side.Segments, 1)
		}
	}
	require.Equal(t, []chart.ChartID{1, 3}, topo.Charts[0].Adjacent)
}

func TestBuild_TJunctionSplitsSide(t *testing.T) {
	// Bottom patch spans x=0..2; two top patches split at x=1, so the top
	// side of the bottom patch is cut into two segments.
	//
	//   3---4---5
	//   | 1 | 2 |
	//   0---6---7   (6 is a corner of the top patches only)
	//   |   0   |
	//   8---9--10
	var surf chart.Surface
	surf.Vertices = make([]r3.Vec, 11)
	for id, p := range map[int]r3.Vec{
		0: {X: 0, Y: 1}, 3: {X: 0, Y: 2}, 4: {X: 1, Y: 2}, 5: {X: 2, Y: 2},
		6: {X: 1, Y: 1}, 7: {X: 2, Y: 1}, 8: {X: 0, Y: 0}, 9: {X: 1, Y: 0}, 10: {X: 2, Y: 0},
	} {
		surf.Vertices[id] = p
	}
	surf.Patches = []chart.Patch{
		{Loop: []int{8, 9, 10, 7, 6, 0}, Corners: []int{8, 10, 7, 0}, EdgeLength: 0.5},
		{Loop: []int{0, 6, 4, 3}, Corners: []int{0, 6, 4, 3}, EdgeLength: 0.5},
		{Loop: []int{6, 7, 5, 4}, Corners: []int{6, 7, 5, 4}, EdgeLength: 0.5},
	}

	topo, err := chart.Build(surf)
	require.NoError(t, err)
	require.NoError(t, topo.Validate())
	require.Len(t, topo.Charts[0].Sides[2].Segments, 2)
	require.InDelta(t, 2.0, topo.Charts[0].Sides[2].Length, 1e-12)
	require.Equal(t, []chart.ChartID{1, 2}, topo.Charts[0].Adjacent)
}

func TestBuild_Rejects(t *testing.T) {
	surf, err := builder.GridSurface(1, 2, 1, 1)
	require.NoError(t, err)

	bad := surf
	bad.Patches = append([]chart.Patch(nil), surf.Patches...)
	bad.Patches[0].Corners = []int{bad.Patches[0].Corners[0], 999, bad.Patches[0].Corners[2]}
	_, err = chart.Build(bad)
	require.ErrorIs(t, err, chart.ErrMalformed)

	flipped := surf
	flipped.Patches = append([]chart.Patch(nil), surf.Patches...)
	flipped.Patches = append(flipped.Patches, flipped.Patches[0])
	_, err = chart.Build(flipped)
	require.ErrorIs(t, err, chart.ErrMalformed)
}

func TestCodec_RoundTrip(t *testing.T) {
	topo, err := builder.BuildTopology(nil, builder.Chain(3, 1, 6))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, chart.WriteTopology(&buf, topo))

	back, err := chart.ReadTopology(&buf)
	require.NoError(t, err)
	require.Equal(t, topo.Segments, back.Segments)
	require.Equal(t, len(topo.Charts), len(back.Charts))
	for i := range topo.Charts {
		require.Equal(t, topo.Charts[i].Adjacent, back.Charts[i].Adjacent)
		require.Equal(t, topo.Charts[i].Valence(), back.Charts[i].Valence())
	}
}

func TestCodec_ReadSurface(t *testing.T) {
	doc := `
vertices: [[0,0,0],[3,0,0],[3,4,0],[0,4,0]]
patches:
  - loop: [0,1,2,3]
    corners: [0,1,2]
    edgeLength: 1
    extra: ignored
`
	surf, err := chart.ReadSurface(strings.NewReader(doc))
	require.NoError(t, err)

	topo, err := chart.Build(surf)
	require.NoError(t, err)
	require.Equal(t, 3, topo.Charts[0].Valence())
	// the last side runs 2 -> 3 -> 0
	require.InDelta(t, 7.0, topo.Charts[0].Sides[2].Length, 1e-12)
	require.InDelta(t, 4.0, topo.Charts[0].Sides[1].Length, 1e-12)
}

func TestSubdivision(t *testing.T) {
	res := chart.NewResult(3)
	require.Equal(t, 3, res.Unknowns())
	res[0] = chart.Fixed(4)
	res[1] = chart.Excluded()

	v, ok := res[0].Value()
	require.True(t, ok)
	require.Equal(t, 4, v)
	require.True(t, res[1].IsExcluded())
	require.Equal(t, "excluded", res[1].String())

	_, err := res.Counts()
	require.ErrorIs(t, err, chart.ErrUndecided)
	require.Equal(t, []int{4, 0, 0}, res.Values())

	c := res.Clone()
	c[2] = chart.Fixed(1)
	require.True(t, res[2].IsUnknown())

	counts, err := chart.FromCounts([]int{1, 2}).Counts()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, counts)
}
