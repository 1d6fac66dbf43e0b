package ilpform_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/ilpform"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type FormSuite struct {
	suite.Suite
	params config.Parameters
}

func (s *FormSuite) SetupTest() {
	s.params = config.DefaultParameters()
	s.params.Solver = config.SolverILP
}

func (s *FormSuite) solve(t *chart.Topology, res chart.Result, mask chart.Mask) *ilpform.Outcome {
	out, err := ilpform.Solve(context.Background(), t, res, mask, &s.params)
	require.NoError(s.T(), err)
	return out
}

func (s *FormSuite) TestTriangle() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(3))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	require.Equal(s.T(), ilpform.Found, out.Status)
	counts, err := out.Result.Counts()
	require.NoError(s.T(), err)
	require.Equal(s.T(), []int{2, 2, 2}, counts)
	require.Len(s.T(), out.Stats, 1)
	require.InDelta(s.T(), 0, out.Stats[0].Obj, 1e-9)
}

func (s *FormSuite) TestAbsoluteIsometry() {
	s.params.ILPMethod = config.Abs
	topo, err := builder.BuildTopology(
		[]builder.BuilderOption{builder.WithSegmentLength(8), builder.WithEdgeLength(4)},
		builder.Polygon(4))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	require.Equal(s.T(), chart.FromCounts([]int{2, 2, 2, 2}), out.Result)
}

func (s *FormSuite) TestAlignedChain() {
	topo, err := builder.BuildTopology(nil, builder.Chain(3, 1, 3))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	counts, err := out.Result.Counts()
	require.NoError(s.T(), err)
	for _, n := range counts {
		require.Equal(s.T(), 2, n)
	}
	require.Len(s.T(), out.Pairs.Pairs, 1)
	require.True(s.T(), evaluate.IsPairAligned(topo, counts, out.Pairs.Pairs[0]))
	require.Zero(s.T(), out.Stats[0].AlignmentFull)
}

func (s *FormSuite) TestSubProblem() {
	topo, err := builder.BuildTopology(nil, builder.Grid(1, 2))
	require.NoError(s.T(), err)
	shared := topo.Charts[0].Sides[1].Segments[0]
	res := chart.NewResult(len(topo.Segments))
	res[shared] = chart.Fixed(2)

	out := s.solve(topo, res, chart.Mask{true, false})
	for _, sid := range topo.Charts[0].Segments {
		n, ok := out.Result[sid].Value()
		require.True(s.T(), ok)
		require.Equal(s.T(), 2, n)
	}
	for _, sid := range topo.Charts[1].Segments {
		if sid != shared {
			require.True(s.T(), out.Result[sid].IsUnknown())
		}
	}
}

func (s *FormSuite) TestExcludedSegment() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(4))
	require.NoError(s.T(), err)
	res := chart.NewResult(len(topo.Segments))
	res[2] = chart.Excluded()

	_, err = ilpform.Solve(context.Background(), topo, res, nil, &s.params)
	require.ErrorIs(s.T(), err, ilpform.ErrSubProblem)
}

// TestParity fixes an odd boundary: hard parity has no solution, soft
// parity accepts it and reports the result as wrong.
func (s *FormSuite) TestParity() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(3))
	require.NoError(s.T(), err)
	res := chart.FromCounts([]int{2, 2, 1})

	out := s.solve(topo, res, nil)
	require.Equal(s.T(), ilpform.Infeasible, out.Status)
	require.Nil(s.T(), out.Result)

	s.params.HardParityConstraint = false
	out = s.solve(topo, res, nil)
	require.Equal(s.T(), ilpform.Wrong, out.Status)
	require.Equal(s.T(), res, out.Result)
}

// TestRepeat drops the regularity of a triangle the first round leaves
// irregular.
func (s *FormSuite) TestRepeat() {
	topo, err := chart.Assemble(
		[]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5}},
		[]chart.SegmentSpec{{Length: 30}, {Length: 5}, {Length: 5}})
	require.NoError(s.T(), err)
	s.params.Alpha = 1
	s.params.RepeatLosingConstraintsNonQuads = true

	out := s.solve(topo, nil, nil)
	require.Equal(s.T(), chart.FromCounts([]int{6, 1, 1}), out.Result)
	require.Len(s.T(), out.Stats, 2)

	s.params.RepeatLosingConstraintsNonQuads = false
	out = s.solve(topo, nil, nil)
	require.Len(s.T(), out.Stats, 1)
}

func (s *FormSuite) TestNothingToSolve() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(4))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, chart.Mask{false})
	require.Equal(s.T(), chart.NewResult(4), out.Result)
	require.Empty(s.T(), out.Stats)
}

func TestFormSuite(t *testing.T) {
	suite.Run(t, new(FormSuite))
}

func TestStatsJSON(t *testing.T) {
	raw, err := json.Marshal(ilpform.Stats{SupportObj: 1, AlignmentFull: .5})
	require.NoError(t, err)
	require.JSONEq(t, `{"support_obj":1,"obj":0,"cost_isometry":0,"cost_regularity":0,
		"cost_alignment":0,"cost_alignment_full":0.5}`, string(raw))
	require.Equal(t, "wrong", ilpform.Wrong.String())
}
