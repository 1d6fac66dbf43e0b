package flownet_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/katalvlaran/quadquant/bimdf"
	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/flownet"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type FlowSuite struct {
	suite.Suite
	params config.Parameters
	flow   config.FlowConfig
}

func (s *FlowSuite) SetupTest() {
	s.params = config.DefaultParameters()
	s.flow = config.DefaultFlowConfig()
}

func (s *FlowSuite) solve(t *chart.Topology, res chart.Result, mask chart.Mask) *flownet.Outcome {
	out, err := flownet.Solve(context.Background(), t, res, mask, &s.params, &s.flow, bimdf.MIPSolver{})
	require.NoError(s.T(), err)
	return out
}

func (s *FlowSuite) counts(out *flownet.Outcome) []int {
	counts, err := out.Result.Counts()
	require.NoError(s.T(), err)
	return counts
}

// TestTriangle checks a single triangle with sides of length 10 at edge
// length 5: every count is 2 and the up/down identity holds.
func (s *FlowSuite) TestTriangle() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(3))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	counts := s.counts(out)
	require.Equal(s.T(), []int{2, 2, 2}, counts)
	for side := 0; side < 3; side++ {
		a, b, c := counts[side], counts[(side+1)%3], counts[(side+2)%3]
		up, down := evaluate.UpDown(topo, counts, 0, side)
		require.Equal(s.T(), a+c-b, down)
		require.Equal(s.T(), a+b-c, up)
	}
	require.Len(s.T(), out.Stats, 1)
	require.InDelta(s.T(), 0, out.Stats[0].Sum(), 1e-9)
	require.False(s.T(), out.Resolved)
}

// TestBoundaryQuad checks boundary segments of length 8 at edge length 4.
func (s *FlowSuite) TestBoundaryQuad() {
	topo, err := builder.BuildTopology(
		[]builder.BuilderOption{builder.WithSegmentLength(8), builder.WithEdgeLength(4)},
		builder.Polygon(4))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	require.Equal(s.T(), []int{2, 2, 2, 2}, s.counts(out))
}

func (s *FlowSuite) TestAlignedChain() {
	topo, err := builder.BuildTopology(nil, builder.Chain(3, 1, 3))
	require.NoError(s.T(), err)

	out := s.solve(topo, nil, nil)
	counts := s.counts(out)
	for _, n := range counts {
		require.Equal(s.T(), 2, n)
	}
	require.Len(s.T(), out.Pairs.Pairs, 1)
	require.True(s.T(), evaluate.IsPairAligned(topo, counts, out.Pairs.Pairs[0]))
	require.Zero(s.T(), out.Stats[0].PairUnalignersUsed)
	require.InDelta(s.T(), out.Cost, out.Stats[0].Sum(), 1e-3)
}

func (s *FlowSuite) TestChainWithoutAlignment() {
	topo, err := builder.BuildTopology(nil, builder.Chain(3, 2, 5))
	require.NoError(s.T(), err)
	s.params.AlignSingularities = false

	out := s.solve(topo, nil, nil)
	require.Empty(s.T(), out.Pairs.Pairs)
	counts := s.counts(out)
	for ci := range topo.Charts {
		require.True(s.T(), evaluate.Valid(topo, counts, chart.ChartID(ci)))
	}
}

// TestSubProblem solves the left chart of a 1x2 grid with the shared segment
// fixed; the right chart stays undecided.
func (s *FlowSuite) TestSubProblem() {
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
	require.True(s.T(), res[topo.Charts[0].Sides[0].Segments[0]].IsUnknown(), "input result is not modified")
}

func (s *FlowSuite) TestExcludedSegmentOnActiveChart() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(4))
	require.NoError(s.T(), err)
	res := chart.NewResult(len(topo.Segments))
	res[0] = chart.Excluded()

	_, err = flownet.Solve(context.Background(), topo, res, nil, &s.params, &s.flow, bimdf.MIPSolver{})
	require.ErrorIs(s.T(), err, flownet.ErrSubProblem)
}

// TestResolve uses a pure-isometry triangle whose targets 6, 1, 1 are
// irregular; the non-quad repeat flag triggers the second round.
func (s *FlowSuite) TestResolve() {
	topo, err := chart.Assemble(
		[]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5}},
		[]chart.SegmentSpec{{Length: 30}, {Length: 5}, {Length: 5}})
	require.NoError(s.T(), err)
	s.params.Alpha = 1
	s.params.RepeatLosingConstraintsNonQuads = true

	out := s.solve(topo, nil, nil)
	require.Equal(s.T(), []int{6, 1, 1}, s.counts(out))
	require.True(s.T(), out.Resolved)
	require.Len(s.T(), out.Stats, 2)

	s.params.RepeatLosingConstraintsNonQuads = false
	out = s.solve(topo, nil, nil)
	require.False(s.T(), out.Resolved)
	require.Len(s.T(), out.Stats, 1)
}

// TestResolveReusesFlow checks that round two starts from the round one
// flow when no pair was removed between the rounds.
func (s *FlowSuite) TestResolveReusesFlow() {
	topo, err := chart.Assemble(
		[]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5}},
		[]chart.SegmentSpec{{Length: 30}, {Length: 5}, {Length: 5}})
	require.NoError(s.T(), err)
	s.params.Alpha = 1
	s.params.RepeatLosingConstraintsNonQuads = true

	rec := &recorder{}
	out, err := flownet.Solve(context.Background(), topo, nil, nil, &s.params, &s.flow, rec)
	require.NoError(s.T(), err)
	require.True(s.T(), out.Resolved)
	require.Len(s.T(), rec.hints, 2)
	require.Nil(s.T(), rec.hints[0])
	require.Equal(s.T(), rec.solutions[0], rec.hints[1])
}

// TestTimeLimitBoundsLargeGrid solves a jittered 5x5 grid under a short
// limit; the search stops near the limit instead of running to optimality.
func (s *FlowSuite) TestTimeLimitBoundsLargeGrid() {
	topo, err := builder.BuildTopology(
		[]builder.BuilderOption{builder.WithSeed(3), builder.WithJitter(.4)}, builder.Grid(5, 5))
	require.NoError(s.T(), err)
	s.params.TimeLimit = .5
	s.params.RepeatLosingConstraintsQuads = true
	limit := s.params.Limit()

	start := time.Now()
	out, err := flownet.Solve(context.Background(), topo, nil, nil, &s.params, &s.flow, bimdf.MIPSolver{})
	elapsed := time.Since(start)
	// Each round may overrun by at most the LP solve in flight.
	require.Less(s.T(), elapsed, 2*limit+5*time.Second)
	if err != nil {
		require.ErrorIs(s.T(), err, bimdf.ErrNoFlow)
		return
	}
	require.Contains(s.T(), []ilp.Status{ilp.Optimal, ilp.Feasible}, out.Status)
	counts := s.counts(out)
	for ci := range topo.Charts {
		require.True(s.T(), evaluate.Valid(topo, counts, chart.ChartID(ci)))
	}
}

func (s *FlowSuite) TestUnsupportedValence() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(7))
	require.NoError(s.T(), err)
	_, err = flownet.Solve(context.Background(), topo, nil, nil, &s.params, &s.flow, bimdf.MIPSolver{})
	require.ErrorIs(s.T(), err, flownet.ErrUnsupportedValence)
}

func (s *FlowSuite) TestSolverMismatch() {
	topo, err := builder.BuildTopology(nil, builder.Polygon(3))
	require.NoError(s.T(), err)

	_, err = flownet.Solve(context.Background(), topo, nil, nil, &s.params, &s.flow, tamper{cost: 1})
	require.ErrorIs(s.T(), err, flownet.ErrCostMismatch)

	_, err = flownet.Solve(context.Background(), topo, nil, nil, &s.params, &s.flow, tamper{zero: true})
	require.ErrorIs(s.T(), err, flownet.ErrInvalidQuantization)
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

// tamper corrupts the outcome of the MIP solver.
type tamper struct {
	cost float64
	zero bool
}

func (tp tamper) Solve(ctx context.Context, n *bimdf.Network, opts bimdf.SolveOptions) (*bimdf.Outcome, error) {
	out, err := bimdf.MIPSolver{}.Solve(ctx, n, opts)
	if err != nil {
		return nil, err
	}
	out.Cost += tp.cost
	if tp.zero {
		for i := range out.Solution {
			out.Solution[i] = 0
		}
	}
	return out, nil
}

// recorder solves with the MIP solver and keeps every hint and solution.
type recorder struct {
	hints     []bimdf.Solution
	solutions []bimdf.Solution
}

func (r *recorder) Solve(ctx context.Context, n *bimdf.Network, opts bimdf.SolveOptions) (*bimdf.Outcome, error) {
	r.hints = append(r.hints, opts.Hint)
	out, err := bimdf.MIPSolver{}.Solve(ctx, n, opts)
	if err == nil {
		r.solutions = append(r.solutions, append(bimdf.Solution(nil), out.Solution...))
	}
	return out, err
}

func TestStatsJSON(t *testing.T) {
	st := flownet.Stats{PairUnalignersUsed: 2, IsoPaired: 1.5, SideLoopsV5: .25, Alignment: .5}
	require.InDelta(t, 2.25, st.Sum(), 1e-12)
	require.InDelta(t, .25, st.Regularity(), 1e-12)

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	var m map[string]float64
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Equal(t, 2.0, m["n_pair_unaligners_used"])
	require.Equal(t, .25, m["cost_regularity_sideloops_v5"])
	require.Contains(t, m, "cost_sing_on_bound_v6")
}
