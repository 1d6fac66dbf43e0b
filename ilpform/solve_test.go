package ilpform

import (
	"context"
	"testing"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/ilp"
	"github.com/stretchr/testify/require"
)

// TestRepeatRoundWithoutSolutionKeepsPrevious lets the repeat round of an
// irregular triangle stop without an incumbent.
func TestRepeatRoundWithoutSolutionKeepsPrevious(t *testing.T) {
	calls := 0
	solveModel = func(ctx context.Context, m *ilp.Model, opts ilp.Options) (*ilp.Result, error) {
		calls++
		if calls > 1 {
			return &ilp.Result{Status: ilp.NoSolution, Nodes: 1}, nil
		}
		return ilp.Solve(ctx, m, opts)
	}
	defer func() { solveModel = ilp.Solve }()

	topo, err := chart.Assemble(
		[]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5}},
		[]chart.SegmentSpec{{Length: 30}, {Length: 5}, {Length: 5}})
	require.NoError(t, err)
	p := config.DefaultParameters()
	p.Alpha = 1
	p.RepeatLosingConstraintsNonQuads = true

	out, err := Solve(context.Background(), topo, nil, nil, &p)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, Found, out.Status)
	require.Equal(t, chart.FromCounts([]int{6, 1, 1}), out.Result)
	require.Len(t, out.Stats, 1)
}

func TestFirstRoundWithoutSolutionFails(t *testing.T) {
	solveModel = func(context.Context, *ilp.Model, ilp.Options) (*ilp.Result, error) {
		return &ilp.Result{Status: ilp.NoSolution}, nil
	}
	defer func() { solveModel = ilp.Solve }()

	topo, err := chart.Assemble(
		[]chart.ChartSpec{{Sides: [][]chart.SegmentID{{0}, {1}, {2}}, EdgeLength: 5}},
		[]chart.SegmentSpec{{Length: 10}, {Length: 10}, {Length: 10}})
	require.NoError(t, err)
	p := config.DefaultParameters()

	_, err = Solve(context.Background(), topo, nil, nil, &p)
	require.ErrorIs(t, err, ErrNoSolution)
}
