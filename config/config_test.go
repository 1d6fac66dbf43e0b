package config_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/quadquant/config"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	p := config.DefaultParameters()
	require.NoError(t, p.Validate())
	require.Equal(t, 200*time.Second, p.Limit())
	require.True(t, p.RepeatsAny())

	f := config.DefaultFlowConfig()
	require.NoError(t, f.Validate())
	require.Equal(t, config.Half, f.PairedHalfTarget)
	require.Equal(t, config.AbsObjective, f.PairedResolve.IsoObjective)
}

func TestReadParametersOverDefaults(t *testing.T) {
	doc := `
alpha: 0.5
ilpMethod: abs
solver: ilp
somethingFromTheFuture: 12
callbackTimeLimit: [1, 2]
callbackGapLimit: [0.1, 0.2]
`
	p, err := config.ReadParameters(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 0.5, p.Alpha)
	require.Equal(t, config.Abs, p.ILPMethod)
	require.Equal(t, config.SolverILP, p.Solver)
	require.Equal(t, []float64{1, 2}, p.CallbackTimeLimit)

	def := config.DefaultParameters()
	require.Equal(t, def.MinimumGap, p.MinimumGap)
	require.Equal(t, def.AlignSingularitiesWeight, p.AlignSingularitiesWeight)
}

func TestReadEmptyDocument(t *testing.T) {
	p, err := config.ReadParameters(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, config.DefaultParameters(), *p)
}

func TestSchemaMismatchNamesField(t *testing.T) {
	_, err := config.ReadParameters(strings.NewReader("timeLimit: soon\n"))
	require.ErrorIs(t, err, config.ErrSchema)

	var ce *config.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "timeLimit", ce.Field)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"alpha":            "alpha: 1.5",
		"ilpMethod":        "ilpMethod: simplex",
		"solver":           "solver: cplex",
		"workers":          "workers: 0",
		"timeLimit":        "timeLimit: 0",
		"callbackGapLimit": "callbackTimeLimit: [1]",
	}
	for field, doc := range cases {
		_, err := config.ReadParameters(strings.NewReader(doc))
		require.ErrorIs(t, err, config.ErrInvalid, field)
		var ce *config.Error
		require.ErrorAs(t, err, &ce, field)
		require.Equal(t, field, ce.Field)
	}
}

func TestReadFlowConfigNested(t *testing.T) {
	doc := `
pairedHalfTarget: simple
pairedResolveNewTargets: true
pairedResolve:
  isoObjective: quad
  unalignWeight: 2
`
	c, err := config.ReadFlowConfig(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, config.Simple, c.PairedHalfTarget)
	require.True(t, c.PairedResolveNewTargets)
	require.Equal(t, config.QuadObjective, c.PairedResolve.IsoObjective)
	require.Equal(t, 2.0, c.PairedResolve.UnalignWeight)
	require.Equal(t, 0.5, c.PairedResolve.IsoWeight)
	require.Equal(t, config.DefaultPaired(), c.PairedInitial)

	_, err = config.ReadFlowConfig(strings.NewReader("pairedInitial:\n  isoWeight: many\n"))
	var ce *config.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "pairedInitial.isoWeight", ce.Field)

	_, err = config.ReadFlowConfig(strings.NewReader("pairedResolve: 3\n"))
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "pairedResolve", ce.Field)
}

func TestLoadReportsPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")
	_, err := config.LoadParameters(missing)
	require.ErrorIs(t, err, fs.ErrNotExist)
	var ce *config.Error
	require.ErrorAs(t, err, &ce)
	require.Equal(t, missing, ce.Path)

	bad := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pairedHalfTarget: thirds\n"), 0o644))
	_, err = config.LoadFlowConfig(bad)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, bad, ce.Path)
	require.Equal(t, "pairedHalfTarget", ce.Field)
	require.Contains(t, err.Error(), bad)
}

func TestClone(t *testing.T) {
	p := config.DefaultParameters()
	q := p.Clone()
	q.CallbackTimeLimit[0] = 99
	require.Equal(t, 3.0, p.CallbackTimeLimit[0])
}
