package runlog_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/quadquant/builder"
	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/quantize"
	"github.com/katalvlaran/quadquant/runlog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *runlog.Store
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := runlog.Open(s.ctx, ":memory:")
	require.NoError(s.T(), err)
	s.store = store
}

func (s *StoreSuite) TearDownTest() {
	require.NoError(s.T(), s.store.Close())
}

func (s *StoreSuite) run(started time.Time, backend string) runlog.Run {
	return runlog.Run{
		ID:        uuid.New(),
		Started:   started,
		Source:    "fixture.yaml",
		Backend:   backend,
		Charts:    3,
		Segments:  8,
		Clusters:  1,
		Attempts:  2,
		Gap:       .01,
		Objective: .25,
		Report:    json.RawMessage(`{"charts":3}`),
		Stats:     json.RawMessage(`{"traces":[]}`),
	}
}

func (s *StoreSuite) TestRecordAndGet() {
	want := s.run(time.Unix(1700000000, 42), "flow")
	require.NoError(s.T(), s.store.Record(s.ctx, want))

	got, err := s.store.Get(s.ctx, want.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), want.Started.Equal(got.Started))
	got.Started = want.Started
	require.Equal(s.T(), want, got)
}

func (s *StoreSuite) TestListNewestFirst() {
	base := time.Unix(1700000000, 0)
	for i, backend := range []string{"flow", "ilp", "flow"} {
		require.NoError(s.T(), s.store.Record(s.ctx, s.run(base.Add(time.Duration(i)*time.Minute), backend)))
	}

	all, err := s.store.List(s.ctx, 0)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 3)
	require.Equal(s.T(), "ilp", all[1].Backend)
	require.True(s.T(), all[0].Started.After(all[1].Started))

	two, err := s.store.List(s.ctx, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), two, 2)
}

func (s *StoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, uuid.New())
	require.ErrorIs(s.T(), err, runlog.ErrNotFound)
}

func (s *StoreSuite) TestDuplicateID() {
	r := s.run(time.Now(), "flow")
	require.NoError(s.T(), s.store.Record(s.ctx, r))
	require.Error(s.T(), s.store.Record(s.ctx, r))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestFromOutcome(t *testing.T) {
	topo, err := builder.BuildTopology(nil, builder.Polygon(3))
	require.NoError(t, err)
	p := config.DefaultParameters()
	out, err := quantize.NewEngine().Quantize(context.Background(), topo, &p, nil)
	require.NoError(t, err)

	r, err := runlog.FromOutcome("triangle", time.Now(), len(topo.Segments), out)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, r.ID)
	require.Equal(t, "flow", r.Backend)
	require.Equal(t, 1, r.Charts)
	require.Equal(t, 3, r.Segments)
	require.Equal(t, 1, r.Attempts)

	var stats map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(r.Stats, &stats))
	require.Contains(t, stats, "traces")
	require.Contains(t, stats, "flow_stats")
	require.NotContains(t, stats, "ilp_stats")
}
