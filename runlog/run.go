package runlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/quadquant/quantize"
	"github.com/pkg/errors"
)

// Run is one logged quantization.
type Run struct {
	ID        uuid.UUID       `json:"id"`
	Started   time.Time       `json:"started"`
	Source    string          `json:"source"`
	Backend   string          `json:"backend"`
	Charts    int             `json:"charts"`
	Segments  int             `json:"segments"`
	Clusters  int             `json:"clusters"`
	Attempts  int             `json:"attempts"`
	Gap       float64         `json:"gap"`
	Objective float64         `json:"objective"`
	Report    json.RawMessage `json:"report"`
	Stats     json.RawMessage `json:"stats"`
}

// runStats is the Stats document of a Run.
type runStats struct {
	Traces    []quantize.Trace `json:"traces"`
	FlowStats interface{}      `json:"flow_stats,omitempty"`
	ILPStats  interface{}      `json:"ilp_stats,omitempty"`
}

// FromOutcome describes o as a new Run with a fresh ID.
func FromOutcome(source string, started time.Time, segments int, o *quantize.Outcome) (Run, error) {
	report, err := json.Marshal(o.Report)
	if err != nil {
		return Run{}, errors.Wrap(err, "runlog: encode report")
	}
	st := runStats{Traces: o.Traces}
	if len(o.FlowStats) > 0 {
		st.FlowStats = o.FlowStats
	}
	if len(o.ILPStats) > 0 {
		st.ILPStats = o.ILPStats
	}
	stats, err := json.Marshal(st)
	if err != nil {
		return Run{}, errors.Wrap(err, "runlog: encode stats")
	}

	return Run{
		ID:        uuid.New(),
		Started:   started,
		Source:    source,
		Backend:   o.Backend,
		Charts:    o.Report.Charts,
		Segments:  segments,
		Clusters:  o.Clusters,
		Attempts:  o.Attempts(),
		Gap:       o.Gap,
		Objective: o.Report.Total(),
		Report:    report,
		Stats:     stats,
	}, nil
}
