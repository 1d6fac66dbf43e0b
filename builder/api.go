// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// api.go - public entry points for the builder package.
//
// One orchestrator, BuildTopology, resolves the options and runs every
// Constructor in order against a shared assembly. The resulting chart and
// segment specs are handed to chart.Assemble, which derives all incidence.

package builder

import (
	"github.com/katalvlaran/quadquant/chart"
)

// Constructor appends one component to the assembly.
type Constructor func(a *assembly, cfg builderConfig) error

// assembly accumulates specs; IDs are positions in the slices.
type assembly struct {
	charts   []chart.ChartSpec
	segments []chart.SegmentSpec
	vertex   int
}

// segment appends a new segment and returns its ID.
func (a *assembly) segment(cfg builderConfig) chart.SegmentID {
	id := chart.SegmentID(len(a.segments))
	a.segments = append(a.segments, chart.SegmentSpec{
		Length:   cfg.length(),
		Vertices: [2]int{a.vertex, a.vertex + 1},
	})
	a.vertex += 2

	return id
}

// addChart appends a chart whose sides hold one segment each.
func (a *assembly) addChart(cfg builderConfig, sides ...chart.SegmentID) chart.ChartID {
	id := chart.ChartID(len(a.charts))
	spec := chart.ChartSpec{Sides: make([][]chart.SegmentID, len(sides)), EdgeLength: cfg.edgeLength}
	for i, s := range sides {
		spec.Sides[i] = []chart.SegmentID{s}
	}
	a.charts = append(a.charts, spec)

	return id
}

// BuildTopology runs cons in order and assembles the resulting topology.
func BuildTopology(opts []BuilderOption, cons ...Constructor) (*chart.Topology, error) {
	cfg := newBuilderConfig(opts...)
	a := &assembly{}
	for _, con := range cons {
		if err := con(a, cfg); err != nil {
			return nil, err
		}
	}

	return chart.Assemble(a.charts, a.segments)
}

// Polygon returns a Constructor for a single boundary chart of the given valence.
func Polygon(valence int) Constructor { return polygon(valence) }

// Grid returns a Constructor for a rows×cols quad grid.
func Grid(rows, cols int) Constructor { return grid(rows, cols) }

// Chain returns a Constructor for two irregular charts joined through quads.
func Chain(head, quads, tail int) Constructor { return chain(head, quads, tail) }
