// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Defaults:
//   - segmentLength = 10
//   - edgeLength    = 5   (target of 2 subdivisions per segment)
//   - jitter        = 0, rng = nil

package builder

import "math/rand"

const (
	defaultSegmentLength = 10.0
	defaultEdgeLength    = 5.0
)

// builderConfig is passed by value to constructors.
type builderConfig struct {
	segmentLength float64
	edgeLength    float64
	jitter        float64
	rng           *rand.Rand
}

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		segmentLength: defaultSegmentLength,
		edgeLength:    defaultEdgeLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// length returns the next segment length, jittered when configured.
func (c builderConfig) length() float64 {
	if c.jitter == 0 || c.rng == nil {
		return c.segmentLength
	}

	return c.segmentLength * (1 + c.jitter*(2*c.rng.Float64()-1))
}
