// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// options.go - functional options for the builder package.
//
// Option constructors panic on meaningless values; constructors never panic.

package builder

import "math/rand"

// BuilderOption customizes builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithSegmentLength sets the physical length of every generated segment.
func WithSegmentLength(l float64) BuilderOption {
	if !(l > 0) {
		panic("builder: WithSegmentLength(<=0)")
	}
	return func(c *builderConfig) { c.segmentLength = l }
}

// WithEdgeLength sets the target edge length of every generated chart.
func WithEdgeLength(l float64) BuilderOption {
	if !(l > 0) {
		panic("builder: WithEdgeLength(<=0)")
	}
	return func(c *builderConfig) { c.edgeLength = l }
}

// WithJitter scales every segment length by a factor drawn uniformly from
// [1-frac, 1+frac]. Requires a seeded source (WithSeed); without one the
// jitter is ignored.
func WithJitter(frac float64) BuilderOption {
	if frac < 0 || frac >= 1 {
		panic("builder: WithJitter outside [0,1)")
	}
	return func(c *builderConfig) { c.jitter = frac }
}

// WithSeed creates a deterministic random source for WithJitter.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}
