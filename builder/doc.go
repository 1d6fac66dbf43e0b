// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// Package builder assembles deterministic chart topologies and traced
// surfaces for tests, examples and the command-line tool.
//
// Topologies are composed from Constructors, each appending a disjoint
// component (charts plus the segments they own) to an assembly in progress:
//
//	topo, err := builder.BuildTopology(
//		[]builder.BuilderOption{builder.WithSegmentLength(10), builder.WithEdgeLength(5)},
//		builder.Polygon(3),
//		builder.Chain(3, 2, 5),
//	)
//
// Constructors:
//   - Polygon(v):          one chart of valence v, every side on the mesh boundary.
//   - Grid(rows, cols):    rows×cols quads, one segment per side.
//   - Chain(h, n, t):      an irregular chart of valence h, n quads entered and left
//     through opposite sides, and an irregular chart of valence t. The two
//     irregular charts form one singularity pair.
//
// Surfaces:
//   - GridSurface(rows, cols, cells, spacing): a planar lattice of square patches,
//     each cells×cells faces, suitable for chart.Build.
//
// Determinism: the same options and constructor order always produce the same
// IDs and lengths. WithJitter perturbs segment lengths from a seeded source.
package builder
