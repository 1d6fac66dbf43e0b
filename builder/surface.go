// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// surface.go - planar lattice surfaces for chart.Build.

package builder

import (
	"github.com/katalvlaran/quadquant/chart"
	"gonum.org/v1/gonum/spatial/r3"
)

const methodGridSurface = "GridSurface"

// GridSurface lays out rows×cols square patches, each cells×cells faces of
// the given spacing. Patch (r,c) has ID r*cols+c and its four lattice
// corners as corners.
func GridSurface(rows, cols, cells int, spacing float64) (chart.Surface, error) {
	if rows < 1 || cols < 1 || cells < 1 {
		return chart.Surface{}, builderErrorf(methodGridSurface, ErrTooFewCharts, "rows=%d, cols=%d, cells=%d", rows, cols, cells)
	}
	w := cols*cells + 1
	hgt := rows*cells + 1
	id := func(x, y int) int { return y*w + x }

	s := chart.Surface{Vertices: make([]r3.Vec, 0, w*hgt)}
	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			s.Vertices = append(s.Vertices, r3.Vec{X: float64(x) * spacing, Y: float64(y) * spacing})
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x0, y0 := c*cells, r*cells
			x1, y1 := x0+cells, y0+cells
			var loop []int
			for x := x0; x < x1; x++ {
				loop = append(loop, id(x, y0))
			}
			for y := y0; y < y1; y++ {
				loop = append(loop, id(x1, y))
			}
			for x := x1; x > x0; x-- {
				loop = append(loop, id(x, y1))
			}
			for y := y1; y > y0; y-- {
				loop = append(loop, id(x0, y))
			}
			s.Patches = append(s.Patches, chart.Patch{
				Loop:       loop,
				Corners:    []int{id(x0, y0), id(x1, y0), id(x1, y1), id(x0, y1)},
				EdgeLength: spacing,
			})
		}
	}

	return s, nil
}
