// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// impl_grid.go - rows×cols quad grid.
//
// Chart (r,c) gets ID r*cols+c. Sides are counter-clockwise: bottom, right,
// top, left, so sides 0/2 and 1/3 are opposite. Horizontal segments are
// created first (row-major over rows+1 lines), vertical segments second.

package builder

import "github.com/katalvlaran/quadquant/chart"

const methodGrid = "Grid"

func grid(rows, cols int) Constructor {
	return func(a *assembly, cfg builderConfig) error {
		if rows < 1 || cols < 1 {
			return builderErrorf(methodGrid, ErrTooFewCharts, "rows=%d, cols=%d", rows, cols)
		}
		h := make([][]chart.SegmentID, rows+1)
		for r := range h {
			h[r] = make([]chart.SegmentID, cols)
			for c := range h[r] {
				h[r][c] = a.segment(cfg)
			}
		}
		v := make([][]chart.SegmentID, rows)
		for r := range v {
			v[r] = make([]chart.SegmentID, cols+1)
			for c := range v[r] {
				v[r][c] = a.segment(cfg)
			}
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				a.addChart(cfg, h[r][c], v[r][c+1], h[r+1][c], v[r][c])
			}
		}

		return nil
	}
}
