// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// impl_polygon.go - single chart with every side on the mesh boundary.

package builder

import "github.com/katalvlaran/quadquant/chart"

const methodPolygon = "Polygon"

func polygon(valence int) Constructor {
	return func(a *assembly, cfg builderConfig) error {
		if valence < 3 {
			return builderErrorf(methodPolygon, ErrBadValence, "valence=%d", valence)
		}
		sides := make([]chart.SegmentID, valence)
		for i := range sides {
			sides[i] = a.segment(cfg)
		}
		a.addChart(cfg, sides...)

		return nil
	}
}
