// SPDX-License-Identifier: MIT
// Package: quadquant/builder
//
// impl_chain.go - two irregular charts joined through a run of quads.
//
// Layout (IDs in creation order):
//
//	head(0) ─A0─ quad(1) ─A1─ quad(2) ... ─An─ tail(n+1)
//
// The head and tail use side 0 for the chain; every quad enters through
// side 0 and leaves through side 2. All remaining sides are mesh boundary.

package builder

import "github.com/katalvlaran/quadquant/chart"

const methodChain = "Chain"

func irregular(v int) bool { return v == 3 || v == 5 || v == 6 }

func chain(head, quads, tail int) Constructor {
	return func(a *assembly, cfg builderConfig) error {
		if !irregular(head) || !irregular(tail) {
			return builderErrorf(methodChain, ErrBadValence, "head=%d, tail=%d", head, tail)
		}
		if quads < 0 {
			return builderErrorf(methodChain, ErrTooFewCharts, "quads=%d", quads)
		}
		links := make([]chart.SegmentID, quads+1)
		for i := range links {
			links[i] = a.segment(cfg)
		}
		ring := func(v int, first chart.SegmentID) []chart.SegmentID {
			sides := []chart.SegmentID{first}
			for i := 1; i < v; i++ {
				sides = append(sides, a.segment(cfg))
			}
			return sides
		}

		a.addChart(cfg, ring(head, links[0])...)
		for q := 0; q < quads; q++ {
			a.addChart(cfg, links[q], a.segment(cfg), links[q+1], a.segment(cfg))
		}
		a.addChart(cfg, ring(tail, links[quads])...)

		return nil
	}
}
