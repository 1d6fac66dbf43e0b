package cluster

import (
	"math"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// minCross is the smallest count of a fixed cross segment.
const minCross = 2

// FixCrossSegments sets every Unknown segment between two clusters to the
// even count nearest its length over the mean edge length of its charts,
// at least two. It returns the number of segments fixed.
func FixCrossSegments(t *chart.Topology, a Assignment, res chart.Result) int {
	fixed := 0
	for si, seg := range t.Segments {
		sid := chart.SegmentID(si)
		if !a.Cross(t, sid) || !res[sid].IsUnknown() {
			continue
		}
		el := (t.Charts[seg.Charts[0]].EdgeLength + t.Charts[seg.Charts[1]].EdgeLength) / 2
		n := int(math.Round(seg.Length/el/2)) * 2
		res[sid] = chart.Fixed(max(minCross, n))
		fixed++
	}
	klog.V(1).Infof("cluster: fixed %d of %d segments", fixed, len(t.Segments))

	return fixed
}

// SubProblem returns the input of cluster k: a copy of res and the mask of
// its charts. Segments outside the cluster are left to the solvers, which
// ignore segments without an active chart.
func SubProblem(t *chart.Topology, a Assignment, k int, res chart.Result) (chart.Result, chart.Mask) {
	return res.Clone(), a.Mask(k)
}

// Merge copies the Fixed entries of sub into dst. Entries fixed in both
// must agree.
func Merge(dst, sub chart.Result) error {
	if len(dst) != len(sub) {
		return errors.Wrapf(ErrLength, "%d vs %d", len(dst), len(sub))
	}
	for i, s := range sub {
		v, ok := s.Value()
		if !ok {
			continue
		}
		if old, set := dst[i].Value(); set && old != v {
			return errors.Wrapf(ErrConflict, "segment %d: %d vs %d", i, old, v)
		}
		dst[i] = s
	}

	return nil
}
