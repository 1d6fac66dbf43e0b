package evaluate

import (
	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/singularity"
)

// Irregularity measures how far chart c is from admitting a regular quad
// layout under counts. Zero means regular. Valences outside 3..6 score 0.
func Irregularity(t *chart.Topology, counts []int, c chart.ChartID) int {
	s := t.SideSums(counts, c)
	v := len(s)
	at := func(j int) int { return s[j%v] }
	pos := func(x int) int {
		if x > 0 {
			return x
		}
		return 0
	}

	value := 0
	for j := 0; j < v; j++ {
		switch v {
		case 4:
			d := at(j) - at(j+2)
			if d < 0 {
				d = -d
			}
			value += d
		case 3:
			value += pos(at(j) + 1 - at(j+1) - at(j+2))
		case 5:
			value += pos(at(j) + at(j+1) + 1 - at(j+2) - at(j+3) - at(j+4))
		case 6:
			value += pos(at(j)+1-at(j+2)-at(j+4)) + (at(j)+at(j+2)+at(j+4))&1
		}
	}

	return value
}

// Satisfied reports whether chart c is regular enough under counts: zero
// irregularity for quads, at most one otherwise (a singularity on the
// boundary).
func Satisfied(t *chart.Topology, counts []int, c chart.ChartID) bool {
	limit := 1
	if t.Charts[c].Valence() == 4 {
		limit = 0
	}

	return Irregularity(t, counts, c) <= limit
}

// UpDown returns the counts on either side of the singularity line leaving
// side of chart c. Valences outside 3, 5 and 6 return zeros.
func UpDown(t *chart.Topology, counts []int, c chart.ChartID, side int) (up, down int) {
	s := t.SideSums(counts, c)
	v := len(s)
	at := func(j int) int { return s[(side+j)%v] }

	switch v {
	case 3:
		down = at(0) + at(2) - at(1)
		up = at(1) + at(0) - at(2)
	case 5:
		down = at(0) + at(1) + at(2) - at(3) - at(4)
		up = at(3) + at(4) + at(0) - at(1) - at(2)
	case 6:
		down = at(0) + at(2) - at(4)
		up = at(4) + at(0) - at(2)
	}

	return up, down
}

// Misalignment is |up0 - down1| + |down0 - up1| for p.
func Misalignment(t *chart.Topology, counts []int, p singularity.Pair) int {
	up0, down0 := UpDown(t, counts, p.Charts[0], p.Sides[0])
	up1, down1 := UpDown(t, counts, p.Charts[1], p.Sides[1])

	return abs(up0-down1) + abs(down0-up1)
}

// IsPairAligned reports whether the singularity line of p closes exactly:
// the up count of each end equals the down count of the other.
func IsPairAligned(t *chart.Topology, counts []int, p singularity.Pair) bool {
	return Misalignment(t, counts, p) == 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
