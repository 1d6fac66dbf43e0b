package chart

import (
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

type segmentDoc struct {
	Length   float64 `yaml:"length"`
	Vertices [2]int  `yaml:"vertices,flow"`
}

type chartDoc struct {
	EdgeLength float64       `yaml:"edgeLength"`
	Unused     bool          `yaml:"unused,omitempty"`
	Corners    []int         `yaml:"corners,flow,omitempty"`
	Sides      [][]SegmentID `yaml:"sides,flow"`
}

type topologyDoc struct {
	Segments []segmentDoc `yaml:"segments"`
	Charts   []chartDoc   `yaml:"charts"`
}

type patchDoc struct {
	Loop       []int   `yaml:"loop,flow"`
	Corners    []int   `yaml:"corners,flow"`
	EdgeLength float64 `yaml:"edgeLength"`
	Unused     bool    `yaml:"unused,omitempty"`
}

type surfaceDoc struct {
	Vertices [][3]float64 `yaml:"vertices,flow"`
	Patches  []patchDoc   `yaml:"patches"`
}

// ReadTopology decodes a YAML topology document and assembles it.
func ReadTopology(r io.Reader) (*Topology, error) {
	var doc topologyDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "chart: decode topology")
	}
	specs := make([]ChartSpec, len(doc.Charts))
	for i, c := range doc.Charts {
		specs[i] = ChartSpec{Sides: c.Sides, Corners: c.Corners, EdgeLength: c.EdgeLength, Unused: c.Unused}
	}
	segs := make([]SegmentSpec, len(doc.Segments))
	for i, s := range doc.Segments {
		segs[i] = SegmentSpec{Length: s.Length, Vertices: s.Vertices}
	}

	return Assemble(specs, segs)
}

// WriteTopology encodes t so that ReadTopology rebuilds an equal topology.
func WriteTopology(w io.Writer, t *Topology) error {
	doc := topologyDoc{
		Segments: make([]segmentDoc, len(t.Segments)),
		Charts:   make([]chartDoc, len(t.Charts)),
	}
	for i, s := range t.Segments {
		doc.Segments[i] = segmentDoc{Length: s.Length, Vertices: s.Vertices}
	}
	for i := range t.Charts {
		ch := &t.Charts[i]
		cd := chartDoc{EdgeLength: ch.EdgeLength, Unused: ch.Unused, Sides: make([][]SegmentID, len(ch.Sides))}
		for si, side := range ch.Sides {
			cd.Sides[si] = side.Segments
			if side.Vertices[0] >= 0 {
				cd.Corners = append(cd.Corners, side.Vertices[0])
			}
		}
		if len(cd.Corners) != len(ch.Sides) {
			cd.Corners = nil
		}
		doc.Charts[i] = cd
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "chart: encode topology")
	}

	return enc.Close()
}

// ReadSurface decodes a YAML surface document.
func ReadSurface(r io.Reader) (Surface, error) {
	var doc surfaceDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Surface{}, errors.Wrap(err, "chart: decode surface")
	}
	s := Surface{
		Vertices: make([]r3.Vec, len(doc.Vertices)),
		Patches:  make([]Patch, len(doc.Patches)),
	}
	for i, v := range doc.Vertices {
		s.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, p := range doc.Patches {
		s.Patches[i] = Patch{Loop: p.Loop, Corners: p.Corners, EdgeLength: p.EdgeLength, Unused: p.Unused}
	}

	return s, nil
}
