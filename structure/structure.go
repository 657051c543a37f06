// Package structure holds the protein-structure data model: ordered
// residues with representative-atom coordinates, domain ranges and
// per-residue secondary-structure classes.
package structure

import (
	"math"
	"sort"
)

// Point is a 3-D coordinate in angstroms.
type Point struct {
	X, Y, Z float64
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Residue is a single residue represented by its number in the chain
// and the coordinate of its C-alpha atom.
type Residue struct {
	Number int
	CA     Point
}

// Structure is an ordered list of residues of a single chain.
type Structure struct {
	ID       string
	Residues []Residue
}

// NResidues returns the number of residues.
func (s *Structure) NResidues() int {
	return len(s.Residues)
}

// Points returns the C-alpha coordinates in residue order.
func (s *Structure) Points() []Point {
	pts := make([]Point, len(s.Residues))
	for i, r := range s.Residues {
		pts[i] = r.CA
	}
	return pts
}

// IndexOfResidue returns the index of the residue with the given
// number. If the number is absent, the index of the closest
// preceding residue is returned. The second value is false only when
// the structure has no residue at or before the number.
func (s *Structure) IndexOfResidue(number int) (int, bool) {
	// residues are ordered by number
	i := sort.Search(len(s.Residues), func(i int) bool {
		return s.Residues[i].Number > number
	})
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}

// Range is a contiguous residue range, inclusive on both ends.
type Range struct {
	Start, End int
}

// Domain is an independently folding structural unit, possibly
// spanning several disjoint residue ranges.
type Domain struct {
	ID     string
	Ranges []Range
}

// Boundary returns the residue number of the domain's outermost
// boundary: the end of its last declared range. Disjoint ranges are
// not each independently a boundary.
func (d Domain) Boundary() (int, bool) {
	if len(d.Ranges) == 0 {
		return 0, false
	}
	return d.Ranges[len(d.Ranges)-1].End, true
}
