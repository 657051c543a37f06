package correlate

import (
	"fmt"
	"math"

	"bitbucket.org/turnlab/cubar/structure"
)

// Feature computes one scalar per gene from its structure and
// nucleotide sequence. The value is correlated against the gene's
// total codon weight.
type Feature func(s *structure.Structure, seq string) (float64, error)

// Length is the residue count of the structure.
func Length(s *structure.Structure, seq string) (float64, error) {
	return float64(s.NResidues()), nil
}

// Sparseness is the mean distance from each C-alpha atom to its
// nearest neighbor: an alignment-free estimate of inverse packing
// density, insensitive to chain length.
func Sparseness(s *structure.Structure, seq string) (float64, error) {
	pts := s.Points()
	// a single residue has no neighbor to measure against
	if len(pts) < 2 {
		return 0, fmt.Errorf("%d residue(s) are too few for a nearest-neighbor distance", len(pts))
	}
	return NearestDistance(pts, pts), nil
}

// NearestDistance returns the mean nearest-neighbor distance between
// two point sets: for every point of a the distance to the closest
// point of b, and symmetrically, averaged over all points. When a
// and b are the same set, a point is never matched against itself;
// the exclusion is by index, so coincident points still contribute
// their distance to the nearest other point.
func NearestDistance(a, b []structure.Point) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	same := sameSet(a, b)

	bestA := make([]float64, len(a))
	bestB := make([]float64, len(b))
	for i := range bestA {
		bestA[i] = math.Inf(1)
	}
	for j := range bestB {
		bestB[j] = math.Inf(1)
	}

	for i := range a {
		for j := range b {
			if same && i == j {
				continue
			}
			d := a[i].Dist(b[j])
			if d < bestA[i] {
				bestA[i] = d
			}
			if d < bestB[j] {
				bestB[j] = d
			}
		}
	}

	total := 0.0
	for _, d := range bestA {
		total += d
	}
	for _, d := range bestB {
		total += d
	}
	return total / float64(len(a)+len(b))
}

// sameSet reports whether a and b are the same slice.
func sameSet(a, b []structure.Point) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
