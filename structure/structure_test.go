package structure

import (
	"math"
	"testing"
)

const smallDiff = 1e-9

func TestPointDist(t *testing.T) {
	p := Point{0, 0, 0}
	q := Point{3, 4, 0}
	if d := p.Dist(q); math.Abs(d-5) > smallDiff {
		t.Error("Expected 5, got", d)
	}
	if d := p.Dist(p); d != 0 {
		t.Error("Expected 0, got", d)
	}
}

func chain(numbers ...int) *Structure {
	s := &Structure{ID: "test"}
	for i, n := range numbers {
		s.Residues = append(s.Residues, Residue{Number: n, CA: Point{X: float64(i)}})
	}
	return s
}

func TestIndexOfResidue(t *testing.T) {
	s := chain(2, 4, 6, 10)

	if i, ok := s.IndexOfResidue(4); !ok || i != 1 {
		t.Error("Expected index 1, got", i, ok)
	}
	// absent number: closest preceding residue
	if i, ok := s.IndexOfResidue(7); !ok || i != 2 {
		t.Error("Expected index 2, got", i, ok)
	}
	if i, ok := s.IndexOfResidue(100); !ok || i != 3 {
		t.Error("Expected index 3, got", i, ok)
	}
	// before the first residue
	if _, ok := s.IndexOfResidue(1); ok {
		t.Error("Expected no index before the first residue")
	}
}

func TestDomainBoundary(t *testing.T) {
	d := Domain{ID: "d1", Ranges: []Range{{1, 40}, {80, 120}}}
	b, ok := d.Boundary()
	if !ok || b != 120 {
		t.Error("Expected boundary 120, got", b, ok)
	}

	if _, ok := (Domain{ID: "empty"}).Boundary(); ok {
		t.Error("Expected no boundary for a domain without ranges")
	}
}
