package structure

import (
	"errors"
)

// SecStrucType is a per-residue secondary-structure class.
type SecStrucType byte

// Secondary-structure classes. Extended and Bridge jointly denote
// beta-sheet participation.
const (
	Coil SecStrucType = iota
	Helix
	Extended
	Bridge
	Turn
)

// String returns the one-letter code of the class (DSSP-style).
func (t SecStrucType) String() string {
	switch t {
	case Helix:
		return "H"
	case Extended:
		return "E"
	case Bridge:
		return "B"
	case Turn:
		return "T"
	}
	return " "
}

// IsBeta reports whether the class belongs to a beta sheet.
func (t SecStrucType) IsBeta() bool {
	return t == Extended || t == Bridge
}

// C-alpha distance windows for assignment, following the P-SEA
// criteria (Labesse et al. 1997). dN is the distance between
// residues i and i+N.
const (
	helixD2Min, helixD2Max = 5.1, 6.4
	helixD3Min, helixD3Max = 4.8, 6.1
	strandD2Min            = 6.4
	strandD3Min            = 9.1
)

// minAssignable is the smallest chain for which distances d2 and d3
// exist for at least one residue.
const minAssignable = 4

// AssignSecondary assigns a secondary-structure class to every
// residue from C-alpha geometry alone. Strand runs of length below
// three are reported as isolated bridges rather than extended
// strands. An error is returned when the chain is too short to
// assign anything.
func AssignSecondary(s *Structure) (map[int]SecStrucType, error) {
	n := len(s.Residues)
	if n < minAssignable {
		return nil, errors.New("too few residues to assign secondary structure")
	}

	classes := make([]SecStrucType, n)
	for i := 0; i+3 < n; i++ {
		d2 := s.Residues[i].CA.Dist(s.Residues[i+2].CA)
		d3 := s.Residues[i].CA.Dist(s.Residues[i+3].CA)
		switch {
		case d2 >= helixD2Min && d2 <= helixD2Max && d3 >= helixD3Min && d3 <= helixD3Max:
			classes[i] = Helix
		case d2 >= strandD2Min && d3 >= strandD3Min:
			classes[i] = Extended
		}
	}

	// demote short strand runs to bridges
	for i := 0; i < n; {
		if classes[i] != Extended {
			i++
			continue
		}
		j := i
		for j < n && classes[j] == Extended {
			j++
		}
		if j-i < 3 {
			for k := i; k < j; k++ {
				classes[k] = Bridge
			}
		}
		i = j
	}

	m := make(map[int]SecStrucType, n)
	for i, r := range s.Residues {
		m[r.Number] = classes[i]
	}
	return m, nil
}
