// Package retrieve resolves gene identifiers into nucleotide
// sequences, protein structures and domain lists. The analysis
// engine only depends on the Source contract; everything else here
// is plumbing around the external databases.
package retrieve

import (
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/turnlab/cubar/structure"
)

// log is the global logging variable.
var log = logging.MustGetLogger("retrieve")

// Source supplies the per-gene data the analysis engine consumes.
type Source interface {
	// Sequence returns the full nucleotide sequence for a gene
	// identifier.
	Sequence(id string) (string, error)
	// Structure returns the ordered residues of the structure mapped
	// from the gene identifier.
	Structure(id string) (*structure.Structure, error)
	// Domains returns all domains mapped from the gene identifier.
	Domains(id string) ([]structure.Domain, error)
	// SecondaryStructure assigns a secondary-structure class to
	// every residue of a structure.
	SecondaryStructure(s *structure.Structure) (map[int]structure.SecStrucType, error)
}

// LoadError is an error loading a required resource for a gene.
// During a batch evaluation it is recovered locally: the gene is
// skipped and logged.
type LoadError struct {
	Gene string
	Msg  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gene %s: %s: %v", e.Gene, e.Msg, e.Err)
	}
	return fmt.Sprintf("gene %s: %s", e.Gene, e.Msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
