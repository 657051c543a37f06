// Package correlate tests whether codon-level translational speed
// correlates with structural features of the encoded proteins. It
// classifies residues (near/far from a domain boundary, inside or
// outside beta sheets) and accumulates codon weights per class, or
// correlates per-gene scalar features against total codon weight.
package correlate

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"gonum.org/v1/gonum/stat"

	"bitbucket.org/turnlab/cubar/bio"
	"bitbucket.org/turnlab/cubar/retrieve"
	"bitbucket.org/turnlab/cubar/structure"
	"bitbucket.org/turnlab/cubar/weight"
)

// pkgLog is the default logger of the package.
var pkgLog = logging.MustGetLogger("correlate")

// AnalysisError reports a violated precondition of a whole
// evaluation call, as opposed to a per-gene failure.
type AnalysisError struct {
	Msg string
}

func (e *AnalysisError) Error() string {
	return e.Msg
}

// Correlations runs analyses over a configured list of gene
// identifiers. Genes are processed one at a time in list order; a
// failure on one gene is logged and never aborts the batch, so a
// returned Evaluation may cover fewer genes than were requested.
type Correlations struct {
	weights *weight.Table
	source  retrieve.Source
	names   []string

	// StrictFrame makes a sequence/structure length mismatch fatal
	// for the gene. By default the mismatch is logged and the
	// partially valid alignment is used.
	StrictFrame bool

	log *logging.Logger
}

// New creates a Correlations over a weight table and a data source.
func New(w *weight.Table, src retrieve.Source) *Correlations {
	return &Correlations{
		weights: w,
		source:  src,
		log:     pkgLog,
	}
}

// SetLogger replaces the logger used by the engine.
func (c *Correlations) SetLogger(l *logging.Logger) {
	c.log = l
}

// SetNames sets the list of gene identifiers to run on. Must be
// called before any evaluation.
func (c *Correlations) SetNames(names []string) {
	c.names = names
}

// ReadNames reads the gene identifier list from a reader, one
// identifier per line, ';' starting a comment line.
func (c *Correlations) ReadNames(rd io.Reader) error {
	names, err := bio.ParseNames(rd)
	if err != nil {
		return err
	}
	c.names = names
	return nil
}

// ReadNamesFile reads the gene identifier list from a file.
func (c *Correlations) ReadNamesFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.ReadNames(f)
}

// NNames returns the number of configured gene identifiers, for
// comparing against Evaluation.Len.
func (c *Correlations) NNames() int {
	return len(c.names)
}

func (c *Correlations) checkNames() error {
	if len(c.names) == 0 {
		return &AnalysisError{Msg: "gene list is not set"}
	}
	return nil
}

// checkFrame logs a sequence/structure length mismatch. It returns
// false when the gene should be skipped (strict mode only).
func (c *Correlations) checkFrame(name, seq string, s *structure.Structure) bool {
	if bio.FrameConsistent(s.NResidues(), len(seq)) {
		return true
	}
	c.log.Warningf("gene %s: sequence length %d does not match %d residues",
		name, len(seq), s.NResidues())
	return !c.StrictFrame
}

// EvaluateNearDomainBoundaries evaluates codon usage bias between
// residues within radius residues of a domain boundary (positive)
// and all other residues (negative). The boundary of a domain is the
// end of its last declared residue range. Genes with fewer than two
// domains are excluded from the evaluation.
func (c *Correlations) EvaluateNearDomainBoundaries(radius int) (*Evaluation, error) {
	if err := c.checkNames(); err != nil {
		return nil, err
	}

	eval := &Evaluation{}
	for _, name := range c.names {
		seq, s, err := c.load(name)
		if err != nil {
			c.log.Error(err)
			continue
		}
		domains, err := c.source.Domains(name)
		if err != nil {
			c.log.Error(err)
			continue
		}
		if len(domains) < 2 {
			c.log.Infof("skipping %s because only %d domain(s) were found", name, len(domains))
			continue
		}
		if !c.checkFrame(name, seq, s) {
			continue
		}

		positive := &Stats{}
		negative := &Stats{}
		for _, domain := range domains {
			boundary, ok := domain.Boundary()
			if !ok {
				continue
			}
			bIdx, ok := s.IndexOfResidue(boundary)
			if !ok {
				continue
			}
			for i := range s.Residues {
				w, ok := c.residueWeight(seq, i)
				if !ok {
					continue
				}
				dist := i - bIdx
				if dist < 0 {
					dist = -dist
				}
				if dist <= radius {
					positive.Add(w)
				} else {
					negative.Add(w)
				}
			}
		}

		c.log.Infof("gene %s: bias near boundaries is %.4f, bias outside is %.4f",
			name, positive.Mean(), negative.Mean())
		eval.Add(positive, negative)
	}
	return eval, nil
}

// EvaluateWithinBetaSheets evaluates codon usage bias between
// residues within beta sheets (positive) and all other residues
// (negative). Genes whose secondary structure cannot be assigned are
// skipped.
func (c *Correlations) EvaluateWithinBetaSheets() (*Evaluation, error) {
	if err := c.checkNames(); err != nil {
		return nil, err
	}

	eval := &Evaluation{}
	for _, name := range c.names {
		seq, s, err := c.load(name)
		if err != nil {
			c.log.Error(err)
			continue
		}
		classes, err := c.source.SecondaryStructure(s)
		if err != nil {
			c.log.Errorf("gene %s: %v", name, err)
			continue
		}
		if !c.checkFrame(name, seq, s) {
			continue
		}

		positive := &Stats{}
		negative := &Stats{}
		for i, r := range s.Residues {
			w, ok := c.residueWeight(seq, i)
			if !ok {
				continue
			}
			if classes[r.Number].IsBeta() {
				positive.Add(w)
			} else {
				negative.Add(w)
			}
		}

		c.log.Infof("gene %s: bias within sheets is %.4f, bias outside is %.4f",
			name, positive.Mean(), negative.Mean())
		eval.Add(positive, negative)
	}
	return eval, nil
}

// Correlate computes one scalar per gene with the feature function
// and pairs it with the gene's total codon weight. Genes whose data
// retrieval, feature computation or codon lookup fails are excluded
// from both vectors at the same index, so the vectors always have
// equal length.
func (c *Correlations) Correlate(feature Feature) (values, weights []float64, err error) {
	if err := c.checkNames(); err != nil {
		return nil, nil, err
	}

	for _, name := range c.names {
		seq, s, err := c.load(name)
		if err != nil {
			c.log.Error(err)
			continue
		}
		v, err := feature(s, seq)
		if err != nil {
			c.log.Errorf("gene %s: feature computation failed: %v", name, err)
			continue
		}
		sum, err := c.sumWeights(seq, s)
		if err != nil {
			c.log.Errorf("gene %s: %v", name, err)
			continue
		}
		values = append(values, v)
		weights = append(weights, sum)
	}
	return values, weights, nil
}

// CorrelateLength correlates codon usage bias with sequence length.
func (c *Correlations) CorrelateLength() (values, weights []float64, err error) {
	return c.Correlate(Length)
}

// CorrelateSparseness correlates codon usage bias with the mean
// distance of a C-alpha atom to its closest neighbor.
func (c *Correlations) CorrelateSparseness() (values, weights []float64, err error) {
	return c.Correlate(Sparseness)
}

// Pearson returns the Pearson correlation coefficient of two paired
// vectors, as produced by Correlate.
func Pearson(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

// load fetches the sequence and the structure for a gene.
func (c *Correlations) load(name string) (string, *structure.Structure, error) {
	seq, err := c.source.Sequence(name)
	if err != nil {
		return "", nil, err
	}
	s, err := c.source.Structure(name)
	if err != nil {
		return "", nil, err
	}
	return seq, s, nil
}

// residueWeight returns the codon weight of residue i. Residues
// beyond the last complete codon and residues whose codon is not in
// the table are skipped, not zero-filled.
func (c *Correlations) residueWeight(seq string, i int) (float64, bool) {
	codon, ok := bio.CodonAt(seq, i)
	if !ok {
		return 0, false
	}
	w, err := c.weights.Get(codon)
	if err != nil {
		c.log.Debugf("skipping residue %d: %v", i, err)
		return 0, false
	}
	return w, true
}

// sumWeights returns the total codon weight over all aligned
// residues. Residues without a complete codon are skipped; an
// unknown codon fails the whole gene, since a total built from a
// broken frame is meaningless.
func (c *Correlations) sumWeights(seq string, s *structure.Structure) (float64, error) {
	sum := 0.0
	for i := range s.Residues {
		codon, ok := bio.CodonAt(seq, i)
		if !ok {
			continue
		}
		w, err := c.weights.Get(codon)
		if err != nil {
			return 0, err
		}
		sum += w
	}
	return sum, nil
}
