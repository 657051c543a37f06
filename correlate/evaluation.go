package correlate

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Stats accumulates scalar observations and reports count, mean and
// standard deviation.
type Stats struct {
	values []float64
}

// Add appends an observation.
func (s *Stats) Add(v float64) {
	s.values = append(s.values, v)
}

// N returns the number of observations.
func (s *Stats) N() int {
	return len(s.values)
}

// Mean returns the arithmetic mean, NaN for an empty set.
func (s *Stats) Mean() float64 {
	return stat.Mean(s.values, nil)
}

// StdDev returns the sample standard deviation: 0 for a single
// observation, NaN for an empty set.
func (s *Stats) StdDev() float64 {
	if len(s.values) == 1 {
		return 0
	}
	return stat.StdDev(s.values, nil)
}

// Evaluation describes how codon usage bias differs between two
// classes of residues across a population of genes. One
// (positive, negative) statistics pair is appended per successfully
// processed gene; the collection is append-only and every gene
// contributes equally regardless of its residue count.
type Evaluation struct {
	pairs []statsPair
}

type statsPair struct {
	positive, negative *Stats
}

// Add appends the statistics pair of one gene.
func (e *Evaluation) Add(positive, negative *Stats) {
	e.pairs = append(e.pairs, statsPair{positive, negative})
}

// Len returns the number of genes in the evaluation. An evaluation
// shorter than the requested gene list is valid output: it covers
// the genes that could be processed.
func (e *Evaluation) Len() int {
	return len(e.pairs)
}

// ClassSummary holds across-gene statistics of per-gene statistics
// for one class: the mean of the per-gene means and the mean of the
// per-gene standard deviations.
type ClassSummary struct {
	Genes       int     `json:"genes"`
	MeanOfMeans float64 `json:"meanOfMeans"`
	MeanOfSDs   float64 `json:"meanOfSDs"`
}

// PositiveMeans returns the per-gene mean codon weights of the
// positive class.
func (e *Evaluation) PositiveMeans() []float64 {
	means := make([]float64, len(e.pairs))
	for i, p := range e.pairs {
		means[i] = p.positive.Mean()
	}
	return means
}

// NegativeMeans returns the per-gene mean codon weights of the
// negative class.
func (e *Evaluation) NegativeMeans() []float64 {
	means := make([]float64, len(e.pairs))
	for i, p := range e.pairs {
		means[i] = p.negative.Mean()
	}
	return means
}

// Positive summarizes the positive class across genes.
func (e *Evaluation) Positive() ClassSummary {
	return e.summarize(func(p statsPair) *Stats { return p.positive })
}

// Negative summarizes the negative class across genes.
func (e *Evaluation) Negative() ClassSummary {
	return e.summarize(func(p statsPair) *Stats { return p.negative })
}

func (e *Evaluation) summarize(class func(statsPair) *Stats) ClassSummary {
	means := make([]float64, len(e.pairs))
	sds := make([]float64, len(e.pairs))
	for i, p := range e.pairs {
		s := class(p)
		means[i] = s.Mean()
		sds[i] = s.StdDev()
	}
	return ClassSummary{
		Genes:       len(e.pairs),
		MeanOfMeans: stat.Mean(means, nil),
		MeanOfSDs:   stat.Mean(sds, nil),
	}
}

// String formats the evaluation as "positive mean / negative mean".
func (e *Evaluation) String() string {
	return fmt.Sprintf("%.4f / %.4f", e.Positive().MeanOfMeans, e.Negative().MeanOfMeans)
}
