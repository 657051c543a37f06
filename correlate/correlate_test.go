package correlate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/turnlab/cubar/retrieve"
	"bitbucket.org/turnlab/cubar/structure"
	"bitbucket.org/turnlab/cubar/weight"
)

const smallDiff = 1e-9

func init() {
	// the test tables are deliberately truncated
	logging.SetLevel(logging.ERROR, "weight")
	logging.SetLevel(logging.CRITICAL, "correlate")
}

// testTable is a two-group table with easy weights:
// AAA=1.5, AAG=0.5, AUG=1.
const testTable = `!Lys
AAA	0.75
AAG	0.25
!Met
AUG	1.0
`

func testWeights(t *testing.T) *weight.Table {
	tbl, err := weight.Read(strings.NewReader(testTable))
	if err != nil {
		t.Fatal("Error: ", err)
	}
	return tbl
}

// stubSource serves canned per-gene data and fails with LoadError
// for anything it does not know.
type stubSource struct {
	seqs    map[string]string
	structs map[string]*structure.Structure
	domains map[string][]structure.Domain
	classes map[string]map[int]structure.SecStrucType
}

func (s *stubSource) Sequence(id string) (string, error) {
	seq, ok := s.seqs[id]
	if !ok {
		return "", &retrieve.LoadError{Gene: id, Msg: "no sequence"}
	}
	return seq, nil
}

func (s *stubSource) Structure(id string) (*structure.Structure, error) {
	st, ok := s.structs[id]
	if !ok {
		return nil, &retrieve.LoadError{Gene: id, Msg: "no structure"}
	}
	return st, nil
}

func (s *stubSource) Domains(id string) ([]structure.Domain, error) {
	ds, ok := s.domains[id]
	if !ok {
		return nil, &retrieve.LoadError{Gene: id, Msg: "no domains"}
	}
	return ds, nil
}

func (s *stubSource) SecondaryStructure(st *structure.Structure) (map[int]structure.SecStrucType, error) {
	classes, ok := s.classes[st.ID]
	if !ok {
		return nil, &retrieve.LoadError{Gene: st.ID, Msg: "no secondary structure"}
	}
	return classes, nil
}

// testStruct builds a structure with n residues numbered from 1.
func testStruct(id string, n int) *structure.Structure {
	s := &structure.Structure{ID: id}
	for i := 0; i < n; i++ {
		s.Residues = append(s.Residues, structure.Residue{
			Number: i + 1,
			CA:     structure.Point{X: 3.8 * float64(i)},
		})
	}
	return s
}

func TestNamesNotSet(t *testing.T) {
	c := New(testWeights(t), &stubSource{})

	var aerr *AnalysisError
	if _, err := c.EvaluateNearDomainBoundaries(5); !errors.As(err, &aerr) {
		t.Error("Expected AnalysisError, got", err)
	}
	if _, err := c.EvaluateWithinBetaSheets(); !errors.As(err, &aerr) {
		t.Error("Expected AnalysisError, got", err)
	}
	if _, _, err := c.Correlate(Length); !errors.As(err, &aerr) {
		t.Error("Expected AnalysisError, got", err)
	}
}

func TestSingleDomainExcluded(t *testing.T) {
	src := &stubSource{
		seqs:    map[string]string{"g1": strings.Repeat("AAA", 10)},
		structs: map[string]*structure.Structure{"g1": testStruct("g1", 10)},
		domains: map[string][]structure.Domain{
			"g1": {{ID: "d1", Ranges: []structure.Range{{Start: 1, End: 10}}}},
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1"})

	eval, err := c.EvaluateNearDomainBoundaries(5)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 0 {
		t.Error("Expected the gene to be excluded, got", eval.Len(), "entries")
	}
}

func TestBoundaryClassification(t *testing.T) {
	// residues 9 and 10 (near the boundary) are fast codons, the
	// rest slow ones
	seq := strings.Repeat("AAG", 8) + strings.Repeat("AAA", 2)
	src := &stubSource{
		seqs:    map[string]string{"g1": seq},
		structs: map[string]*structure.Structure{"g1": testStruct("g1", 10)},
		domains: map[string][]structure.Domain{
			"g1": {
				// the boundary is the end of the *last* range only
				{ID: "d1", Ranges: []structure.Range{{Start: 1, End: 5}, {Start: 8, End: 10}}},
				{ID: "d2", Ranges: []structure.Range{{Start: 1, End: 10}}},
			},
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1"})

	eval, err := c.EvaluateNearDomainBoundaries(1)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 1 {
		t.Fatal("Expected 1 entry, got", eval.Len())
	}

	pair := eval.pairs[0]
	// 2 positive residues per domain, 8 negative per domain
	if pair.positive.N() != 4 || pair.negative.N() != 16 {
		t.Error("Wrong counts: ", pair.positive.N(), pair.negative.N())
	}
	if math.Abs(pair.positive.Mean()-1.5) > smallDiff {
		t.Error("Expected positive mean 1.5, got", pair.positive.Mean())
	}
	if math.Abs(pair.negative.Mean()-0.5) > smallDiff {
		t.Error("Expected negative mean 0.5, got", pair.negative.Mean())
	}
}

func TestBoundarySkipsUnknownCodon(t *testing.T) {
	// CCC is not in the test table: residue 2 is skipped, the gene
	// is kept
	src := &stubSource{
		seqs:    map[string]string{"g1": "AAACCCAAG"},
		structs: map[string]*structure.Structure{"g1": testStruct("g1", 3)},
		domains: map[string][]structure.Domain{
			"g1": {
				{ID: "d1", Ranges: []structure.Range{{Start: 1, End: 3}}},
				{ID: "d2", Ranges: []structure.Range{{Start: 1, End: 3}}},
			},
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1"})

	eval, err := c.EvaluateNearDomainBoundaries(1)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 1 {
		t.Fatal("Expected 1 entry, got", eval.Len())
	}

	pair := eval.pairs[0]
	// residues 1 (far) and 3 (near) classified per domain
	if pair.positive.N()+pair.negative.N() != 4 {
		t.Error("Wrong counts: ", pair.positive.N(), pair.negative.N())
	}
	if math.Abs(pair.positive.Mean()-0.5) > smallDiff {
		t.Error("Expected positive mean 0.5, got", pair.positive.Mean())
	}
	if math.Abs(pair.negative.Mean()-1.5) > smallDiff {
		t.Error("Expected negative mean 1.5, got", pair.negative.Mean())
	}
}

func TestFrameMismatchPolicy(t *testing.T) {
	// 5 residues but only 3 codons
	src := &stubSource{
		seqs:    map[string]string{"g1": strings.Repeat("AAA", 3)},
		structs: map[string]*structure.Structure{"g1": testStruct("g1", 5)},
		domains: map[string][]structure.Domain{
			"g1": {
				{ID: "d1", Ranges: []structure.Range{{Start: 1, End: 3}}},
				{ID: "d2", Ranges: []structure.Range{{Start: 4, End: 5}}},
			},
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1"})

	// default: mismatch is reported, the partial alignment is used
	eval, err := c.EvaluateNearDomainBoundaries(1)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 1 {
		t.Fatal("Expected 1 entry, got", eval.Len())
	}
	pair := eval.pairs[0]
	// residues 4 and 5 have no codon: 3 classified residues per domain
	if pair.positive.N()+pair.negative.N() != 6 {
		t.Error("Wrong counts: ", pair.positive.N(), pair.negative.N())
	}

	// strict: the gene is skipped
	c.StrictFrame = true
	eval, err = c.EvaluateNearDomainBoundaries(1)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 0 {
		t.Error("Expected the gene to be skipped, got", eval.Len(), "entries")
	}
}

func TestBetaSheets(t *testing.T) {
	// residues 3 and 4 are beta, fast codons; others coil, slow
	seq := "AAGAAG" + "AAAAAA" + "AAGAAG"
	src := &stubSource{
		seqs: map[string]string{
			"good": seq,
			"bad":  strings.Repeat("AAA", 6),
		},
		structs: map[string]*structure.Structure{
			"good": testStruct("good", 6),
			// "bad" has a sequence but no structure
		},
		classes: map[string]map[int]structure.SecStrucType{
			"good": {
				1: structure.Coil, 2: structure.Coil,
				3: structure.Extended, 4: structure.Bridge,
				5: structure.Coil, 6: structure.Helix,
			},
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"bad", "good"})

	eval, err := c.EvaluateWithinBetaSheets()
	if err != nil {
		t.Fatal("Error: ", err)
	}
	// only the succeeding gene contributes
	if eval.Len() != 1 {
		t.Fatal("Expected 1 entry, got", eval.Len())
	}

	pair := eval.pairs[0]
	if pair.positive.N() != 2 || pair.negative.N() != 4 {
		t.Error("Wrong counts: ", pair.positive.N(), pair.negative.N())
	}
	if math.Abs(pair.positive.Mean()-1.5) > smallDiff {
		t.Error("Expected positive mean 1.5, got", pair.positive.Mean())
	}
	if math.Abs(pair.negative.Mean()-0.5) > smallDiff {
		t.Error("Expected negative mean 0.5, got", pair.negative.Mean())
	}
}

func TestBetaSheetsSkipsOnAssignmentFailure(t *testing.T) {
	src := &stubSource{
		seqs:    map[string]string{"g1": strings.Repeat("AAA", 6)},
		structs: map[string]*structure.Structure{"g1": testStruct("g1", 6)},
		// no classes for g1
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1"})

	eval, err := c.EvaluateWithinBetaSheets()
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if eval.Len() != 0 {
		t.Error("Expected the gene to be skipped, got", eval.Len(), "entries")
	}
}

func TestCorrelateVectorsStayAligned(t *testing.T) {
	src := &stubSource{
		seqs: map[string]string{
			"g1": "AAAAAGAAAAAG", // 4 codons, total weight 4
			"g2": strings.Repeat("AAA", 5),
			"g3": "AUGAUG", // 2 codons, total weight 2
		},
		structs: map[string]*structure.Structure{
			"g1": testStruct("g1", 4),
			// g2 has no structure
			"g3": testStruct("g3", 2),
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1", "g2", "g3"})

	values, totals, err := c.CorrelateLength()
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if len(values) != len(totals) {
		t.Fatal("Vectors differ in length: ", len(values), len(totals))
	}
	if len(values) != 2 {
		t.Fatal("Expected 2 entries, got", len(values))
	}
	if values[0] != 4 || values[1] != 2 {
		t.Error("Wrong feature values: ", values)
	}
	if math.Abs(totals[0]-4) > smallDiff || math.Abs(totals[1]-2) > smallDiff {
		t.Error("Wrong total weights: ", totals)
	}
}

func TestCorrelateSkipsGeneOnUnknownCodon(t *testing.T) {
	src := &stubSource{
		seqs: map[string]string{
			"g1": "AAACCCAAA", // CCC is not in the test table
			"g2": "AUGAUG",
		},
		structs: map[string]*structure.Structure{
			"g1": testStruct("g1", 3),
			"g2": testStruct("g2", 2),
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"g1", "g2"})

	values, totals, err := c.Correlate(Length)
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if len(values) != 1 || len(totals) != 1 {
		t.Fatal("Expected 1 entry, got", len(values), len(totals))
	}
	if values[0] != 2 {
		t.Error("Wrong feature value: ", values)
	}
}

func TestSparsenessNeedsNeighbors(t *testing.T) {
	src := &stubSource{
		seqs: map[string]string{
			"tiny": "AAA",
			"g2":   strings.Repeat("AAA", 4),
		},
		structs: map[string]*structure.Structure{
			"tiny": testStruct("tiny", 1),
			"g2":   testStruct("g2", 4),
		},
	}
	c := New(testWeights(t), src)
	c.SetNames([]string{"tiny", "g2"})

	// a single-residue structure has no sparseness and is skipped
	values, totals, err := c.CorrelateSparseness()
	if err != nil {
		t.Fatal("Error: ", err)
	}
	if len(values) != 1 || len(totals) != 1 {
		t.Fatal("Expected 1 entry, got", len(values), len(totals))
	}
	if math.Abs(values[0]-3.8) > smallDiff {
		t.Error("Wrong sparseness: ", values)
	}
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	if r := Pearson(x, y); math.Abs(r-1) > smallDiff {
		t.Error("Expected 1, got", r)
	}
	y = []float64{8, 6, 4, 2}
	if r := Pearson(x, y); math.Abs(r+1) > smallDiff {
		t.Error("Expected -1, got", r)
	}
}
