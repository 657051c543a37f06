// Package weight converts codon usage frequencies into relative
// translational speed weights. For every amino acid the weights of
// its synonymous codons average to one, so a weight of 1 carries no
// information, above 1 means faster than the group average, below 1
// slower.
package weight

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"bitbucket.org/turnlab/cubar/bio"
)

// log is the global logging variable.
var log = logging.MustGetLogger("weight")

const (
	// nGroups is the expected number of amino-acid groups (20 amino
	// acids plus the stop group).
	nGroups = 21
	// nCodons is the expected total number of codons.
	nCodons = 64
	// sumTolerance is the allowed deviation of raw group frequencies
	// from one.
	sumTolerance = 0.01
)

// ConfigError is returned when a frequency table cannot be parsed.
type ConfigError struct {
	Line int
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("frequency table line %d: %s", e.Line, e.Msg)
}

// UnknownCodonError is returned by Get for a codon which is not
// present in the table. Upstream this usually indicates a
// frame-shifted or truncated read rather than a malformed table.
type UnknownCodonError struct {
	Codon string
}

func (e *UnknownCodonError) Error() string {
	return fmt.Sprintf("codon %q does not exist", e.Codon)
}

// Table is an immutable mapping of codons to their speed weights. It
// is safe for concurrent readers.
type Table struct {
	weights map[string]float64
	groups  map[string][]string
}

// Read parses a frequency table from a reader and normalizes it into
// a weight table. The format is line oriented: blank lines are
// ignored, lines starting with ';' are comments, a line starting
// with '!' opens a new amino-acid group named by the rest of the
// line, any other line is a CODON<TAB>FREQUENCY pair belonging to
// the open group.
func Read(rd io.Reader) (*Table, error) {
	raw := make(map[string]map[string]float64)
	order := make([]string, 0, nGroups)

	scanner := bufio.NewScanner(rd)
	group := ""
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			group = strings.TrimSpace(line[1:])
			log.Debugf("amino acid %s", group)
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			return nil, &ConfigError{Line: lineno, Msg: fmt.Sprintf("couldn't parse line %q", line)}
		}
		f, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, &ConfigError{Line: lineno, Msg: fmt.Sprintf("bad frequency %q", parts[1])}
		}
		if raw[group] == nil {
			raw[group] = make(map[string]float64)
			order = append(order, group)
		}
		raw[group][bio.NormalizeCodon(parts[0])] = f
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Line: lineno, Msg: err.Error()}
	}

	// sanity checks; deviations are reported, not rejected
	if len(raw) != nGroups {
		log.Warningf("%d amino-acid groups were found (including stop codons, should be %d)", len(raw), nGroups)
	}
	total := 0
	for _, g := range order {
		total += len(raw[g])
		sum := 0.0
		for _, f := range raw[g] {
			sum += f
		}
		if math.Abs(sum-1) > sumTolerance {
			log.Warningf("codon frequencies for %s sum to %v", g, sum)
		}
	}
	if total != nCodons {
		log.Warningf("%d codons were found (should be %d)", total, nCodons)
	}

	// normalize by amino acid: make the mean codon weight of every
	// group equal to one
	t := &Table{
		weights: make(map[string]float64, total),
		groups:  make(map[string][]string, len(raw)),
	}
	for _, g := range order {
		mean := 0.0
		for _, f := range raw[g] {
			mean += f
		}
		mean /= float64(len(raw[g]))
		for codon, f := range raw[g] {
			t.weights[codon] = f / mean
			t.groups[g] = append(t.groups[g], codon)
		}
	}
	return t, nil
}

// ReadFile parses a frequency table from a file.
func ReadFile(fn string) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, &ConfigError{Msg: err.Error()}
	}
	defer f.Close()
	return Read(f)
}

// Get returns the speed weight of a codon. The codon is normalized
// (capitalized, T replaced by U) before lookup.
func (t *Table) Get(codon string) (float64, error) {
	w, ok := t.weights[bio.NormalizeCodon(codon)]
	if !ok {
		return 0, &UnknownCodonError{Codon: codon}
	}
	return w, nil
}

// Groups returns the group names and their codons. The result shares
// storage with the table and must not be modified.
func (t *Table) Groups() map[string][]string {
	return t.groups
}

// NWeights returns the number of codons in the table.
func (t *Table) NWeights() int {
	return len(t.weights)
}

// Species is the name of a species with a bundled frequency table.
type Species string

// Known species.
const (
	EColi       Species = "E. coli"
	SCerevisiae Species = "S. cerevisiae"
)

// FileName returns the frequency-table file name for the species,
// e.g. "e_coli.codons" for E. coli.
func (s Species) FileName() string {
	name := strings.ToLower(string(s))
	name = strings.Replace(name, ".", "_", -1)
	name = strings.Join(strings.Fields(name), "")
	return name + ".codons"
}

// ForSpecies loads the frequency table for a species from a
// directory of .codons files.
func ForSpecies(dir string, s Species) (*Table, error) {
	return ReadFile(filepath.Join(dir, s.FileName()))
}
