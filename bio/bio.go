// Package bio provides functions related to the genetic code and
// nucleotide sequences.
package bio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

var (
	// GeneticCode is a map, codon string (RNA alphabet, capital
	// letters) is the key, amino acids (capital letter) are values.
	// '_' marks a stop codon.
	GeneticCode = map[string]byte{
		"AUA": 'I', "AUC": 'I', "AUU": 'I', "AUG": 'M',
		"ACA": 'T', "ACC": 'T', "ACG": 'T', "ACU": 'T',
		"AAC": 'N', "AAU": 'N', "AAA": 'K', "AAG": 'K',
		"AGC": 'S', "AGU": 'S', "AGA": 'R', "AGG": 'R',
		"CUA": 'L', "CUC": 'L', "CUG": 'L', "CUU": 'L',
		"CCA": 'P', "CCC": 'P', "CCG": 'P', "CCU": 'P',
		"CAC": 'H', "CAU": 'H', "CAA": 'Q', "CAG": 'Q',
		"CGA": 'R', "CGC": 'R', "CGG": 'R', "CGU": 'R',
		"GUA": 'V', "GUC": 'V', "GUG": 'V', "GUU": 'V',
		"GCA": 'A', "GCC": 'A', "GCG": 'A', "GCU": 'A',
		"GAC": 'D', "GAU": 'D', "GAA": 'E', "GAG": 'E',
		"GGA": 'G', "GGC": 'G', "GGG": 'G', "GGU": 'G',
		"UCA": 'S', "UCC": 'S', "UCG": 'S', "UCU": 'S',
		"UUC": 'F', "UUU": 'F', "UUA": 'L', "UUG": 'L',
		"UAC": 'Y', "UAU": 'Y', "UAA": '_', "UAG": '_',
		"UGC": 'C', "UGU": 'C', "UGA": '_', "UGG": 'W'}
	// RGeneticCode is mapping amino acids to their synonymous codons.
	RGeneticCode map[byte][]string
)

func init() {
	// initialize RGeneticCode
	RGeneticCode = make(map[byte][]string, 21)
	for codon, aa := range GeneticCode {
		RGeneticCode[aa] = append(RGeneticCode[aa], codon)
	}
}

// NormalizeCodon converts a codon to the canonical form used as a key
// everywhere in this package: capital letters, DNA thymine replaced
// by uracil.
func NormalizeCodon(codon string) string {
	return strings.Replace(strings.ToUpper(codon), "T", "U", -1)
}

// Translate translates nucleotide sequence string into the protein
// string. Error is returned if sequence is not divisible by three,
// non-terminal stop-codon is found or wrong codon is encountered.
func Translate(nseq string) (string, error) {
	var buffer bytes.Buffer

	if len(nseq)%3 != 0 {
		return "", errors.New("sequence length doesn't divide by 3")
	}

	nseq = NormalizeCodon(nseq)

	for i := 0; i < len(nseq); i += 3 {
		aa := GeneticCode[nseq[i:i+3]]
		if aa == 0 {
			return buffer.String(), errors.New("unknown codon")
		} else if aa == '_' {
			if i+3 >= len(nseq) {
				// it's ok if this is the last codon
				break
			}
			return buffer.String(), errors.New("premature stop codon")
		}
		buffer.WriteByte(aa)
	}
	return buffer.String(), nil
}

// IsStopCodon tests if the string is a stop-codon (RNA alphabet,
// capital letters).
func IsStopCodon(codon string) bool {
	return GeneticCode[codon] == '_'
}

// Sequence is a type which is intended for storing nucleotide or
// protein sequence with it's name.
type Sequence struct {
	Name     string
	Sequence string
}

// Sequences stores multiple sequences.
type Sequences []Sequence

// ParseFasta parses FASTA sequences from a reader.
func ParseFasta(rd io.Reader) (seqs Sequences, err error) {
	seqs = make(Sequences, 0, 10)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			seq := Sequence{Name: line[1:]}
			seqs = append(seqs, seq)
		} else {
			if len(seqs) == 0 {
				return nil, errors.New("sequence w/o prefix")
			}
			line = strings.ToUpper(strings.Replace(line, " ", "", -1))
			seqs[len(seqs)-1].Sequence += line
		}
	}
	return
}

// ParseNames parses a line-by-line list of gene identifiers. Blank
// lines and lines starting with ';' are ignored.
func ParseNames(rd io.Reader) (names []string, err error) {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

// Wrap inputs a string and wraps it so string length is n characters
// or less.
func Wrap(seq string, n int) (s string) {
	for i := 0; i < len(seq); i += n {
		end := i + n
		if end > len(seq) {
			end = len(seq)
		}
		s += seq[i:end] + "\n"
	}
	return
}

// String returns a sequence in FASTA format.
func (seq Sequence) String() (s string) {
	s = ">" + seq.Name + "\n" + Wrap(seq.Sequence, 80)
	return
}

// String returns sequences in FASTA format.
func (seqs Sequences) String() (s string) {
	for _, seq := range seqs {
		s += seq.String()
	}
	return s[:len(s)-1]
}
