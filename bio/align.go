package bio

// This file maps positions in a protein structure to codons in the
// gene that encodes it. The mapping is strictly positional: residue i
// corresponds to codon i, i.e. nucleotides [3i, 3i+3). There is no
// gap or indel model; insertions, deletions and alternative splicing
// are not handled.

// CodonAt returns the codon encoding residue i of the sequence. The
// second return value is false if the sequence has no complete codon
// at that index; the caller is expected to skip such a residue.
func CodonAt(seq string, i int) (string, bool) {
	if i < 0 || 3*i+3 > len(seq) {
		return "", false
	}
	return seq[3*i : 3*i+3], true
}

// FrameConsistent reports whether a nucleotide sequence of the given
// length codes for exactly nres residues. A mismatch usually means
// the sequence includes UTRs, or the structure covers only part of
// the chain.
func FrameConsistent(nres, seqLen int) bool {
	return seqLen/3 == nres
}
