package retrieve

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"bitbucket.org/turnlab/cubar/bio"
	"bitbucket.org/turnlab/cubar/structure"
)

// Default service endpoints.
const (
	uniprotServer = "https://www.uniprot.org"
	entrezEfetch  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi?db=nuccore&rettype=fasta&retmode=text&id="
	pdbDownload   = "https://files.rcsb.org/download"
)

// WebSource resolves gene identifiers through the UniProt mapping
// service, fetches nucleotide sequences from Entrez, structures from
// the PDB and domains from a local SCOP classification file.
// Retrying, rate limiting and authentication are deliberately left
// to the services themselves.
type WebSource struct {
	client *http.Client

	// UniProtURL, EfetchURL and PDBURL override the default
	// endpoints; used by tests.
	UniProtURL string
	EfetchURL  string
	PDBURL     string

	// domains maps a PDB id (lower case) to its SCOP domains.
	domains map[string][]structure.Domain
}

// NewWebSource creates a WebSource. scopClaFile is the path to a
// SCOP classification (dir.cla) file used for domain lookup; it may
// be empty, in which case Domains always fails.
func NewWebSource(scopClaFile string) (*WebSource, error) {
	s := &WebSource{
		client:     http.DefaultClient,
		UniProtURL: uniprotServer,
		EfetchURL:  entrezEfetch,
		PDBURL:     pdbDownload,
	}
	if scopClaFile != "" {
		f, err := os.Open(scopClaFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		s.domains, err = ParseScopCla(f)
		if err != nil {
			return nil, err
		}
		log.Infof("read SCOP classification for %d PDB entries", len(s.domains))
	}
	return s, nil
}

// get fetches a URL and returns the body.
func (s *WebSource) get(location string) (string, error) {
	resp, err := s.client.Get(location)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", location, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// mapID queries the UniProt mapping service and returns the first
// mapped identifier from its tab-separated response.
func (s *WebSource) mapID(from, to, query string) (string, error) {
	v := url.Values{}
	v.Set("from", from)
	v.Set("to", to)
	v.Set("format", "tab")
	v.Set("query", query)
	body, err := s.get(s.UniProtURL + "/mapping/?" + v.Encode())
	if err != nil {
		return "", err
	}
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("no mapping from %s to %s for %q", from, to, query)
	}
	fields := strings.Split(lines[1], "\t")
	if len(fields) < 2 {
		return "", fmt.Errorf("couldn't parse mapping output %q", lines[1])
	}
	return fields[1], nil
}

// Sequence implements Source. The gene identifier is mapped to a
// UniProt id, then to a RefSeq nucleotide id, which is fetched from
// Entrez in FASTA format.
func (s *WebSource) Sequence(id string) (string, error) {
	uniprot, err := s.mapID("P_ENTREZGENEID", "ID", id)
	if err != nil {
		return "", &LoadError{Gene: id, Msg: "mapping to UniProt failed", Err: err}
	}
	refseq, err := s.mapID("ACC+ID", "REFSEQ_NT_ID", uniprot)
	if err != nil {
		return "", &LoadError{Gene: id, Msg: "mapping to RefSeq failed", Err: err}
	}
	body, err := s.get(s.EfetchURL + refseq)
	if err != nil {
		return "", &LoadError{Gene: id, Msg: "couldn't fetch sequence", Err: err}
	}
	seqs, err := bio.ParseFasta(strings.NewReader(body))
	if err != nil || len(seqs) == 0 {
		return "", &LoadError{Gene: id, Msg: "couldn't parse sequence", Err: err}
	}
	validateCoding(id, seqs[0].Sequence)
	log.Infof("found sequence of length %d for gene %s", len(seqs[0].Sequence), id)
	log.Debugf("fetched read:\n%s", seqs)
	return seqs[0].Sequence, nil
}

// validateCoding warns when a fetched read does not look like a
// complete coding sequence. The frame policy downstream decides what
// to do with a broken read, so problems are reported, not fatal.
func validateCoding(id, seq string) {
	if len(seq)%3 != 0 {
		log.Warningf("gene %s: sequence length %d is not a whole number of codons", id, len(seq))
		return
	}
	if last := bio.NormalizeCodon(seq[len(seq)-3:]); !bio.IsStopCodon(last) {
		log.Warningf("gene %s: sequence does not end with a stop codon", id)
	}
	if _, err := bio.Translate(seq); err != nil {
		log.Warningf("gene %s: sequence does not translate cleanly: %v", id, err)
	}
}

// pdbID maps a gene identifier to a PDB id.
func (s *WebSource) pdbID(id string) (string, error) {
	uniprot, err := s.mapID("P_ENTREZGENEID", "ID", id)
	if err != nil {
		return "", err
	}
	pdb, err := s.mapID("ACC+ID", "PDB_ID", uniprot)
	if err != nil {
		return "", err
	}
	return strings.ToLower(pdb), nil
}

// Structure implements Source: it downloads the PDB entry mapped
// from the gene identifier and keeps its C-alpha trace.
func (s *WebSource) Structure(id string) (*structure.Structure, error) {
	pdb, err := s.pdbID(id)
	if err != nil {
		return nil, &LoadError{Gene: id, Msg: "mapping to PDB failed", Err: err}
	}
	body, err := s.get(fmt.Sprintf("%s/%s.pdb", s.PDBURL, strings.ToUpper(pdb)))
	if err != nil {
		return nil, &LoadError{Gene: id, Msg: "couldn't fetch structure " + pdb, Err: err}
	}
	st, err := ParsePDB(strings.NewReader(body))
	if err != nil {
		return nil, &LoadError{Gene: id, Msg: "couldn't parse structure " + pdb, Err: err}
	}
	st.ID = pdb
	log.Infof("found structure %s with %d residues for gene %s", pdb, st.NResidues(), id)
	return st, nil
}

// Domains implements Source using the SCOP classification file.
func (s *WebSource) Domains(id string) ([]structure.Domain, error) {
	if s.domains == nil {
		return nil, &LoadError{Gene: id, Msg: "no SCOP classification loaded"}
	}
	pdb, err := s.pdbID(id)
	if err != nil {
		return nil, &LoadError{Gene: id, Msg: "mapping to PDB failed", Err: err}
	}
	ds, ok := s.domains[pdb]
	if !ok {
		return nil, &LoadError{Gene: id, Msg: "no domains for PDB id " + pdb}
	}
	return ds, nil
}

// SecondaryStructure implements Source using C-alpha geometry.
func (s *WebSource) SecondaryStructure(st *structure.Structure) (map[int]structure.SecStrucType, error) {
	m, err := structure.AssignSecondary(st)
	if err != nil {
		return nil, &LoadError{Gene: st.ID, Msg: "secondary structure assignment failed", Err: err}
	}
	return m, nil
}

// ParsePDB reads the C-alpha trace of the first chain from a PDB
// file. Alternate locations other than 'A' are dropped.
func ParsePDB(rd io.Reader) (*structure.Structure, error) {
	st := &structure.Structure{}
	chain := byte(0)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "ATOM") || len(line) < 54 {
			continue
		}
		name := strings.TrimSpace(line[12:16])
		if name != "CA" {
			continue
		}
		if alt := line[16]; alt != ' ' && alt != 'A' {
			continue
		}
		if chain == 0 {
			chain = line[21]
		} else if line[21] != chain {
			break
		}
		num, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
		if err != nil {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
		z, err3 := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		st.Residues = append(st.Residues, structure.Residue{
			Number: num,
			CA:     structure.Point{X: x, Y: y, Z: z},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(st.Residues) == 0 {
		return nil, fmt.Errorf("no C-alpha atoms found")
	}
	return st, nil
}

// ParseScopCla reads a SCOP classification (dir.cla) file and
// returns domains grouped by PDB id. Lines look like:
//
//	d1ux8a_	1ux8	A:1-102	a.1.1.1	113449	...
//
// Only the domain id, PDB id and residue ranges are used.
func ParseScopCla(rd io.Reader) (map[string][]structure.Domain, error) {
	domains := make(map[string][]structure.Domain)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		pdb := strings.ToLower(fields[1])
		d := structure.Domain{ID: fields[0]}
		for _, r := range strings.Split(fields[2], ",") {
			// strip the chain prefix: "A:1-102" -> "1-102"
			if i := strings.Index(r, ":"); i >= 0 {
				r = r[i+1:]
			}
			if r == "" || r == "-" {
				// whole chain, no explicit range
				continue
			}
			// negative residue numbers do not occur in SCOP ranges
			parts := strings.SplitN(r, "-", 2)
			if len(parts) != 2 {
				continue
			}
			start, err1 := strconv.Atoi(parts[0])
			end, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				continue
			}
			d.Ranges = append(d.Ranges, structure.Range{Start: start, End: end})
		}
		if len(d.Ranges) > 0 {
			domains[pdb] = append(domains[pdb], d)
		}
	}
	return domains, scanner.Err()
}
