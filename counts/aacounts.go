package counts

import (
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/dms/codon"
)

// AminoAcidTable is a per-site amino acid count table aggregated from a
// codon count table.  Columns follow codon.AminoAcids order, with stop
// codons under '*'.
type AminoAcidTable struct {
	wildtype []byte
	counts   [][]uint64
}

// ToAminoAcids aggregates codon counts into amino acid counts under the
// standard genetic code.
func ToAminoAcids(t *Table) *AminoAcidTable {
	aaIndex := make(map[byte]int, len(codon.AminoAcids))
	for i, aa := range codon.AminoAcids {
		aaIndex[aa] = i
	}
	a := &AminoAcidTable{
		wildtype: make([]byte, t.NSites()),
		counts:   make([][]uint64, t.NSites()),
	}
	for site := 1; site <= t.NSites(); site++ {
		a.wildtype[site-1] = t.Wildtype(site).AA()
		row := make([]uint64, len(codon.AminoAcids))
		for c := 0; c < codon.NumCodons; c++ {
			row[aaIndex[codon.Codon(c).AA()]] += uint64(t.Count(site, codon.Codon(c)))
		}
		a.counts[site-1] = row
	}
	return a
}

// NSites returns the number of sites.
func (a *AminoAcidTable) NSites() int { return len(a.wildtype) }

// Wildtype returns the reference amino acid at the given 1-based site.
func (a *AminoAcidTable) Wildtype(site int) byte { return a.wildtype[site-1] }

// Count returns the count for amino acid aa at the given 1-based site.
func (a *AminoAcidTable) Count(site int, aa byte) uint64 {
	for i, b := range codon.AminoAcids {
		if b == aa {
			return a.counts[site-1][i]
		}
	}
	return 0
}

// WriteTSV writes the amino acid counts as tab-separated text with a
// "site", "wildtype", then one column per amino acid header.
func (a *AminoAcidTable) WriteTSV(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("site")
	tw.WriteString("wildtype")
	for _, aa := range codon.AminoAcids {
		tw.WriteByte(aa)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for site := 1; site <= a.NSites(); site++ {
		tw.WriteInt64(int64(site))
		tw.WriteByte(a.wildtype[site-1])
		for _, n := range a.counts[site-1] {
			tw.WriteInt64(int64(n))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
