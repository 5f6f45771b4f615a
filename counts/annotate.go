package counts

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/dms/codon"
)

// SiteAnnotation holds the statistics derived from one site's codon counts.
//
// MutFreq fields are fractions of NCounts; when NCounts is zero all
// frequencies are zero rather than NaN.
type SiteAnnotation struct {
	// NCounts is the total codon count at the site.
	NCounts uint64
	// MutFreq is the fraction of counts that are not the wildtype codon.
	MutFreq float64
	// Counts of mutant codons by mutation type.
	NStop   uint64
	NSyn    uint64
	NNonSyn uint64
	// Counts of mutant codons by nucleotide Hamming distance from wildtype.
	N1nt uint64
	N2nt uint64
	N3nt uint64
	// NTChanges counts 1-nucleotide mutant codons by the directional
	// nucleotide change, indexed by codon.NTChange.
	NTChanges [codon.NumNTChanges]uint64
	// Mutation frequencies by nucleotide Hamming distance.
	MutFreq1nt float64
	MutFreq2nt float64
	MutFreq3nt float64
}

// Annotated pairs a count table with its per-site derived statistics.
type Annotated struct {
	Table *Table
	Sites []SiteAnnotation
}

// Annotate computes the per-site derived statistics for t.
func Annotate(t *Table) *Annotated {
	a := &Annotated{Table: t, Sites: make([]SiteAnnotation, t.NSites())}
	for site := 1; site <= t.NSites(); site++ {
		sa := &a.Sites[site-1]
		wt := t.Wildtype(site)
		wtAA := wt.AA()
		for c := 0; c < codon.NumCodons; c++ {
			n := uint64(t.Count(site, codon.Codon(c)))
			sa.NCounts += n
			if codon.Codon(c) == wt {
				continue
			}
			switch {
			case codon.Codon(c).IsStop():
				sa.NStop += n
			case codon.Codon(c).AA() == wtAA:
				sa.NSyn += n
			default:
				sa.NNonSyn += n
			}
			dist, from, to := codon.Distance(wt, codon.Codon(c))
			switch dist {
			case 1:
				sa.N1nt += n
				sa.NTChanges[codon.MakeNTChange(from, to)] += n
			case 2:
				sa.N2nt += n
			case 3:
				sa.N3nt += n
			}
		}
		if sa.NCounts > 0 {
			total := float64(sa.NCounts)
			sa.MutFreq = float64(sa.NStop+sa.NSyn+sa.NNonSyn) / total
			sa.MutFreq1nt = float64(sa.N1nt) / total
			sa.MutFreq2nt = float64(sa.N2nt) / total
			sa.MutFreq3nt = float64(sa.N3nt) / total
		}
	}
	return a
}

// WriteTSV writes the table together with its annotation columns.  The first
// 66 columns match Table.WriteTSV, so the output round-trips through
// ReadTSV.
func (a *Annotated) WriteTSV(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("site")
	tw.WriteString("wildtype")
	for c := 0; c < codon.NumCodons; c++ {
		tw.WriteString(codon.Codon(c).Seq())
	}
	tw.WriteString("ncounts")
	tw.WriteString("mutfreq")
	tw.WriteString("nstop")
	tw.WriteString("nsyn")
	tw.WriteString("nnonsyn")
	tw.WriteString("n1nt")
	tw.WriteString("n2nt")
	tw.WriteString("n3nt")
	for nc := 0; nc < codon.NumNTChanges; nc++ {
		tw.WriteString(codon.NTChange(nc).String())
	}
	tw.WriteString("mutfreq1nt")
	tw.WriteString("mutfreq2nt")
	tw.WriteString("mutfreq3nt")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for site := 1; site <= a.Table.NSites(); site++ {
		sa := &a.Sites[site-1]
		tw.WriteInt64(int64(site))
		tw.WriteString(a.Table.Wildtype(site).Seq())
		for c := 0; c < codon.NumCodons; c++ {
			tw.WriteUint32(a.Table.Count(site, codon.Codon(c)))
		}
		tw.WriteInt64(int64(sa.NCounts))
		writeFreq(tw, sa.MutFreq)
		tw.WriteInt64(int64(sa.NStop))
		tw.WriteInt64(int64(sa.NSyn))
		tw.WriteInt64(int64(sa.NNonSyn))
		tw.WriteInt64(int64(sa.N1nt))
		tw.WriteInt64(int64(sa.N2nt))
		tw.WriteInt64(int64(sa.N3nt))
		for nc := 0; nc < codon.NumNTChanges; nc++ {
			tw.WriteInt64(int64(sa.NTChanges[nc]))
		}
		writeFreq(tw, sa.MutFreq1nt)
		writeFreq(tw, sa.MutFreq2nt)
		writeFreq(tw, sa.MutFreq3nt)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeFreq(tw *tsv.Writer, f float64) {
	tw.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}
