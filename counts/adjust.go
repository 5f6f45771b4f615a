package counts

import (
	"math"

	"github.com/grailbio/dms/codon"
)

// AdjustErrorCounts scales down error-control counts that exceed what the
// sample's own mutation frequencies predict.  An error control should not
// show a higher rate for any mutant codon than the sample it corrects; when
// it does, the mutant's count is clamped to
//
//	round(sampleFreq*errTotal + maxExcess)
//
// where sampleFreq is the codon's frequency in the sample at that site and
// errTotal is the error control's total count there, both computed across
// chars.  A nil chars means all 64 codons.  Codons outside chars, and the
// wildtype codon at each site, are never adjusted.  Sites where the sample
// has no counts are passed through unchanged.
//
// The two tables must share sites and wildtype codons; a fresh adjusted
// table is returned and errCounts is not modified.
func AdjustErrorCounts(errCounts, sample *Table, chars []codon.Codon, maxExcess int) (*Table, error) {
	if !errCounts.sameSites(sample) {
		return nil, ErrSiteMismatch
	}
	if chars == nil {
		chars = make([]codon.Codon, codon.NumCodons)
		for c := range chars {
			chars[c] = codon.Codon(c)
		}
	}
	adjusted := errCounts.Clone()
	for site := 1; site <= sample.NSites(); site++ {
		var sampleTotal, errTotal uint64
		for _, c := range chars {
			sampleTotal += uint64(sample.Count(site, c))
			errTotal += uint64(errCounts.Count(site, c))
		}
		if sampleTotal == 0 {
			continue
		}
		wt := sample.Wildtype(site)
		for _, c := range chars {
			if c == wt {
				continue
			}
			freq := float64(sample.Count(site, c)) / float64(sampleTotal)
			maxAllowed := uint32(math.Round(freq*float64(errTotal) + float64(maxExcess)))
			if errCounts.Count(site, c) > maxAllowed {
				adjusted.counts[site-1][c] = maxAllowed
			}
		}
	}
	return adjusted, nil
}
