package bcsubamp

import gunsafe "github.com/grailbio/base/unsafe"

// BuildConsensus collapses reads into a per-position consensus.  'N' is a
// non-called identity; reads shorter than the longest read are treated as
// 'N'-padded at the 3' end.  A position is called only when at least
// minReads reads have a called identity there and the plurality identity
// accounts for at least minConcur of them; otherwise it is 'N'.  Ties go to
// the lexicographically greatest identity.
func BuildConsensus(reads []string, minReads int, minConcur float64) string {
	maxLen := 0
	for _, r := range reads {
		if len(r) > maxLen {
			maxLen = len(r)
		}
	}
	consensus := make([]byte, maxLen)
	for i := 0; i < maxLen; i++ {
		var tally [256]int
		total := 0
		for _, r := range reads {
			if i < len(r) && r[i] != 'N' {
				tally[r[i]]++
				total++
			}
		}
		consensus[i] = 'N'
		if total < minReads {
			continue
		}
		best, bestN := byte(0), 0
		for c := 0; c < len(tally); c++ {
			if tally[c] > 0 && tally[c] >= bestN {
				best, bestN = byte(c), tally[c]
			}
		}
		if float64(bestN)/float64(total) >= minConcur {
			consensus[i] = best
		}
	}
	return gunsafe.BytesToString(consensus)
}
