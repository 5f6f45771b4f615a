// Package bcsubamp aligns barcoded-subamplicon sequencing reads to a
// reference and accumulates per-site codon counts.  Read pairs are grouped
// by barcode, each group is collapsed to a consensus pair, and the consensus
// is aligned to its subamplicon's region of the reference with quality
// masking and mutation limits.
package bcsubamp

import (
	"errors"

	gunsafe "github.com/grailbio/base/unsafe"
)

// ErrLengthMismatch is returned when a read and its quality string differ in
// length.
var ErrLengthMismatch = errors.New("read and quality strings differ in length")

// MaskLowQuality replaces read characters whose Phred+33 quality is below
// minQual with 'N'.  minQual is itself ASCII-encoded: a read position is
// masked when qual[i] < minQual.
func MaskLowQuality(read, qual string, minQual byte) (string, error) {
	if len(read) != len(qual) {
		return "", ErrLengthMismatch
	}
	masked := []byte(read)
	for i := 0; i < len(qual); i++ {
		if qual[i] < minQual {
			masked[i] = 'N'
		}
	}
	return gunsafe.BytesToString(masked), nil
}
