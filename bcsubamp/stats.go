package bcsubamp

import "fmt"

// Stats counts events during barcoded-subamplicon counting.
type Stats struct {
	// Pairs is the total number of read pairs scanned.
	Pairs int64
	// ChastityFailed is the number of pairs dropped by the chastity
	// filter.
	ChastityFailed int64
	// BadBarcode is the number of pairs whose barcode was short or
	// ambiguous.
	BadBarcode int64
	// Barcodes is the number of distinct barcode groups processed.
	Barcodes int64
	// Aligned is the number of barcode groups whose consensus aligned to
	// some subamplicon.
	Aligned int64
	// TooManyAmbiguous counts barcode groups whose last alignment attempt
	// was rejected for excess ambiguous nucleotides.
	TooManyAmbiguous int64
	// TooManyMutations counts barcode groups whose last alignment attempt
	// was rejected for excess mutations.
	TooManyMutations int64
}

// Merge accumulates the other stats into s.
func (s *Stats) Merge(other Stats) {
	s.Pairs += other.Pairs
	s.ChastityFailed += other.ChastityFailed
	s.BadBarcode += other.BadBarcode
	s.Barcodes += other.Barcodes
	s.Aligned += other.Aligned
	s.TooManyAmbiguous += other.TooManyAmbiguous
	s.TooManyMutations += other.TooManyMutations
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("pairs: %d, chastityfailed: %d, badbarcode: %d, barcodes: %d, aligned: %d, toomanyambiguous: %d, toomanymutations: %d",
		s.Pairs, s.ChastityFailed, s.BadBarcode, s.Barcodes, s.Aligned, s.TooManyAmbiguous, s.TooManyMutations)
}
