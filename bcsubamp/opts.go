package bcsubamp

// AlignSpec describes one subamplicon: the reference region it covers and
// the number of leading bases (barcode plus any primer tail) to trim from
// each read before alignment.
type AlignSpec struct {
	// RefStart and RefEnd delimit the reference region covered by the
	// subamplicon, in 1-based inclusive nucleotide coordinates.
	RefStart int
	RefEnd   int
	// R1Trim and R2Trim are the read lengths to retain after trimming, or
	// 0 to keep the full read.
	R1Trim int
	R2Trim int
}

// Opts controls barcoded-subamplicon counting.
type Opts struct {
	// BarcodeLen is the length of the random barcode at the start of each
	// read.
	BarcodeLen int
	// MinQual is the minimum Phred quality; read characters below it are
	// masked to 'N' before consensus building.
	MinQual int
	// MaxMuts is the maximum number of mutated characters tolerated per
	// aligned subamplicon.
	MaxMuts int
	// MaxAmbig is the maximum number of ambiguous nucleotides tolerated
	// per aligned subamplicon.
	MaxAmbig int
	// MinReads is the minimum number of concurring reads required to call
	// a consensus identity at a position.
	MinReads int
	// MinConcur is the minimum fraction of called reads that must agree to
	// call a consensus identity.
	MinConcur float64
	// AlignSpecs lists the subamplicons; each barcode's consensus pair is
	// aligned against the specs in order and the first accepted alignment
	// wins.
	AlignSpecs []AlignSpec
	// CharType is the character type whose mutations are limited.
	CharType CharType
	// Parallelism caps the number of concurrent barcode-group workers.
	// Zero means runtime.NumCPU.
	Parallelism int
}

// DefaultOpts is the suggested default config.
var DefaultOpts = Opts{
	BarcodeLen: 8,
	MinQual:    15,
	MaxMuts:    4,
	MaxAmbig:   2,
	MinReads:   2,
	MinConcur:  0.75,
	CharType:   CharCodon,
}
