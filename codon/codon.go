// Package codon defines the nucleotide and codon alphabets used by the
// deep-mutational-scanning counting pipeline, along with the standard genetic
// code and the codon-phase arithmetic shared by the subamplicon aligner and
// the count accumulator.
package codon

// A Codon is a 2-bit-packed nucleotide triplet.  The packing (A=0, C=1, G=2,
// T=3, most-significant base first) makes Codon values sort in the same
// lexicographic order as their ASCII sequences, which the persisted count
// tables rely on for a stable column order.
type Codon uint8

const (
	// NumNT is the number of regular nucleotide types.
	NumNT = 4
	// NumCodons is the number of N-free codons.
	NumCodons = 64
	// NumNTChanges is the number of directional single-nucleotide changes
	// (4 source nucleotides x 3 non-self targets).
	NumNTChanges = 12
	// Stop is the amino-acid symbol for a stop codon.
	Stop = '*'
)

// ntToASCII is the A/C/G/T enum -> ASCII mapping.
var ntToASCII = [NumNT]byte{'A', 'C', 'G', 'T'}

// asciiToNT maps ASCII to the 2-bit nucleotide enum; 0xff marks everything
// outside {A,C,G,T}, including 'N'.
var asciiToNT [256]uint8

// seqs[c] is the ASCII sequence of codon c.
var seqs [NumCodons]string

// codonToAA is the standard genetic code over packed codons.
var codonToAA [NumCodons]byte

// aaTable is the standard genetic code, DNA codon to single-letter amino
// acid, with Stop for TAA/TAG/TGA.
var aaTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// AminoAcids lists the 20 amino acids plus Stop, in the column order of
// persisted amino-acid count tables.
var AminoAcids = []byte("ACDEFGHIKLMNPQRSTVWY*")

func init() {
	for i := range asciiToNT {
		asciiToNT[i] = 0xff
	}
	for v, ch := range ntToASCII {
		asciiToNT[ch] = uint8(v)
	}
	for c := 0; c < NumCodons; c++ {
		seq := []byte{
			ntToASCII[(c>>4)&3],
			ntToASCII[(c>>2)&3],
			ntToASCII[c&3],
		}
		seqs[c] = string(seq)
		codonToAA[c] = aaTable[seqs[c]]
	}
}

// Encode packs a 3-nucleotide sequence into a Codon.  The second return is
// false when s is not exactly three of {A,C,G,T}; in particular any codon
// containing 'N' does not encode.
func Encode(s string) (Codon, bool) {
	if len(s) != 3 {
		return 0, false
	}
	b0 := asciiToNT[s[0]]
	b1 := asciiToNT[s[1]]
	b2 := asciiToNT[s[2]]
	if b0|b1|b2 > 3 {
		return 0, false
	}
	return Codon(b0<<4 | b1<<2 | b2), true
}

// Seq returns the ASCII sequence of c.
func (c Codon) Seq() string { return seqs[c] }

// Base returns the 2-bit nucleotide enum at position i (0, 1, or 2) of c.
func (c Codon) Base(i int) uint8 { return uint8(c>>uint(4-2*i)) & 3 }

// AA translates c through the standard genetic code.
func (c Codon) AA() byte { return codonToAA[c] }

// IsStop reports whether c is a stop codon.
func (c Codon) IsStop() bool { return codonToAA[c] == Stop }

// NTASCII returns the ASCII character for a 2-bit nucleotide enum.
func NTASCII(nt uint8) byte { return ntToASCII[nt] }

// Distance returns the nucleotide Hamming distance between two codons (0-3).
// When the distance is exactly 1, from and to identify the single differing
// position's nucleotides in a and b respectively; otherwise they are 0.
func Distance(a, b Codon) (dist int, from, to uint8) {
	for i := 0; i < 3; i++ {
		na, nb := a.Base(i), b.Base(i)
		if na != nb {
			dist++
			from, to = na, nb
		}
	}
	if dist != 1 {
		from, to = 0, 0
	}
	return
}

// An NTChange identifies one of the 12 directional single-nucleotide changes.
type NTChange uint8

// MakeNTChange builds the change from nucleotide enum `from` to `to`.
// from and to must differ.
func MakeNTChange(from, to uint8) NTChange {
	adj := to
	if to > from {
		adj--
	}
	return NTChange(from*3 + adj)
}

// String renders the change in the "AtoG" style used as count-table column
// names.
func (nc NTChange) String() string {
	from := uint8(nc) / 3
	adj := uint8(nc) % 3
	to := adj
	if adj >= from {
		to++
	}
	return string([]byte{ntToASCII[from], 't', 'o', ntToASCII[to]})
}

// FirstCodon maps a 1-based reference nucleotide coordinate to codon space:
// site0 is the 0-based index of the first codon wholly contained in a region
// starting at refStart, and shift is the offset of that codon's first
// nucleotide within the region.
//
// refStart on a codon boundary (phase 1) needs no shift; phase 2 skips two
// leading nucleotides of a partial codon; phase 0 (refStart on the last
// nucleotide of a codon) skips one.
func FirstCodon(refStart int) (site0, shift int) {
	switch refStart % 3 {
	case 1:
		return (refStart+2)/3 - 1, 0
	case 2:
		return (refStart + 1) / 3, 2
	default:
		return refStart / 3, 1
	}
}
