package codon

import (
	"errors"

	gunsafe "github.com/grailbio/base/unsafe"
)

// ErrInvalidNucleotide is returned when a sequence contains a character
// outside {A,C,G,T,N}.
var ErrInvalidNucleotide = errors.New("invalid nucleotide")

// complement maps each nucleotide to its Watson-Crick complement, with N
// self-complementary.  Zero marks an invalid input character.
var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['N'] = 'N'
}

// ReverseComplement returns the reverse complement of a DNA sequence over
// {A,C,G,T,N}.
func ReverseComplement(seq string) (string, error) {
	buf := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c := complement[seq[len(seq)-1-i]]
		if c == 0 {
			return "", ErrInvalidNucleotide
		}
		buf[i] = c
	}
	return gunsafe.BytesToString(buf), nil
}
