package bcsubamp

import (
	"errors"
	"strings"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/dms/codon"
)

var (
	// ErrUnsupportedCharType is returned for any character type other than
	// CharCodon.
	ErrUnsupportedCharType = errors.New("unsupported character type")
	// ErrInvalidCoordinates is returned when a subamplicon's reference
	// region is empty or falls outside the reference sequence.
	ErrInvalidCoordinates = errors.New("invalid reference coordinates")
)

// CharType selects the character type whose mutations are limited during
// alignment.
type CharType int

const (
	// CharCodon limits the number of mutated codons.
	CharCodon CharType = iota
)

// String implements fmt.Stringer.
func (ct CharType) String() string {
	if ct == CharCodon {
		return "codon"
	}
	return "invalid"
}

// Reject classifies why an alignment was not accepted.  Rejections are
// expected outcomes counted in Stats, not errors.
type Reject int

const (
	// RejectNone means the alignment was accepted.
	RejectNone Reject = iota
	// RejectAmbiguous means the merged subamplicon had too many Ns.
	RejectAmbiguous
	// RejectMutations means the merged subamplicon had too many mutated
	// characters.
	RejectMutations
)

// String implements fmt.Stringer.
func (r Reject) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectAmbiguous:
		return "too many ambiguous nucleotides"
	case RejectMutations:
		return "too many mutations"
	}
	return "invalid"
}

// Align merges a read pair into one subamplicon covering reference
// nucleotides refStart..refEnd (1-based, inclusive) and accepts or rejects
// the result.  r1 reads forward from refStart; r2 reads backward from
// refEnd and is reverse-complemented before merging.  Positions covered by
// both reads keep the agreed character, resolve a one-sided 'N' to the
// other read's character, and become 'N' on disagreement; positions covered
// by neither read are 'N'.
//
// The merge is rejected with RejectAmbiguous when it contains more than
// maxAmbig Ns, and with RejectMutations as soon as more than maxMuts
// characters of type ct differ from the reference.  Characters containing an
// 'N', and partial characters at either end of the region, are not compared.
// On rejection the returned subamplicon is empty.
//
// len(refseq) must be a positive multiple of 3 for CharCodon; Align assumes
// the caller has validated it.
func Align(refseq, r1, r2 string, refStart, refEnd, maxMuts, maxAmbig int, ct CharType) (string, Reject, error) {
	if ct != CharCodon {
		return "", RejectNone, ErrUnsupportedCharType
	}
	if refStart < 1 || refEnd > len(refseq) || refStart > refEnd {
		return "", RejectNone, ErrInvalidCoordinates
	}
	rc2, err := codon.ReverseComplement(r2)
	if err != nil {
		return "", RejectNone, err
	}

	length := refEnd - refStart + 1
	sub := make([]byte, length)
	boundary := length - len(rc2)
	for i := 0; i < length; i++ {
		switch {
		case i < boundary: // covered by r1 at most
			if i < len(r1) {
				sub[i] = r1[i]
			} else {
				sub[i] = 'N'
			}
		case i < len(r1): // covered by both
			c1, c2 := r1[i], rc2[i-boundary]
			switch {
			case c1 == c2:
				sub[i] = c1
			case c1 == 'N':
				sub[i] = c2
			case c2 == 'N':
				sub[i] = c1
			default:
				sub[i] = 'N'
			}
		default: // covered by r2 only
			sub[i] = rc2[i-boundary]
		}
	}
	subamp := gunsafe.BytesToString(sub)

	if strings.Count(subamp, "N") > maxAmbig {
		return "", RejectAmbiguous, nil
	}

	site0, shift := codon.FirstCodon(refStart)
	startCodon := site0 + 1 // 1-based first complete codon
	nmuts := 0
	for icodon := startCodon; icodon <= refEnd/3; icodon++ {
		off := 3*(icodon-startCodon) + shift
		mutCodon := subamp[off : off+3]
		if strings.IndexByte(mutCodon, 'N') >= 0 {
			continue
		}
		if mutCodon != refseq[3*icodon-3:3*icodon] {
			nmuts++
			if nmuts > maxMuts {
				return "", RejectMutations, nil
			}
		}
	}
	return subamp, RejectNone, nil
}
