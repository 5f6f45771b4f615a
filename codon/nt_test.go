package codon

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"", ""},
		{"A", "T"},
		{"ATGCAAN", "NTTGCAT"},
		{"TTTCCC", "GGGAAA"},
		{"NNN", "NNN"},
	}
	for _, test := range tests {
		got, err := ReverseComplement(test.seq)
		expect.NoError(t, err)
		expect.EQ(t, got, test.want)

		// Reverse complement is an involution.
		back, err := ReverseComplement(got)
		expect.NoError(t, err)
		expect.EQ(t, back, test.seq)
	}
}

func TestReverseComplementInvalid(t *testing.T) {
	for _, s := range []string{"ATX", "a", "AT G", "AU"} {
		if _, err := ReverseComplement(s); err != ErrInvalidNucleotide {
			t.Errorf("ReverseComplement(%q): got %v, want ErrInvalidNucleotide", s, err)
		}
	}
}
