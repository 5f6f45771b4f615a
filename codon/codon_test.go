package codon

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestEncodeSeqRoundTrip(t *testing.T) {
	for c := Codon(0); c < NumCodons; c++ {
		got, ok := Encode(c.Seq())
		expect.True(t, ok)
		expect.EQ(t, got, c)
	}
	// Codon values sort like their sequences.
	for c := Codon(1); c < NumCodons; c++ {
		expect.True(t, (c-1).Seq() < c.Seq())
	}
}

func TestEncodeRejectsAmbiguous(t *testing.T) {
	for _, s := range []string{"ATN", "NNN", "AT", "ATGA", "atg", "AT*"} {
		if _, ok := Encode(s); ok {
			t.Errorf("Encode(%q) unexpectedly succeeded", s)
		}
	}
}

func TestGeneticCode(t *testing.T) {
	tests := []struct {
		seq string
		aa  byte
	}{
		{"ATG", 'M'},
		{"TGG", 'W'},
		{"GGA", 'G'},
		{"GGG", 'G'},
		{"TAA", '*'},
		{"TAG", '*'},
		{"TGA", '*'},
		{"AAA", 'K'},
	}
	for _, test := range tests {
		c, ok := Encode(test.seq)
		expect.True(t, ok)
		expect.EQ(t, c.AA(), test.aa)
		expect.EQ(t, c.IsStop(), test.aa == Stop)
	}
	nStop := 0
	for c := Codon(0); c < NumCodons; c++ {
		if c.IsStop() {
			nStop++
		}
	}
	expect.EQ(t, nStop, 3)
}

func TestDistance(t *testing.T) {
	enc := func(s string) Codon {
		c, ok := Encode(s)
		if !ok {
			t.Fatalf("bad codon %q", s)
		}
		return c
	}
	tests := []struct {
		a, b   string
		dist   int
		change string
	}{
		{"ATG", "ATG", 0, ""},
		{"GGG", "GGA", 1, "GtoA"},
		{"ATG", "CTG", 1, "AtoC"},
		{"ATG", "ATA", 1, "GtoA"},
		{"ATG", "GGG", 2, ""},
		{"ATG", "GGA", 3, ""},
	}
	for _, test := range tests {
		dist, from, to := Distance(enc(test.a), enc(test.b))
		expect.EQ(t, dist, test.dist)
		if test.change != "" {
			expect.EQ(t, MakeNTChange(from, to).String(), test.change)
		}
	}
}

func TestNTChangeNames(t *testing.T) {
	seen := map[string]bool{}
	for from := uint8(0); from < NumNT; from++ {
		for to := uint8(0); to < NumNT; to++ {
			if from == to {
				continue
			}
			name := MakeNTChange(from, to).String()
			expect.EQ(t, len(name), 4)
			expect.EQ(t, name[0], NTASCII(from))
			expect.EQ(t, name[3], NTASCII(to))
			seen[name] = true
		}
	}
	expect.EQ(t, len(seen), NumNTChanges)
}

func TestFirstCodon(t *testing.T) {
	tests := []struct {
		refStart int
		site0    int
		shift    int
	}{
		{1, 0, 0}, // phase 1: on a codon boundary
		{2, 1, 2}, // phase 2: two leading partial-codon nucleotides
		{3, 1, 1}, // phase 0: one leading partial-codon nucleotide
		{4, 1, 0},
		{7, 2, 0},
		{8, 3, 2},
		{9, 3, 1},
	}
	for _, test := range tests {
		site0, shift := FirstCodon(test.refStart)
		if site0 != test.site0 || shift != test.shift {
			t.Errorf("FirstCodon(%d) = (%d, %d), want (%d, %d)",
				test.refStart, site0, shift, test.site0, test.shift)
		}
	}
}
