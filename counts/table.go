// Package counts implements per-site, per-codon mutation count tables for
// deep-mutational-scanning samples: accumulation from aligned subamplicons,
// TSV persistence, annotation with derived mutation-type statistics, and
// error-control count adjustment.
package counts

import (
	"errors"

	"github.com/grailbio/dms/codon"
)

var (
	// ErrInvalidReference is returned when a reference sequence is empty, not
	// a multiple of 3 in length, or contains non-ACGT characters.
	ErrInvalidReference = errors.New("invalid reference sequence")
	// ErrSiteMismatch is returned when two tables that must share a site list
	// and wildtype column do not.
	ErrSiteMismatch = errors.New("count tables have mismatched sites")
)

// Table is a per-site codon count table: one row per codon site of the
// reference, one column per N-free codon, plus the wildtype codon per site.
// Sites are numbered 1..NSites.
//
// The fixed shape (sites x 64, indexed by packed codon) keeps accumulation a
// pair of array indexings and makes the parallel partial-table reduction a
// plain element-wise addition.
type Table struct {
	wildtype []codon.Codon
	counts   [][codon.NumCodons]uint32
}

// NewTable returns an all-zero table shaped for refseq, whose length must be
// a positive multiple of 3 over {A,C,G,T}.
func NewTable(refseq string) (*Table, error) {
	if len(refseq) == 0 || len(refseq)%3 != 0 {
		return nil, ErrInvalidReference
	}
	nSites := len(refseq) / 3
	t := &Table{
		wildtype: make([]codon.Codon, nSites),
		counts:   make([][codon.NumCodons]uint32, nSites),
	}
	for i := 0; i < nSites; i++ {
		c, ok := codon.Encode(refseq[3*i : 3*i+3])
		if !ok {
			return nil, ErrInvalidReference
		}
		t.wildtype[i] = c
	}
	return t, nil
}

// NSites returns the number of codon sites.
func (t *Table) NSites() int { return len(t.wildtype) }

// Wildtype returns the reference codon at the given 1-based site.
func (t *Table) Wildtype(site int) codon.Codon { return t.wildtype[site-1] }

// Count returns the accumulated count for codon c at the given 1-based site.
func (t *Table) Count(site int, c codon.Codon) uint32 { return t.counts[site-1][c] }

// SiteTotal returns the sum of all codon counts at the given 1-based site.
func (t *Table) SiteTotal(site int) uint64 {
	var total uint64
	for _, n := range t.counts[site-1] {
		total += uint64(n)
	}
	return total
}

// IncrementSubamplicon folds one aligned subamplicon into the table.  The
// subamplicon starts at the 1-based reference nucleotide refStart; any
// leading partial codon implied by the codon phase of refStart and any
// trailing incomplete codon are discarded, and codons containing 'N' are
// skipped entirely.
//
// Calls accumulate: applying a set of subamplicons yields the same table in
// any order.
func (t *Table) IncrementSubamplicon(refStart int, subamp string) {
	site0, shift := codon.FirstCodon(refStart)
	if shift >= len(subamp) {
		return
	}
	s := subamp[shift:]
	for i := 0; i+3 <= len(s); i += 3 {
		site := site0 + i/3
		if site >= len(t.counts) {
			break
		}
		if c, ok := codon.Encode(s[i : i+3]); ok {
			t.counts[site][c]++
		}
	}
}

// Merge adds other into t element-wise.  The two tables must share shape and
// wildtype column.
func (t *Table) Merge(other *Table) error {
	if !t.sameSites(other) {
		return ErrSiteMismatch
	}
	for i := range t.counts {
		for c := 0; c < codon.NumCodons; c++ {
			t.counts[i][c] += other.counts[i][c]
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		wildtype: append([]codon.Codon(nil), t.wildtype...),
		counts:   make([][codon.NumCodons]uint32, len(t.counts)),
	}
	copy(c.counts, t.counts)
	return c
}

// Equal reports whether two tables have identical shape, wildtype columns,
// and counts.
func (t *Table) Equal(other *Table) bool {
	if !t.sameSites(other) {
		return false
	}
	for i := range t.counts {
		if t.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}

func (t *Table) sameSites(other *Table) bool {
	if len(t.wildtype) != len(other.wildtype) {
		return false
	}
	for i, wt := range t.wildtype {
		if other.wildtype[i] != wt {
			return false
		}
	}
	return true
}
