package bcsubamp_test

import (
	"testing"

	"github.com/grailbio/dms/bcsubamp"
	"github.com/grailbio/testutil/expect"
)

func TestBuildConsensus(t *testing.T) {
	reads := []string{
		"ATGCAT",
		"NTGNANA",
		"ACGNNTAT",
		"NTGNTA",
	}
	expect.EQ(t, bcsubamp.BuildConsensus(reads, 2, 0.75), "ATGNNNAN")

	// A fifth read flips position 1 below the concurrence threshold and
	// lifts positions 4-8 over the minimum read count.
	reads = append(reads, "CTGCATAT")
	expect.EQ(t, bcsubamp.BuildConsensus(reads, 2, 0.75), "NTGCATAT")
}

func TestBuildConsensusTieBreak(t *testing.T) {
	// Ties go to the lexicographically greatest identity.
	expect.EQ(t, bcsubamp.BuildConsensus([]string{"AC", "AG"}, 2, 0.5), "AG")
	expect.EQ(t, bcsubamp.BuildConsensus([]string{"T", "A"}, 2, 0.5), "T")
}

func TestBuildConsensusEdgeCases(t *testing.T) {
	expect.EQ(t, bcsubamp.BuildConsensus(nil, 2, 0.75), "")
	expect.EQ(t, bcsubamp.BuildConsensus([]string{"NNN"}, 1, 0.5), "NNN")
	expect.EQ(t, bcsubamp.BuildConsensus([]string{"ATG"}, 1, 1.0), "ATG")
	expect.EQ(t, bcsubamp.BuildConsensus([]string{"ATG"}, 2, 0.5), "NNN")
}
