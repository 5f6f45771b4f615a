package counts_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/dms/counts"
	"github.com/grailbio/testutil/expect"
)

func TestToAminoAcids(t *testing.T) {
	tbl, err := counts.NewTable("ATGGGG")
	expect.NoError(t, err)
	addCodon(tbl, 1, "ATG", 5) // M
	addCodon(tbl, 1, "ATA", 2) // I
	addCodon(tbl, 1, "TGA", 1) // stop
	addCodon(tbl, 2, "GGG", 7) // G
	addCodon(tbl, 2, "GGA", 3) // G, synonymous codons aggregate
	addCodon(tbl, 2, "TTA", 4) // L
	addCodon(tbl, 2, "CTA", 2) // L

	a := counts.ToAminoAcids(tbl)
	expect.EQ(t, a.NSites(), 2)
	expect.EQ(t, a.Wildtype(1), byte('M'))
	expect.EQ(t, a.Wildtype(2), byte('G'))
	expect.EQ(t, a.Count(1, 'M'), uint64(5))
	expect.EQ(t, a.Count(1, 'I'), uint64(2))
	expect.EQ(t, a.Count(1, '*'), uint64(1))
	expect.EQ(t, a.Count(1, 'G'), uint64(0))
	expect.EQ(t, a.Count(2, 'G'), uint64(10))
	expect.EQ(t, a.Count(2, 'L'), uint64(6))
}

func TestAminoAcidTableWriteTSV(t *testing.T) {
	tbl, err := counts.NewTable("ATG")
	expect.NoError(t, err)
	addCodon(tbl, 1, "ATG", 3)
	addCodon(tbl, 1, "TGG", 1)

	var buf bytes.Buffer
	expect.NoError(t, counts.ToAminoAcids(tbl).WriteTSV(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	expect.EQ(t, len(lines), 2)
	expect.EQ(t, lines[0],
		"site\twildtype\tA\tC\tD\tE\tF\tG\tH\tI\tK\tL\tM\tN\tP\tQ\tR\tS\tT\tV\tW\tY\t*")
	fields := strings.Split(lines[1], "\t")
	expect.EQ(t, fields[0], "1")
	expect.EQ(t, fields[1], "M")
	expect.EQ(t, fields[12], "3") // M
	expect.EQ(t, fields[20], "1") // W
}
