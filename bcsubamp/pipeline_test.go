package bcsubamp_test

import (
	"strings"
	"testing"

	"github.com/grailbio/dms/bcsubamp"
	"github.com/grailbio/dms/codon"
	"github.com/grailbio/dms/counts"
	"github.com/grailbio/dms/encoding/fastq"
	"github.com/grailbio/testutil/expect"
)

func fastqText(records [][3]string) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec[0] + "\n" + rec[1] + "\n+\n" + rec[2] + "\n")
	}
	return b.String()
}

func countOpts(parallelism int) bcsubamp.Opts {
	opts := bcsubamp.DefaultOpts
	opts.BarcodeLen = 2
	opts.MaxMuts = 1
	opts.MaxAmbig = 1
	opts.AlignSpecs = []bcsubamp.AlignSpec{{RefStart: 3, RefEnd: 9}}
	opts.Parallelism = parallelism
	return opts
}

func TestCount(t *testing.T) {
	const refseq = "ATGGGGAAA"
	r1 := fastqText([][3]string{
		{"@M1:1:1:1:1:1:1 1:N:0:ATCG", "AAGGGGAA", "IIIIIIII"},
		{"@M1:1:1:1:1:1:2 1:N:0:ATCG", "AAGGGGAA", "IIIIIIII"},
		{"@M1:1:1:1:1:1:3 1:N:0:ATCG", "GGGGGGAT", "IIIIIIII"},
		{"@M1:1:1:1:1:1:4 1:N:0:ATCG", "GGGGGGAT", "IIIIIIII"},
		{"@M1:1:1:1:1:1:5 1:Y:0:ATCG", "AAGGGGAA", "IIIIIIII"},
		{"@M1:1:1:1:1:1:6 1:N:0:ATCG", "AAGGGGAA", "!IIIIIII"},
	})
	r2 := fastqText([][3]string{
		{"@M1:1:1:1:1:1:1 2:N:0:ATCG", "CCTTTCCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:2 2:N:0:ATCG", "CCTTTCCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:3 2:N:0:ATCG", "TTTATCCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:4 2:N:0:ATCG", "TTTATCCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:5 2:Y:0:ATCG", "CCTTTCCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:6 2:N:0:ATCG", "CCTTTCCC", "IIIIIIII"},
	})

	src := fastq.NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	table, stats, err := bcsubamp.Count(refseq, src, countOpts(1))
	expect.NoError(t, err)

	expect.EQ(t, stats.Pairs, int64(6))
	expect.EQ(t, stats.ChastityFailed, int64(1))
	expect.EQ(t, stats.BadBarcode, int64(1))
	expect.EQ(t, stats.Barcodes, int64(2))
	expect.EQ(t, stats.Aligned, int64(2))
	expect.EQ(t, stats.TooManyAmbiguous, int64(0))
	expect.EQ(t, stats.TooManyMutations, int64(0))

	// Both barcode groups align over sites 2-3.  The AACC group is
	// wildtype there; the GGTT group carries the AAA -> ATA mutation.
	ggg := mustEncode(t, "GGG")
	expect.EQ(t, table.SiteTotal(1), uint64(0))
	expect.EQ(t, table.Count(2, ggg), uint32(2))
	expect.EQ(t, table.SiteTotal(2), uint64(2))
	expect.EQ(t, table.Count(3, mustEncode(t, "AAA")), uint32(1))
	expect.EQ(t, table.Count(3, mustEncode(t, "ATA")), uint32(1))

	// The result is independent of worker count.
	src = fastq.NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	table4, stats4, err := bcsubamp.Count(refseq, src, countOpts(4))
	expect.NoError(t, err)
	expect.True(t, table4.Equal(table))
	expect.EQ(t, stats4, stats)
}

func TestCountRejections(t *testing.T) {
	const refseq = "ATGGGGAAA"
	// One barcode group whose consensus carries two codon mutations.
	r1 := fastqText([][3]string{
		{"@M1:1:1:1:1:1:1 1:N:0:ATCG", "AAGGGCTA", "IIIIIIII"},
		{"@M1:1:1:1:1:1:2 1:N:0:ATCG", "AAGGGCTA", "IIIIIIII"},
	})
	r2 := fastqText([][3]string{
		{"@M1:1:1:1:1:1:1 2:N:0:ATCG", "CCTTAGCC", "IIIIIIII"},
		{"@M1:1:1:1:1:1:2 2:N:0:ATCG", "CCTTAGCC", "IIIIIIII"},
	})
	src := fastq.NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	table, stats, err := bcsubamp.Count(refseq, src, countOpts(1))
	expect.NoError(t, err)
	expect.EQ(t, stats.Barcodes, int64(1))
	expect.EQ(t, stats.Aligned, int64(0))
	expect.EQ(t, stats.TooManyMutations, int64(1))
	for site := 1; site <= table.NSites(); site++ {
		expect.EQ(t, table.SiteTotal(site), uint64(0))
	}
}

func TestCountMinReads(t *testing.T) {
	const refseq = "ATGGGGAAA"
	// A single pair cannot reach the two-read consensus floor, so the
	// consensus is all Ns and the alignment is rejected as ambiguous.
	r1 := fastqText([][3]string{{"@M1:1:1:1:1:1:1 1:N:0:ATCG", "AAGGGGAA", "IIIIIIII"}})
	r2 := fastqText([][3]string{{"@M1:1:1:1:1:1:1 2:N:0:ATCG", "CCTTTCCC", "IIIIIIII"}})
	src := fastq.NewPairScanner(strings.NewReader(r1), strings.NewReader(r2))
	_, stats, err := bcsubamp.Count(refseq, src, countOpts(1))
	expect.NoError(t, err)
	expect.EQ(t, stats.Aligned, int64(0))
	expect.EQ(t, stats.TooManyAmbiguous, int64(1))
}

func TestCountOptsErrors(t *testing.T) {
	src := fastq.NewPairScanner(strings.NewReader(""), strings.NewReader(""))

	opts := countOpts(1)
	opts.CharType = bcsubamp.CharType(99)
	_, _, err := bcsubamp.Count("ATG", src, opts)
	expect.EQ(t, err, bcsubamp.ErrUnsupportedCharType)

	opts = countOpts(1)
	opts.AlignSpecs = []bcsubamp.AlignSpec{{RefStart: 1, RefEnd: 10}}
	_, _, err = bcsubamp.Count("ATGGGGAAA", src, opts)
	expect.EQ(t, err, bcsubamp.ErrInvalidCoordinates)

	opts = countOpts(1)
	_, _, err = bcsubamp.Count("ATGC", src, opts)
	expect.EQ(t, err, counts.ErrInvalidReference)

	opts = countOpts(1)
	opts.BarcodeLen = 0
	_, _, err = bcsubamp.Count("ATG", src, opts)
	expect.True(t, err != nil)
}

func mustEncode(t *testing.T, seq string) codon.Codon {
	t.Helper()
	c, ok := codon.Encode(seq)
	expect.True(t, ok, "codon %s", seq)
	return c
}
