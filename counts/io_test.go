package counts_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/dms/counts"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
)

func exampleTable(t *testing.T) *counts.Table {
	tbl, err := counts.NewTable("ATGGACTTTCCC")
	expect.NoError(t, err)
	tbl.IncrementSubamplicon(1, "ATGGACTTTCCC")
	tbl.IncrementSubamplicon(1, "ATGGTCTTTCCC")
	tbl.IncrementSubamplicon(4, "GACTTT")
	return tbl
}

func TestTableRoundTrip(t *testing.T) {
	tbl := exampleTable(t)
	var buf bytes.Buffer
	expect.NoError(t, tbl.WriteTSV(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	expect.EQ(t, len(lines), 5)
	expect.True(t, strings.HasPrefix(lines[0], "site\twildtype\tAAA\tAAC\t"))

	got, err := counts.ReadTSV(&buf)
	expect.NoError(t, err)
	expect.True(t, got.Equal(tbl))
}

func TestAnnotatedRoundTrip(t *testing.T) {
	// Annotation columns are ignored on read, so an annotated table
	// round-trips back to its raw counts.
	tbl := exampleTable(t)
	var buf bytes.Buffer
	expect.NoError(t, counts.Annotate(tbl).WriteTSV(&buf))
	got, err := counts.ReadTSV(&buf)
	expect.NoError(t, err)
	expect.True(t, got.Equal(tbl))
}

func TestReadTSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"noCodonColumns", "site\twildtype\nfoo\tATG\n"},
		{"noRows", "site\twildtype\tAAA\n"},
		{"badSiteOrder", ""},
	}
	var buf bytes.Buffer
	tbl := exampleTable(t)
	expect.NoError(t, tbl.WriteTSV(&buf))
	lines := strings.SplitAfter(buf.String(), "\n")
	// Drop the site-1 row so sites start at 2.
	tests[3].in = lines[0] + strings.Join(lines[2:], "")

	for _, test := range tests {
		_, err := counts.ReadTSV(strings.NewReader(test.in))
		expect.True(t, err != nil, "test %s", test.name)
	}
}

func TestTablePathRoundTrip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	tbl := exampleTable(t)
	for _, name := range []string{"counts.tsv", "counts.tsv.gz"} {
		path := filepath.Join(tempDir, name)
		expect.NoError(t, tbl.WriteToPath(path))
		got, err := counts.NewTableFromPath(ctx, path)
		expect.NoError(t, err, "path %s", path)
		expect.True(t, got.Equal(tbl), "path %s", path)
	}
}
