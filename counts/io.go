package counts

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/dms/codon"
	"github.com/klauspost/compress/gzip"
)

// WriteTSV writes the table as tab-separated text with a header line:
// "site", "wildtype", then the 64 N-free codons in lexicographic order.
func (t *Table) WriteTSV(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("site")
	tw.WriteString("wildtype")
	for c := 0; c < codon.NumCodons; c++ {
		tw.WriteString(codon.Codon(c).Seq())
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range t.counts {
		tw.WriteInt64(int64(i + 1))
		tw.WriteString(t.wildtype[i].Seq())
		for c := 0; c < codon.NumCodons; c++ {
			tw.WriteUint32(t.counts[i][c])
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTSV parses a count table previously written by WriteTSV or
// Annotated.WriteTSV.  Columns beyond site, wildtype, and the 64 codons
// (i.e. annotation columns) are ignored; sites must appear in order
// starting at 1.
//
// The column set is discovered from the header at run time, so this uses a
// plain line scanner rather than a struct-tagged TSV reader.
func ReadTSV(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 65536), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("count table: empty input")
	}
	header := strings.Split(scanner.Text(), "\t")
	siteCol, wtCol := -1, -1
	codonCol := make([]int, codon.NumCodons)
	for i := range codonCol {
		codonCol[i] = -1
	}
	for i, name := range header {
		switch {
		case name == "site":
			siteCol = i
		case name == "wildtype":
			wtCol = i
		default:
			if c, ok := codon.Encode(name); ok {
				codonCol[c] = i
			}
		}
	}
	if siteCol < 0 || wtCol < 0 {
		return nil, fmt.Errorf("count table: header lacks site/wildtype columns")
	}
	for c, col := range codonCol {
		if col < 0 {
			return nil, fmt.Errorf("count table: header lacks codon column %s", codon.Codon(c).Seq())
		}
	}
	t := &Table{}
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < len(header) {
			return nil, fmt.Errorf("count table: truncated row %q", scanner.Text())
		}
		site, err := strconv.Atoi(fields[siteCol])
		if err != nil {
			return nil, fmt.Errorf("count table: bad site %q: %v", fields[siteCol], err)
		}
		if site != len(t.wildtype)+1 {
			return nil, fmt.Errorf("count table: site %d out of order", site)
		}
		wt, ok := codon.Encode(fields[wtCol])
		if !ok {
			return nil, fmt.Errorf("count table: bad wildtype codon %q at site %d", fields[wtCol], site)
		}
		var row [codon.NumCodons]uint32
		for c, col := range codonCol {
			n, err := strconv.ParseUint(fields[col], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("count table: bad count %q at site %d: %v", fields[col], site, err)
			}
			row[c] = uint32(n)
		}
		t.wildtype = append(t.wildtype, wt)
		t.counts = append(t.counts, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(t.wildtype) == 0 {
		return nil, fmt.Errorf("count table: no data rows")
	}
	return t, nil
}

// NewTableFromPath reads a count table from a local or remote path,
// transparently decompressing gzipped files by extension (e.g. .tsv.gz).
func NewTableFromPath(ctx context.Context, path string) (t *Table, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "couldn't open count table:", path)
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
	}
	return ReadTSV(reader)
}

// WriteToPath writes the table to a local or remote path, gzip-compressing
// by extension.
func (t *Table) WriteToPath(path string) (err error) {
	ctx := vcontext.Background()
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "couldn't create count table:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	writer := io.Writer(out.Writer(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz := gzip.NewWriter(writer)
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		writer = gz
	}
	return t.WriteTSV(writer)
}
