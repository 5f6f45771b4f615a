// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
dms-bcsubamp counts codon mutations in a deep-mutational-scanning sample
sequenced with the barcoded-subamplicon strategy.  It reads a reference
FASTA and a pair of FASTQ files, groups read pairs by barcode, aligns each
barcode's consensus to its subamplicon, and writes a per-site codon count
table.
*/

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/dms/bcsubamp"
	"github.com/grailbio/dms/encoding/fasta"
	"github.com/grailbio/dms/encoding/fastq"
	"github.com/klauspost/compress/gzip"
)

var (
	alignSpecs  = flag.String("alignspecs", "", "Semicolon-separated subamplicon specs, each 'refstart,refend,r1trim,r2trim' in 1-based inclusive reference coordinates with 0 meaning no trim; required")
	barcodeLen  = flag.Int("bclen", bcsubamp.DefaultOpts.BarcodeLen, "Barcode length at the start of each read")
	maxAmbig    = flag.Int("max-ambig", bcsubamp.DefaultOpts.MaxAmbig, "Maximum number of ambiguous nucleotides per aligned subamplicon")
	maxMuts     = flag.Int("max-muts", bcsubamp.DefaultOpts.MaxMuts, "Maximum number of mutated codons per aligned subamplicon")
	minConcur   = flag.Float64("min-concur", bcsubamp.DefaultOpts.MinConcur, "Minimum fraction of called reads that must agree to call a consensus identity")
	minQual     = flag.Int("min-qual", bcsubamp.DefaultOpts.MinQual, "Phred quality below which read characters are masked to N")
	minReads    = flag.Int("min-reads", bcsubamp.DefaultOpts.MinReads, "Minimum number of concurring reads to call a consensus identity")
	outPath     = flag.String("out", "counts.tsv", "Output count table path; a .gz suffix enables compression")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous barcode-group workers; 0 = runtime.NumCPU()")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] fapath r1path r2path\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

// parseAlignSpecs parses the -alignspecs flag value.
func parseAlignSpecs(s string) ([]bcsubamp.AlignSpec, error) {
	var specs []bcsubamp.AlignSpec
	for _, part := range strings.Split(s, ";") {
		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("alignspec %q: want refstart,refend,r1trim,r2trim", part)
		}
		var nums [4]int
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("alignspec %q: %v", part, err)
			}
			nums[i] = n
		}
		specs = append(specs, bcsubamp.AlignSpec{
			RefStart: nums[0],
			RefEnd:   nums[1],
			R1Trim:   nums[2],
			R2Trim:   nums[3],
		})
	}
	return specs, nil
}

// openMaybeGzip opens a local or remote file, decompressing gzip by
// extension.  The returned closer closes both layers.
func openMaybeGzip(ctx context.Context, path string) (io.Reader, func() error, error) {
	infile, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	reader := io.Reader(infile.Reader(ctx))
	closer := func() error { return infile.Close(ctx) }
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			infile.Close(ctx) // nolint: errcheck
			return nil, nil, err
		}
		reader = gz
		closer = func() error {
			if err := gz.Close(); err != nil {
				infile.Close(ctx) // nolint: errcheck
				return err
			}
			return infile.Close(ctx)
		}
	}
	return reader, closer, nil
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 3 {
		log.Fatalf("Expected positional arguments fapath r1path r2path; got '%s'", strings.Join(flag.Args(), " "))
	}
	if *alignSpecs == "" {
		log.Fatalf("-alignspecs is required")
	}
	specs, err := parseAlignSpecs(*alignSpecs)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()

	faReader, faClose, err := openMaybeGzip(ctx, flag.Arg(0))
	if err != nil {
		log.Fatalf("open %s: %v", flag.Arg(0), err)
	}
	fa, err := fasta.New(faReader)
	if err != nil {
		log.Fatalf("read %s: %v", flag.Arg(0), err)
	}
	if err := faClose(); err != nil {
		log.Fatalf("close %s: %v", flag.Arg(0), err)
	}
	refseq := fa.First()

	r1Reader, r1Close, err := openMaybeGzip(ctx, flag.Arg(1))
	if err != nil {
		log.Fatalf("open %s: %v", flag.Arg(1), err)
	}
	r2Reader, r2Close, err := openMaybeGzip(ctx, flag.Arg(2))
	if err != nil {
		log.Fatalf("open %s: %v", flag.Arg(2), err)
	}

	opts := bcsubamp.Opts{
		BarcodeLen:  *barcodeLen,
		MinQual:     *minQual,
		MaxMuts:     *maxMuts,
		MaxAmbig:    *maxAmbig,
		MinReads:    *minReads,
		MinConcur:   *minConcur,
		AlignSpecs:  specs,
		CharType:    bcsubamp.CharCodon,
		Parallelism: *parallelism,
	}
	src := fastq.NewPairScanner(r1Reader, r2Reader)
	table, stats, err := bcsubamp.Count(refseq, src, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := r1Close(); err != nil {
		log.Fatalf("close %s: %v", flag.Arg(1), err)
	}
	if err := r2Close(); err != nil {
		log.Fatalf("close %s: %v", flag.Arg(2), err)
	}
	if err := table.WriteToPath(*outPath); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}
	log.Printf("dms-bcsubamp: %s", stats)
}
