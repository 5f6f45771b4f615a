package bcsubamp

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/dms/counts"
	"github.com/grailbio/dms/encoding/fastq"
)

// PairSource yields read pairs, typically a fastq.PairScanner.
type PairSource interface {
	// Scan reads the next pair into *pair.  It returns false on EOF or
	// error; the caller distinguishes the two with Err.
	Scan(pair *fastq.Pair) bool
	// Err returns the error that terminated scanning, if any.
	Err() error
}

// bag collects the trimmed, quality-masked reads sharing one barcode.
type bag struct {
	r1 []string
	r2 []string
}

// Count runs the barcoded-subamplicon counting pipeline: it groups the
// pairs from src by barcode, collapses each group to a consensus read pair,
// aligns the consensus against the configured subamplicons, and accumulates
// codon counts on refseq.
//
// Pairs failing the chastity filter, and pairs whose barcode is short or
// contains an ambiguous nucleotide after quality masking, are dropped.
// Each barcode group's consensus is aligned against opts.AlignSpecs in
// order; the first accepted alignment is counted, and groups with no
// accepted alignment are tallied by the last rejection reason.
//
// Barcode groups are processed concurrently; the result is deterministic
// for a given input and opts.
func Count(refseq string, src PairSource, opts Opts) (*counts.Table, Stats, error) {
	var stats Stats
	if opts.CharType != CharCodon {
		return nil, stats, ErrUnsupportedCharType
	}
	if opts.BarcodeLen <= 0 {
		return nil, stats, fmt.Errorf("barcode length %d must be positive", opts.BarcodeLen)
	}
	if len(opts.AlignSpecs) == 0 {
		return nil, stats, fmt.Errorf("no subamplicons specified")
	}
	table, err := counts.NewTable(refseq)
	if err != nil {
		return nil, stats, err
	}
	for _, spec := range opts.AlignSpecs {
		if spec.RefStart < 1 || spec.RefEnd > len(refseq) || spec.RefStart > spec.RefEnd {
			return nil, stats, ErrInvalidCoordinates
		}
	}

	bags, err := collectBarcodes(src, opts, &stats)
	if err != nil {
		return nil, stats, err
	}
	stats.Barcodes = int64(len(bags))
	log.Printf("bcsubamp: %d pairs in %d barcode groups", stats.Pairs, len(bags))

	// Deterministic sharding over sorted barcodes, one partial table and
	// stats per job, merged at the end.
	barcodes := make([]string, 0, len(bags))
	for barcode := range bags {
		barcodes = append(barcodes, barcode)
	}
	sort.Strings(barcodes)
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	tables := make([]*counts.Table, parallelism)
	partials := make([]Stats, parallelism)
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(barcodes)) / parallelism
		endIdx := ((jobIdx + 1) * len(barcodes)) / parallelism
		partial, err := counts.NewTable(refseq)
		if err != nil {
			return err
		}
		for _, barcode := range barcodes[startIdx:endIdx] {
			if err := processBag(refseq, bags[barcode], opts, partial, &partials[jobIdx]); err != nil {
				return err
			}
		}
		tables[jobIdx] = partial
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	for jobIdx := 0; jobIdx < parallelism; jobIdx++ {
		if err := table.Merge(tables[jobIdx]); err != nil {
			return nil, stats, err
		}
		stats.Merge(partials[jobIdx])
	}
	log.Printf("bcsubamp: done: %s", stats)
	return table, stats, nil
}

// collectBarcodes scans all pairs, masks low-quality bases, and groups the
// reads by barcode.
func collectBarcodes(src PairSource, opts Opts, stats *Stats) (map[string]*bag, error) {
	minQual := byte(opts.MinQual) + 33
	// Reads are tightened to the longest retained length up front; the
	// per-subamplicon trims are re-applied to the consensus.
	maxR1, maxR2 := 0, 0
	for _, spec := range opts.AlignSpecs {
		if spec.R1Trim > maxR1 {
			maxR1 = spec.R1Trim
		}
		if spec.R2Trim > maxR2 {
			maxR2 = spec.R2Trim
		}
	}
	bags := make(map[string]*bag)
	var pair fastq.Pair
	for src.Scan(&pair) {
		stats.Pairs++
		if pair.Chastity == fastq.ChastityFail {
			stats.ChastityFailed++
			continue
		}
		if maxR1 > 0 {
			pair.R1.Trim(maxR1)
		}
		if maxR2 > 0 {
			pair.R2.Trim(maxR2)
		}
		r1, err := MaskLowQuality(pair.R1.Seq, pair.R1.Qual, minQual)
		if err != nil {
			return nil, err
		}
		r2, err := MaskLowQuality(pair.R2.Seq, pair.R2.Qual, minQual)
		if err != nil {
			return nil, err
		}
		if len(r1) < opts.BarcodeLen || len(r2) < opts.BarcodeLen {
			stats.BadBarcode++
			continue
		}
		barcode := r1[:opts.BarcodeLen] + r2[:opts.BarcodeLen]
		if strings.IndexByte(barcode, 'N') >= 0 {
			stats.BadBarcode++
			continue
		}
		b := bags[barcode]
		if b == nil {
			b = &bag{}
			bags[barcode] = b
		}
		b.r1 = append(b.r1, r1[opts.BarcodeLen:])
		b.r2 = append(b.r2, r2[opts.BarcodeLen:])
	}
	return bags, src.Err()
}

// processBag collapses one barcode group to a consensus pair and aligns it
// against the subamplicon specs.
func processBag(refseq string, b *bag, opts Opts, table *counts.Table, stats *Stats) error {
	c1 := BuildConsensus(b.r1, opts.MinReads, opts.MinConcur)
	c2 := BuildConsensus(b.r2, opts.MinReads, opts.MinConcur)
	lastReject := RejectNone
	for _, spec := range opts.AlignSpecs {
		// Spec trims include the barcode, which is already stripped.
		r1, r2 := c1, c2
		if n := spec.R1Trim - opts.BarcodeLen; n > 0 && n < len(r1) {
			r1 = r1[:n]
		}
		if n := spec.R2Trim - opts.BarcodeLen; n > 0 && n < len(r2) {
			r2 = r2[:n]
		}
		subamp, reject, err := Align(refseq, r1, r2, spec.RefStart, spec.RefEnd,
			opts.MaxMuts, opts.MaxAmbig, opts.CharType)
		if err != nil {
			return err
		}
		if reject == RejectNone {
			table.IncrementSubamplicon(spec.RefStart, subamp)
			stats.Aligned++
			return nil
		}
		lastReject = reject
	}
	switch lastReject {
	case RejectAmbiguous:
		stats.TooManyAmbiguous++
	case RejectMutations:
		stats.TooManyMutations++
	}
	return nil
}
