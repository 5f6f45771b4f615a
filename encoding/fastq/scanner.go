// Package fastq reads paired-end FASTQ data for the subamplicon counting
// pipeline.  The pair scanner enforces read-name concordance between the R1
// and R2 streams and surfaces the sequencer chastity flag, so callers only
// see well-formed read-pair records.
package fastq

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when the R1 and R2 streams disagree, either
	// in record count or in read name.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

// A Read is a FASTQ read, comprising an ID line (including the leading '@')
// a sequence, and a quality string.
type Read struct {
	ID, Seq, Qual string
}

// Trim cuts the read and quality strings to at most n characters.
func (r *Read) Trim(n int) {
	if len(r.Seq) > n {
		r.Seq = r.Seq[:n]
	}
	if len(r.Qual) > n {
		r.Qual = r.Qual[:n]
	}
}

// Chastity is the sequencer-reported per-read confidence flag from a CASAVA
// 1.8 style ID line.  It says nothing about base-call correctness.
type Chastity int

const (
	// ChastityUnknown means the ID lines do not carry the flag.
	ChastityUnknown Chastity = iota
	// ChastityPass means both reads of the pair passed the filter.
	ChastityPass
	// ChastityFail means at least one read of the pair failed the filter.
	ChastityFail
)

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read data.  The
// Scan method returns the next read, returning a boolean indicating whether
// the read succeeded.  Scanners are not threadsafe.
//
// Scanner requires ID lines to begin with "@" and line 3 to begin with "+",
// but does not perform further validation (e.g., seq/qual being of equal
// length, containing only data in range, etc.)
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan the next read into the provided read.  Scan returns a boolean
// indicating whether the scan succeeded.  Once Scan returns false, it never
// returns true again.  Upon completion, the user should check the Err method
// to determine whether scanning stopped because of an error or because the
// end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	id := f.b.Text()
	if len(id) == 0 || id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	read.ID = id
	if !f.scan() {
		return false
	}
	read.Seq = f.b.Text()
	if !f.scan() {
		return false
	}
	unk := f.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	if !f.scan() {
		return false
	}
	read.Qual = f.b.Text()
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

// A Pair is one paired-end read record: the shared read name (ID with the
// leading '@' and any comment stripped), both reads, and the combined
// chastity state.
type Pair struct {
	Name     string
	R1, R2   Read
	Chastity Chastity
}

// parseID splits a FASTQ ID line into the read name and its per-read
// chastity flag (CASAVA 1.8 comment field, e.g. "1:N:0:CGATGT").  The flag
// byte is 0 when the comment does not carry one.
func parseID(id string) (name string, flag byte) {
	fields := strings.Fields(id[1:])
	if len(fields) == 0 {
		return "", 0
	}
	name = fields[0]
	if len(fields) > 1 && len(fields[1]) >= 3 && fields[1][1] == ':' {
		flag = fields[1][2]
	}
	return name, flag
}

// stripMateSuffix removes the ".1"/".2" read-name suffixes that SRA
// downloads append to the two sides of a pair.
func stripMateSuffix(name1, name2 string) (string, string) {
	if strings.HasSuffix(name1, ".1") && strings.HasSuffix(name2, ".2") {
		return name1[:len(name1)-2], name2[:len(name2)-2]
	}
	return name1, name2
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ streams
// record by record, checking that the two sides stay concordant.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided R1 and
// R2 readers.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{
		r1: NewScanner(r1),
		r2: NewScanner(r2),
	}
}

// Scan scans the next read pair into pair.  Scan returns a boolean
// indicating whether the scan succeeded.  Once Scan returns false, it never
// returns true again.  Upon completion, the user should check the Err method
// to determine whether scanning stopped because of an error or because the
// end of the stream was reached.
func (p *PairScanner) Scan(pair *Pair) bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan(&pair.R1)
	ok2 := p.r2.Scan(&pair.R2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	if !ok1 || !ok2 {
		return false
	}
	name1, flag1 := parseID(pair.R1.ID)
	name2, flag2 := parseID(pair.R2.ID)
	name1, name2 = stripMateSuffix(name1, name2)
	if name1 == "" || name1 != name2 {
		p.err = ErrDiscordant
		return false
	}
	pair.Name = name1
	pair.Chastity = combineChastity(flag1, flag2)
	return true
}

func combineChastity(flag1, flag2 byte) Chastity {
	if flag1 == 'N' && flag2 == 'N' {
		return ChastityPass
	}
	if (flag1 == 'N' || flag1 == 'Y') && (flag2 == 'N' || flag2 == 'Y') {
		return ChastityFail
	}
	return ChastityUnknown
}

// Err returns the scanning error, if any.  It should be checked after Scan
// returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
