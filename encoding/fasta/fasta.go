// Package fasta parses FASTA files.  Briefly, FASTA files consist of a
// number of named sequences that may be interrupted by newlines.  For
// example:
//
// >amplicon
// ACGTAC
// GAGGAC
// GCG
//
// Sequence names are the stretch of characters excluding spaces immediately
// after '>'; any text after a space is ignored.  Sequences are held in
// memory, uppercased, which is appropriate for the amplicon-sized references
// this package is used for.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta holds the contents of a FASTA file.
type Fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads all FASTA data from r.
func New(r io.Reader) (*Fasta, error) {
	f := &Fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	var seqName string
	var seq strings.Builder
	flush := func() error {
		if seq.Len() == 0 {
			return nil
		}
		if seqName == "" {
			return errors.New("malformed FASTA file: sequence data before any header")
		}
		if _, found := f.seqs[seqName]; found {
			return errors.Errorf("malformed FASTA file: duplicate sequence %s", seqName)
		}
		f.seqs[seqName] = strings.ToUpper(seq.String())
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.Split(line[1:], " ")[0]
		} else {
			seq.WriteString(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(f.seqNames) == 0 {
		return nil, errors.New("empty FASTA file")
	}
	return f, nil
}

// Get returns the full sequence with the given name.
func (f *Fasta) Get(seqName string) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	return s, nil
}

// First returns the first sequence in the file, the common case for
// single-amplicon references.
func (f *Fasta) First() string {
	return f.seqs[f.seqNames[0]]
}

// Len returns the length of the given sequence.
func (f *Fasta) Len(seqName string) (int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return len(s), nil
}

// SeqNames returns the names of all sequences, in the order of appearance in
// the FASTA file.
func (f *Fasta) SeqNames() []string {
	return f.seqNames
}
