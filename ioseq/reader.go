// Package ioseq adapts the core's plain seqcore.Sequence to concrete
// FASTA/FASTQ I/O, using github.com/shenwei356/bio for parsing exactly as
// nsearch's own CLI tools do, and implements the hit-report writers.
package ioseq

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/nsearch-go/nsearch/seqcore"
)

// Reader is the pull interface the core's worker pipeline consumes.
type Reader interface {
	// EndOfFile reports whether the underlying stream is exhausted.
	EndOfFile() bool
	// ReadOne pulls the next record, or io.EOF once EndOfFile would be true.
	ReadOne() (seqcore.Sequence, error)
	// ReadN pulls up to n records, returning fewer only at end of input.
	ReadN(n int) ([]seqcore.Sequence, error)
	NumBytesRead() int64
	NumBytesTotal() int64
}

// FastxReader reads FASTA or FASTQ records (auto-detected by
// shenwei356/bio) from a named file, upper-casing symbols on read and
// preserving quality verbatim, per spec's reader contract.
type FastxReader struct {
	path   string
	reader *fastx.Reader
	total  int64
	read   int64
	atEOF  bool
}

// NewFastxReader opens path for reading. It leaves seq.ValidateSeq as it
// is, and no caller in this repository changes it.
func NewFastxReader(path string) (*FastxReader, error) {
	r, err := fastx.NewDefaultReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	var total int64
	if fi, statErr := os.Stat(path); statErr == nil {
		total = fi.Size()
	}

	return &FastxReader{path: path, reader: r, total: total}, nil
}

func (r *FastxReader) EndOfFile() bool {
	return r.atEOF
}

func (r *FastxReader) ReadOne() (seqcore.Sequence, error) {
	record, err := r.reader.Read()
	if err != nil {
		if err == io.EOF {
			r.atEOF = true
		}
		return seqcore.Sequence{}, err
	}

	symbols := bytes.ToUpper(record.Seq.Seq)

	out := seqcore.Sequence{
		Identifier: string(record.ID),
		Symbols:    string(symbols),
	}
	if len(record.Seq.Qual) > 0 {
		out.Quality = string(record.Seq.Qual)
	}

	r.read += int64(len(record.ID) + len(symbols) + len(record.Seq.Qual))
	return out, nil
}

func (r *FastxReader) ReadN(n int) ([]seqcore.Sequence, error) {
	out := make([]seqcore.Sequence, 0, n)
	for i := 0; i < n; i++ {
		s, err := r.ReadOne()
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

// NumBytesRead approximates bytes consumed so far by summing each read
// record's identifier/symbol/quality lengths, since the underlying
// fastx.Reader does not expose a raw byte-offset accessor.
func (r *FastxReader) NumBytesRead() int64 {
	return r.read
}

func (r *FastxReader) NumBytesTotal() int64 {
	return r.total
}
