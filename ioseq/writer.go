package ioseq

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/seqcore"
)

// wrapWidth is the FASTA symbol-line wrap width, matching the teacher's
// own FormatSeq(60) convention throughout unikmer/cmd.
const wrapWidth = 60

// Writer is the push interface the core's worker pipeline writes through.
type Writer interface {
	Write(s seqcore.Sequence) error
	Flush() error
}

// Format selects the output serialization.
type Format int

const (
	FASTA Format = iota
	FASTQ
)

// SequenceWriter serializes sequences as FASTA (60-column wrapped symbol
// lines) or FASTQ (four lines, quality verbatim).
type SequenceWriter struct {
	w        *bufio.Writer
	format   Format
	bioAlpha *seq.Alphabet
}

// NewSequenceWriter wraps w, writing in the given format. a selects the
// bio alphabet used for FASTA line-wrapping (DNA unless a is protein).
func NewSequenceWriter(w io.Writer, format Format, a alphabet.Alphabet) *SequenceWriter {
	bioAlpha := seq.DNA
	if a != nil && a.Name() == "protein" {
		bioAlpha = seq.Protein
	}
	return &SequenceWriter{w: bufio.NewWriter(w), format: format, bioAlpha: bioAlpha}
}

func (sw *SequenceWriter) Write(s seqcore.Sequence) error {
	switch sw.format {
	case FASTQ:
		return sw.writeFASTQ(s)
	default:
		return sw.writeFASTA(s)
	}
}

func (sw *SequenceWriter) writeFASTA(s seqcore.Sequence) error {
	if _, err := fmt.Fprintf(sw.w, ">%s\n", s.Identifier); err != nil {
		return err
	}
	bioSeq, err := seq.NewSeq(sw.bioAlpha, []byte(s.Symbols))
	if err != nil {
		return err
	}
	if _, err := sw.w.Write(bioSeq.FormatSeq(wrapWidth)); err != nil {
		return err
	}
	_, err = sw.w.WriteString("\n")
	return err
}

func (sw *SequenceWriter) writeFASTQ(s seqcore.Sequence) error {
	_, err := fmt.Fprintf(sw.w, "@%s\n%s\n+\n%s\n", s.Identifier, s.Symbols, s.Quality)
	return err
}

func (sw *SequenceWriter) Flush() error {
	return sw.w.Flush()
}
