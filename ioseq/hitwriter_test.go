package ioseq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nsearch-go/nsearch/align"
	"github.com/nsearch-go/nsearch/search"
	"github.com/nsearch-go/nsearch/seqcore"
)

func exactCigar(n int) align.Cigar {
	var c align.Cigar
	c.Add(n, align.Match)
	return c
}

func TestExtractAlignmentLinesAllMatch(t *testing.T) {
	lines, numCols, numMatches, numGaps, correct := extractAlignmentLines("ACGTACGT", "ACGTACGT", exactCigar(8))

	if !correct {
		t.Fatal("expected correct alignment")
	}
	if numCols != 8 || numMatches != 8 || numGaps != 0 {
		t.Fatalf("got cols=%d matches=%d gaps=%d", numCols, numMatches, numGaps)
	}
	if len(lines) != 1 {
		t.Fatalf("expected a single wrapped line for an 8-column alignment, got %d", len(lines))
	}
	if lines[0].q != "ACGTACGT" || lines[0].t != "ACGTACGT" {
		t.Fatalf("got q=%q t=%q", lines[0].q, lines[0].t)
	}
	if lines[0].a != "||||||||" {
		t.Fatalf("got marker line %q", lines[0].a)
	}
}

func TestExtractAlignmentLinesWrapsAt60Columns(t *testing.T) {
	query := strings.Repeat("A", 70)
	target := strings.Repeat("A", 70)

	lines, numCols, _, _, _ := extractAlignmentLines(query, target, exactCigar(70))

	if numCols != 70 {
		t.Fatalf("got %d cols, want 70", numCols)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 wrapped lines, got %d", len(lines))
	}
	if len(lines[0].q) != 60 || len(lines[1].q) != 10 {
		t.Fatalf("got line lengths %d, %d", len(lines[0].q), len(lines[1].q))
	}
}

func TestExtractAlignmentLinesTrimsTerminalGap(t *testing.T) {
	var c align.Cigar
	c.Add(2, align.Insertion)
	c.Add(4, align.Match)

	lines, numCols, numMatches, numGaps, _ := extractAlignmentLines("AAACGT", "ACGT", c)

	if numGaps != 0 {
		t.Fatalf("expected the leading gap run to be trimmed from display, got %d gaps", numGaps)
	}
	if numCols != 4 || numMatches != 4 {
		t.Fatalf("got cols=%d matches=%d", numCols, numMatches)
	}
	if lines[0].qs != 3 {
		t.Fatalf("expected display to start after the trimmed 2-column insertion, got qs=%d", lines[0].qs)
	}
}

func TestExtractAlignmentLinesFlagsMismatchedMatchRun(t *testing.T) {
	_, _, _, _, correct := extractAlignmentLines("ACGT", "ACGA", exactCigar(4))
	if correct {
		t.Fatal("expected a Match run over differing symbols to be flagged incorrect")
	}
}

func TestHumanHitWriterRendersHeaderAndStatsLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewHumanHitWriter(&buf)

	query := seqcore.New("query1", "ACGTACGT")
	hits := []search.Hit{
		{
			Target:   seqcore.New("target1", "ACGTACGT"),
			Cigar:    exactCigar(8),
			Identity: 1.0,
			Strand:   search.Plus,
		},
	}

	if err := w.Write(query, hits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Query >query1") {
		t.Fatalf("missing query header, got:\n%s", out)
	}
	if !strings.Contains(out, "target1") {
		t.Fatalf("missing target row, got:\n%s", out)
	}
	if !strings.Contains(out, "8 cols, 8 ids (100.0%), 0 gaps (0.0%)") {
		t.Fatalf("missing stats line, got:\n%s", out)
	}
}

func TestCSVHitWriterEmitsOneRowPerHit(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVHitWriter(&buf)

	query := seqcore.New("query1", "ACGTACGT")
	hits := []search.Hit{
		{Target: seqcore.New("target1", "ACGTACGT"), Cigar: exactCigar(8), Identity: 1.0, Strand: search.Plus},
		{Target: seqcore.New("target2", "ACGTACGT"), Cigar: exactCigar(8), Identity: 0.875, Strand: search.Minus},
	}

	if err := w.Write(query, hits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 CSV rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "query1,target1,") {
		t.Fatalf("unexpected first row: %q", lines[0])
	}
	if !strings.Contains(lines[1], ",-\n") && !strings.HasSuffix(lines[1], ",-") {
		t.Fatalf("expected minus-strand row to end with the strand column, got %q", lines[1])
	}
}
