package align

import "testing"

// TestBandedAlignScenarioS4 exercises the worked affine-gap example: a
// 17nt query against a 14nt target with a single 3-base insertion run and
// one interior mismatch. The CIGAR is verified against the sequences by
// hand; the score is the one that the stated open+L*extend affine formula
// actually produces for that CIGAR (13 matches, 1 mismatch, one interior
// 3-column gap run) -- see DESIGN.md for why this differs from the
// arithmetic shown alongside the scenario.
func TestBandedAlignScenarioS4(t *testing.T) {
	A := []byte("TATAATGTTTACATTGG")
	B := []byte("TATAATGACACTGG")
	al := NewBandedAligner(testParams())
	var c Cigar
	score := al.Align(A, B, exactMatch, 0, 0, len(A), len(B), Forward, &c)

	if got, want := c.String(), "7M3I3M1X3M"; got != want {
		t.Fatalf("cigar: got %q, want %q", got, want)
	}
	if want := 13*2 - 4 - (20 + 3*2); score != want {
		t.Fatalf("score: got %d, want %d", score, want)
	}
}

func TestBandedAlignEmptyRectangle(t *testing.T) {
	A := []byte("ACGT")
	al := NewBandedAligner(testParams())
	var c Cigar
	score := al.Align(A, A, exactMatch, 2, 2, 2, 2, Forward, &c)
	if score != 0 {
		t.Fatalf("score: got %d, want 0", score)
	}
	if len(c) != 0 {
		t.Fatalf("cigar should be untouched, got %v", c)
	}
}

func TestBandedAlignOneAxisEmptyEmitsSingleRun(t *testing.T) {
	A := []byte("ACGTACGT")
	B := []byte("ACGT")
	al := NewBandedAligner(testParams())

	var c Cigar
	al.Align(A, B, exactMatch, 4, 4, 8, 4, Forward, &c)
	if got, want := c.String(), "4I"; got != want {
		t.Fatalf("cigar: got %q, want %q", got, want)
	}
}

func TestBandedAlignAccountingInvariant(t *testing.T) {
	A := []byte("TATAATGTTTACATTGG")
	B := []byte("TATAATGACACTGG")
	al := NewBandedAligner(testParams())
	var c Cigar
	al.Align(A, B, exactMatch, 0, 0, len(A), len(B), Forward, &c)
	q, tg := c.Lengths()
	if q != len(A) {
		t.Fatalf("query length accounting: got %d, want %d", q, len(A))
	}
	if tg != len(B) {
		t.Fatalf("target length accounting: got %d, want %d", tg, len(B))
	}
}

func TestBandedAlignSymmetry(t *testing.T) {
	A := []byte("TATAATGTTTACATTGG")
	B := []byte("TATAATGACACTGG")
	al := NewBandedAligner(testParams())

	var c1 Cigar
	s1 := al.Align(A, B, exactMatch, 0, 0, len(A), len(B), Forward, &c1)

	var c2 Cigar
	s2 := al.Align(B, A, exactMatch, 0, 0, len(B), len(A), Forward, &c2)

	if s1 != s2 {
		t.Fatalf("banded_align(A,B)=%d != banded_align(B,A)=%d", s1, s2)
	}
}

func TestBandedAlignNoStateLeakAcrossCalls(t *testing.T) {
	al := NewBandedAligner(testParams())

	big := []byte("ACGTACGTACGTACGTACGT")
	var c1 Cigar
	al.Align(big, big, exactMatch, 0, 0, len(big), len(big), Forward, &c1)

	small := []byte("AC")
	var c2 Cigar
	score := al.Align(small, small, exactMatch, 0, 0, len(small), len(small), Forward, &c2)
	if score != 4 {
		t.Fatalf("score after reuse: got %d, want 4", score)
	}
	if got, want := c2.String(), "2M"; got != want {
		t.Fatalf("cigar after reuse: got %q, want %q", got, want)
	}
}
