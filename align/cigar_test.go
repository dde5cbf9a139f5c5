package align

import "testing"

func TestCigarAddMergesAdjacentRuns(t *testing.T) {
	var c Cigar
	c.AddOne(Match)
	c.AddOne(Match)
	c.Add(2, Mismatch)
	c.AddOne(Mismatch)
	if got, want := c.String(), "2M3X"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCigarZeroCountIsNoOp(t *testing.T) {
	var c Cigar
	c.Add(0, Match)
	if len(c) != 0 {
		t.Fatalf("expected empty cigar, got %v", c)
	}
}

func TestCigarLengths(t *testing.T) {
	var c Cigar
	c.Add(7, Match)
	c.Add(3, Insertion)
	c.Add(3, Match)
	c.Add(1, Mismatch)
	c.Add(3, Match)
	q, tg := c.Lengths()
	if q != 17 {
		t.Fatalf("query length: got %d, want 17", q)
	}
	if tg != 14 {
		t.Fatalf("target length: got %d, want 14", tg)
	}
}

func TestCigarIdentityTrimsTerminalGaps(t *testing.T) {
	var c Cigar
	c.Add(3, Deletion)
	c.Add(8, Match)
	c.Add(2, Mismatch)
	c.Add(3, Insertion)

	id := c.Identity()
	want := 8.0 / 10.0
	if id != want {
		t.Fatalf("got %v, want %v", id, want)
	}
}

func TestCigarIdentityBounds(t *testing.T) {
	var allMatch Cigar
	allMatch.Add(10, Match)
	if id := allMatch.Identity(); id != 1 {
		t.Fatalf("got %v, want 1", id)
	}

	var allMismatch Cigar
	allMismatch.Add(10, Mismatch)
	if id := allMismatch.Identity(); id != 0 {
		t.Fatalf("got %v, want 0", id)
	}
}

func TestCigarIdentityOnlyOneTerminalRunTrimmed(t *testing.T) {
	// A single leading/trailing run is trimmed; identity is otherwise
	// stable whether or not a gap run is present at the boundary.
	var withGap Cigar
	withGap.Add(2, Deletion)
	withGap.Add(5, Match)

	var withoutGap Cigar
	withoutGap.Add(5, Match)

	if withGap.Identity() != withoutGap.Identity() {
		t.Fatalf("trimming leading gap should not change identity: %v vs %v", withGap.Identity(), withoutGap.Identity())
	}
}

func TestCigarAppendAcrossBoundaryMerges(t *testing.T) {
	var a Cigar
	a.Add(4, Match)
	var b Cigar
	b.Add(3, Match)
	b.Add(2, Insertion)
	a.Append(b)
	if got, want := a.String(), "7M2I"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
