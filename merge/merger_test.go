package merge

import (
	"testing"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/seqcore"
)

func mustSeq(t *testing.T, identifier, symbols, quality string) seqcore.Sequence {
	t.Helper()
	s, err := seqcore.NewWithQuality(identifier, symbols, quality)
	if err != nil {
		t.Fatalf("building sequence: %v", err)
	}
	return s
}

func TestMergeNonStaggeredOverlap(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 5, 1.0)

	fwd := mustSeq(t, "fwd1", "ACTGGATGGA", "JJJJJJJJJJ")
	rev := mustSeq(t, "rev1", "ATGGAATCCC", "JJJJJJJJJJ").ReverseComplement(alphabet.DNA{})

	merged, ok := m.Merge(fwd, rev)
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if merged.Symbols != "ACTGGATGGAATCCC" {
		t.Fatalf("got %q", merged.Symbols)
	}
}

func TestMergeStaggeredOverlapIsTrimmed(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 5, 1.0)

	fwd := mustSeq(t, "fwd1", "ATCCCGGA", "JJJJJJJJ")
	rev := mustSeq(t, "rev1", "ATGGAATCCC", "JJJJJJJJJJ").ReverseComplement(alphabet.DNA{})

	merged, ok := m.Merge(fwd, rev)
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if merged.Symbols != "ATCCC" {
		t.Fatalf("got %q", merged.Symbols)
	}
}

func TestMergeFailsBelowMinOverlap(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 6, 0.8)

	fwd := mustSeq(t, "fwd1", "ACTGGATGGA", "JJJJJJJJJJ")
	rev := mustSeq(t, "rev1", "ATGGAATCCC", "JJJJJJJJJJ").ReverseComplement(alphabet.DNA{})

	if _, ok := m.Merge(fwd, rev); ok {
		t.Fatal("expected merge to fail: overlap too short")
	}
}

func TestMergeFailsBelowMinIdentity(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 5, 1.0)

	fwd := mustSeq(t, "fwd1", "ACTGGATGGA", "JJJJJJJJJJ")
	rev := mustSeq(t, "rev1", "GATAGAATCCC", "JJJJJJJJJJJ").ReverseComplement(alphabet.DNA{})

	if _, ok := m.Merge(fwd, rev); ok {
		t.Fatal("expected merge to fail: identity below threshold")
	}
}

func TestMergePosteriorQualityCalculation(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 3, 1.0)

	fwd := mustSeq(t, "fwd1", "ATTGACCGT", "1>AA1@FFF")
	rev := mustSeq(t, "rev1", "ACCGTGAATC", "?AAAAFFFFF").ReverseComplement(alphabet.DNA{})

	merged, ok := m.Merge(fwd, rev)
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if merged.Symbols != "ATTGACCGTGAATC" {
		t.Fatalf("sequence: got %q", merged.Symbols)
	}
	if merged.Quality != "1>AAJJJJJFFFFF" {
		t.Fatalf("quality: got %q", merged.Quality)
	}
}

func TestMergedIdentifierIsForwardIdentifier(t *testing.T) {
	m := NewMerger(alphabet.DNA{}, 5, 1.0)

	fwd := mustSeq(t, "myread/1", "ACTGGATGGA", "JJJJJJJJJJ")
	rev := mustSeq(t, "myread/2", "ATGGAATCCC", "JJJJJJJJJJ").ReverseComplement(alphabet.DNA{})

	merged, ok := m.Merge(fwd, rev)
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if merged.Identifier != "myread/1" {
		t.Fatalf("got identifier %q", merged.Identifier)
	}
}
