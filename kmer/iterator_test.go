package kmer

import (
	"testing"

	"github.com/nsearch-go/nsearch/alphabet"
)

func collect(seq string, w int, a alphabet.Alphabet) ([]uint32, []int) {
	it := NewIterator([]byte(seq), w, a)
	var codes []uint32
	var positions []int
	for {
		c, p, ok := it.Next()
		if !ok {
			break
		}
		codes = append(codes, c)
		positions = append(positions, p)
	}
	return codes, positions
}

func TestIteratorWindowCount(t *testing.T) {
	seq := "ACGTACGTAC"
	for w := 1; w <= len(seq); w++ {
		codes, _ := collect(seq, w, alphabet.DNA{})
		want := len(seq) - w + 1
		if len(codes) != want {
			t.Fatalf("w=%d: got %d kmers, want %d", w, len(codes), want)
		}
	}
}

func TestIteratorShortSequenceIsEmpty(t *testing.T) {
	codes, _ := collect("ACG", 5, alphabet.DNA{})
	if len(codes) != 0 {
		t.Fatalf("expected empty stream, got %d kmers", len(codes))
	}
}

func TestIteratorPositionsAreSequential(t *testing.T) {
	_, positions := collect("ACGTACGT", 3, alphabet.DNA{})
	for i, p := range positions {
		if p != i {
			t.Fatalf("position %d: got %d, want %d", i, p, i)
		}
	}
}

func TestIteratorFlagsAmbiguousWindow(t *testing.T) {
	// 'N' at index 2 should make every window containing it Ambiguous.
	seq := "ACNTACGT"
	w := 3
	codes, positions := collect(seq, w, alphabet.DNA{})
	for i, p := range positions {
		containsN := p <= 2 && 2 < p+w
		if containsN && codes[i] != Ambiguous {
			t.Fatalf("window at %d should be ambiguous", p)
		}
		if !containsN && codes[i] == Ambiguous {
			t.Fatalf("window at %d should not be ambiguous", p)
		}
	}
}

func TestIteratorUnambiguousBijection(t *testing.T) {
	// Two distinct unambiguous windows must produce distinct codes, and
	// identical windows must produce identical codes.
	seen := map[uint32]string{}
	seq := "ACGTTGCAACGTTGCA"
	w := 4
	it := NewIterator([]byte(seq), w, alphabet.DNA{})
	for {
		c, p, ok := it.Next()
		if !ok {
			break
		}
		window := seq[p : p+w]
		if prev, ok := seen[c]; ok && prev != window {
			t.Fatalf("code %d maps to both %q and %q", c, prev, window)
		}
		seen[c] = window
	}
}

func TestClampWindow(t *testing.T) {
	if got := ClampWindow(40, alphabet.DNA{}); got != 16 {
		t.Fatalf("DNA clamp: got %d, want 16", got)
	}
	if got := ClampWindow(10, alphabet.Protein{}); got != 6 {
		t.Fatalf("protein clamp: got %d, want 6", got)
	}
	if got := ClampWindow(4, alphabet.DNA{}); got != 4 {
		t.Fatalf("no clamp needed: got %d, want 4", got)
	}
}
