package database

import (
	"bytes"
	"testing"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/kmer"
	"github.com/nsearch-go/nsearch/seqcore"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	records := []seqcore.Sequence{
		seqcore.New("seq1", "ACGTACGTACGTACGT"),
		seqcore.New("seq2", "TTGGCCAAACGTACGT"),
		seqcore.New("seq3", "CCCCCCCCCCCCCCCC"),
	}
	db := Build(records, 5, alphabet.DNA{}, nil)

	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf, alphabet.DNA{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Window != db.Window {
		t.Fatalf("window mismatch: got %d, want %d", loaded.Window, db.Window)
	}
	if loaded.NumSeqs() != db.NumSeqs() {
		t.Fatalf("seq count mismatch: got %d, want %d", loaded.NumSeqs(), db.NumSeqs())
	}
	for i := range records {
		if loaded.Seqs[i].Identifier != db.Seqs[i].Identifier || loaded.Seqs[i].Symbols != db.Seqs[i].Symbols {
			t.Fatalf("sequence %d mismatch after round trip", i)
		}
	}

	for s, rec := range records {
		it := kmer.NewIterator([]byte(rec.Symbols), db.Window, alphabet.DNA{})
		for {
			code, _, ok := it.Next()
			if !ok {
				break
			}
			if code == kmer.Ambiguous {
				continue
			}
			want := db.SeqIDsByKmer(code)
			got := loaded.SeqIDsByKmer(code)
			if len(want) != len(got) {
				t.Fatalf("seq %d kmer %d: run length mismatch got %d want %d", s, code, len(got), len(want))
			}
			for i := range want {
				if want[i] != got[i] {
					t.Fatalf("seq %d kmer %d: run mismatch at %d: got %d want %d", s, code, i, got[i], want[i])
				}
			}
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("not a valid database file at all")
	if _, err := Load(&buf, alphabet.DNA{}); err == nil {
		t.Fatal("expected error loading garbage input")
	}
}

func TestLoadRejectsAlphabetMismatch(t *testing.T) {
	records := []seqcore.Sequence{seqcore.New("s1", "ACGTACGT")}
	db := Build(records, 4, alphabet.DNA{}, nil)

	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := Load(&buf, alphabet.Protein{}); err != ErrAlphabetMismatch {
		t.Fatalf("expected ErrAlphabetMismatch, got %v", err)
	}
}
