package database

import (
	"testing"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/kmer"
	"github.com/nsearch-go/nsearch/seqcore"
)

func buildTestDB(t *testing.T, seqs []string, w int) (*Database, []seqcore.Sequence) {
	t.Helper()
	records := make([]seqcore.Sequence, len(seqs))
	for i, s := range seqs {
		records[i] = seqcore.New(string(rune('A'+i)), s)
	}
	return Build(records, w, alphabet.DNA{}, nil), records
}

func TestIndexCompleteness(t *testing.T) {
	seqs := []string{
		"ACGTACGTAC",
		"TTTTACGTGG",
		"CCCCCCCCCC",
	}
	w := 4
	db, records := buildTestDB(t, seqs, w)

	for s, rec := range records {
		it := kmer.NewIterator([]byte(rec.Symbols), w, alphabet.DNA{})
		for {
			code, _, ok := it.Next()
			if !ok {
				break
			}
			if code == kmer.Ambiguous {
				continue
			}
			ids := db.SeqIDsByKmer(code)
			count := 0
			for _, id := range ids {
				if int(id) == s {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("seq %d kmer %d: expected exactly one occurrence in seqid run, got %d", s, code, count)
			}
		}
	}
}

func TestSeqIDsByKmerExcludesNonContaining(t *testing.T) {
	db, _ := buildTestDB(t, []string{"AAAACCCC", "GGGGTTTT"}, 4)

	it := kmer.NewIterator([]byte("AAAA"), 4, alphabet.DNA{})
	code, _, ok := it.Next()
	if !ok {
		t.Fatal("expected a kmer")
	}
	ids := db.SeqIDsByKmer(code)
	for _, id := range ids {
		if id == 1 {
			t.Fatalf("sequence 1 does not contain AAAA, but appears in its run")
		}
	}
	if len(ids) != 1 || ids[0] != 0 {
		t.Fatalf("expected only sequence 0 in run, got %v", ids)
	}
}

func TestKmersStreamMatchesIterator(t *testing.T) {
	seqStr := "ACGTACGTAC"
	db, _ := buildTestDB(t, []string{seqStr}, 3)

	want := []uint32{}
	it := kmer.NewIterator([]byte(seqStr), 3, alphabet.DNA{})
	for {
		c, _, ok := it.Next()
		if !ok {
			break
		}
		want = append(want, c)
	}

	got := db.Kmers(0)
	if len(got) != len(want) {
		t.Fatalf("got %d kmers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kmer %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAmbiguousKmerHasNoSeqIDRun(t *testing.T) {
	db, _ := buildTestDB(t, []string{"ACGNACGT"}, 3)
	if ids := db.SeqIDsByKmer(kmer.Ambiguous); ids != nil {
		t.Fatalf("expected nil run for ambiguous kmer, got %v", ids)
	}
}

func TestEmptySequenceYieldsNoKmers(t *testing.T) {
	db, _ := buildTestDB(t, []string{"AC", "ACGTACGT"}, 4)
	if got := db.Kmers(0); len(got) != 0 {
		t.Fatalf("sequence shorter than window should yield no kmers, got %d", len(got))
	}
}

func TestProgressReportedAtCompletion(t *testing.T) {
	var lastDone, lastTotal int
	calls := 0
	progress := func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}
	records := make([]seqcore.Sequence, 5)
	for i := range records {
		records[i] = seqcore.New(string(rune('A'+i)), "ACGTACGT")
	}
	Build(records, 4, alphabet.DNA{}, progress)

	if calls == 0 {
		t.Fatal("expected at least one progress callback")
	}
	if lastDone != len(records) || lastTotal != len(records) {
		t.Fatalf("final progress callback: got (%d,%d), want (%d,%d)", lastDone, lastTotal, len(records), len(records))
	}
}
