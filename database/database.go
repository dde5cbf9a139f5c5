// Package database builds and serves the k-mer inverted index used to
// find candidate target sequences for a query before any alignment work
// begins.
package database

import (
	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/kmer"
	"github.com/nsearch-go/nsearch/seqcore"
)

// maxUniqueKmers caps U so the counting-pass scratch arrays stay bounded
// even for large window sizes. When the alphabet's full k-mer space for a
// given window exceeds this cap, k-mer codes are folded into [0, U) by
// modulo before indexing (see bucket), trading a vanishingly rare bucket
// collision at large w for a bounded-memory index.
const maxUniqueKmers = 1 << 30

// Database is the two-way inverted k-mer index: kmer -> sequence-id run,
// and sequence-id -> its own k-mer run. Built once by Build, read-only
// afterward.
type Database struct {
	Alphabet alphabet.Alphabet
	Window   int
	Seqs     []seqcore.Sequence

	kmersFlat       []uint32
	kmerOffsetBySeq []int
	kmerCountBySeq  []int

	seqidsFlat        []int32
	seqidOffsetByKmer []int
	seqidCountByKmer  []int

	numBuckets int
}

// bucket folds a packed k-mer code into [0, numBuckets), the index space
// actually backing seqidOffsetByKmer/seqidCountByKmer.
func (d *Database) bucket(code uint32) int {
	return int(code) % d.numBuckets
}

// ProgressFunc is called every 512 sequences during Build, and once more
// at completion, with the number of sequences processed so far.
type ProgressFunc func(done, total int)

// Build constructs the index over seqs using window size w. w is clamped
// to the alphabet's packable maximum.
func Build(seqs []seqcore.Sequence, w int, a alphabet.Alphabet, progress ProgressFunc) *Database {
	w = kmer.ClampWindow(w, a)
	u := uniqueCount(w, a)

	d := &Database{
		Alphabet:   a,
		Window:     w,
		Seqs:       seqs,
		numBuckets: u,

		kmerOffsetBySeq: make([]int, len(seqs)),
		kmerCountBySeq:  make([]int, len(seqs)),

		seqidOffsetByKmer: make([]int, u),
		seqidCountByKmer:  make([]int, u),
	}

	// Pass 1: count, per bucket, the number of distinct sequences whose
	// k-mer stream touches it, and the total k-mer stream length.
	uniqueMarker := make([]int, u)
	for i := range uniqueMarker {
		uniqueMarker[i] = -1
	}
	totalKmers := 0
	for s, seq := range seqs {
		it := kmer.NewIterator([]byte(seq.Symbols), w, a)
		count := 0
		for {
			code, _, ok := it.Next()
			count++
			if !ok {
				count--
				break
			}
			if code == kmer.Ambiguous {
				continue
			}
			b := d.bucket(code)
			if uniqueMarker[b] != s {
				uniqueMarker[b] = s
				d.seqidCountByKmer[b]++
			}
		}
		totalKmers += count
		reportProgress(progress, s+1, len(seqs))
	}

	// Prefix-sum seqidCountByKmer into seqidOffsetByKmer.
	offset := 0
	for k := 0; k < u; k++ {
		d.seqidOffsetByKmer[k] = offset
		offset += d.seqidCountByKmer[k]
	}
	d.seqidsFlat = make([]int32, offset)
	d.kmersFlat = make([]uint32, totalKmers)

	// Pass 2: fill kmersFlat and seqidsFlat.
	cursor := make([]int, u)
	for i := range uniqueMarker {
		uniqueMarker[i] = -1
	}
	kmerCursor := 0
	for s, seq := range seqs {
		d.kmerOffsetBySeq[s] = kmerCursor
		it := kmer.NewIterator([]byte(seq.Symbols), w, a)
		n := 0
		for {
			code, _, ok := it.Next()
			if !ok {
				break
			}
			d.kmersFlat[kmerCursor] = code
			kmerCursor++
			n++
			if code == kmer.Ambiguous {
				continue
			}
			b := d.bucket(code)
			if uniqueMarker[b] != s {
				uniqueMarker[b] = s
				d.seqidsFlat[d.seqidOffsetByKmer[b]+cursor[b]] = int32(s)
				cursor[b]++
			}
		}
		d.kmerCountBySeq[s] = n
	}

	return d
}

func reportProgress(progress ProgressFunc, done, total int) {
	if progress == nil {
		return
	}
	if done%512 == 0 || done == total {
		progress(done, total)
	}
}

func uniqueCount(w int, a alphabet.Alphabet) int {
	u := 1
	for i := 0; i < w; i++ {
		u *= 1 << uint(a.BitsPerSymbol())
		if u > maxUniqueKmers {
			return maxUniqueKmers
		}
	}
	if u > maxUniqueKmers {
		return maxUniqueKmers
	}
	return u
}

// SeqIDsByKmer returns the distinct sequence ids whose sequence contains
// the given unambiguous k-mer at least once.
func (d *Database) SeqIDsByKmer(code uint32) []int32 {
	if code == kmer.Ambiguous {
		return nil
	}
	b := d.bucket(code)
	off := d.seqidOffsetByKmer[b]
	n := d.seqidCountByKmer[b]
	return d.seqidsFlat[off : off+n]
}

// Kmers returns the k-mer stream (including Ambiguous placeholders) of
// sequence s, in sequence order.
func (d *Database) Kmers(s int) []uint32 {
	off := d.kmerOffsetBySeq[s]
	n := d.kmerCountBySeq[s]
	return d.kmersFlat[off : off+n]
}

// NumSeqs returns the number of sequences indexed.
func (d *Database) NumSeqs() int { return len(d.Seqs) }

// NumBuckets returns the size of the bucket space backing
// seqidOffsetByKmer/seqidCountByKmer, i.e. the size a caller's own
// per-query "unique k-mer seen" bitset should be.
func (d *Database) NumBuckets() int { return d.numBuckets }

// Bucket exposes the same code->bucket fold SeqIDsByKmer uses internally,
// for callers (the search package) that need to deduplicate candidate
// counting per bucket rather than per raw code.
func (d *Database) Bucket(code uint32) int { return d.bucket(code) }
