package kmer

import "github.com/nsearch-go/nsearch/alphabet"

// Iterator streams (kmer, position) pairs for one sequence. It is a
// finite, non-restartable stream: construct a new Iterator per sequence.
type Iterator struct {
	seq []byte
	a   alphabet.Alphabet
	w   int

	bitsPerSymbol uint
	topShift      uint

	pos int // next window to emit, or > end once finished
	end int // last valid window index, inclusive

	code uint32
	amb  int // index of most recently seen ambiguous/invalid symbol
}

// NewIterator builds an Iterator over seq with window size w (clamped per
// ClampWindow). A sequence shorter than the clamped window yields an empty
// stream; this is not an error.
func NewIterator(seq []byte, w int, a alphabet.Alphabet) *Iterator {
	w = ClampWindow(w, a)

	it := &Iterator{
		seq:           seq,
		a:             a,
		w:             w,
		bitsPerSymbol: uint(a.BitsPerSymbol()),
		amb:           noAmbSeen,
	}
	if w <= 0 || len(seq) < w {
		it.pos, it.end = 0, -1
		return it
	}
	it.topShift = uint(w-1) * it.bitsPerSymbol
	it.end = len(seq) - w

	// Seed the rolling code with the first w-1 symbols; the first call to
	// Next folds in the w-th symbol to complete window 0.
	for i := 0; i < w-1; i++ {
		it.fold(i)
	}
	return it
}

func (it *Iterator) fold(rawIdx int) {
	bits, ambiguous, ok := it.a.PackedValue(it.seq[rawIdx])
	if !ok {
		ambiguous = true
	}
	it.code = (it.code >> it.bitsPerSymbol) | (bits << it.topShift)
	if ambiguous {
		it.amb = rawIdx
	}
}

// Next returns the next (kmer, position) pair, or ok=false once exhausted.
func (it *Iterator) Next() (code uint32, pos int, ok bool) {
	if it.pos > it.end {
		return 0, 0, false
	}

	it.fold(it.pos + it.w - 1)

	p := it.pos
	it.pos++

	if (p+it.w-1)-it.amb < it.w {
		return Ambiguous, p, true
	}
	return it.code, p, true
}

// Window returns the clamped window size used by this iterator.
func (it *Iterator) Window() int { return it.w }
