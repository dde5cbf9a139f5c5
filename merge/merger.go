// Package merge implements the paired-end read merger: overlap detection
// by brute-force offset scan, consensus base/quality calling via the
// QScore posterior tables, and staggered-vs-non-staggered assembly,
// grounded on nsearch's PairedEnd::Merger.
package merge

import (
	"math"

	"github.com/nsearch-go/nsearch/alphabet"
	"github.com/nsearch-go/nsearch/seqcore"
)

// DefaultMinOverlap and DefaultMinIdentity match the original's stated
// defaults, even though its own TODO flags them as possibly too strict.
const (
	DefaultMinOverlap  = 16
	DefaultMinIdentity = 0.9
)

// Merger merges forward/reverse read pairs into one consensus sequence.
type Merger struct {
	alphabet    alphabet.Alphabet
	minOverlap  int
	minIdentity float64
}

// NewMerger builds a Merger over alphabet a using minOverlap/minIdentity.
// A zero minOverlap or non-positive minIdentity falls back to the defaults.
func NewMerger(a alphabet.Alphabet, minOverlap int, minIdentity float64) *Merger {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	if minIdentity <= 0 {
		minIdentity = DefaultMinIdentity
	}
	return &Merger{alphabet: a, minOverlap: minOverlap, minIdentity: minIdentity}
}

type overlapInfo struct {
	length int
	pos1   int
	pos2   int
}

// Merge attempts to merge fwd and rev (both must carry quality), returning
// the merged sequence and true on success, or the zero Sequence and false
// if no overlap of at least minOverlap bases survives minIdentity.
func (m *Merger) Merge(fwd, rev seqcore.Sequence) (seqcore.Sequence, bool) {
	g := rev.ReverseComplement(m.alphabet)

	overlap, ok := m.findBestOverlap(fwd, g)
	if !ok {
		return seqcore.Sequence{}, false
	}

	overlap1 := fwd.Subsequence(overlap.pos1, overlap.length)
	overlap2 := g.Subsequence(overlap.pos2, overlap.length)

	symbols := make([]byte, overlap.length)
	quality := make([]byte, overlap.length)
	for i := 0; i < overlap.length; i++ {
		s1, s2 := overlap1.Symbols[i], overlap2.Symbols[i]
		q1 := int(overlap1.Quality[i]) - MinQual
		q2 := int(overlap2.Quality[i]) - MinQual

		if q1 >= q2 {
			symbols[i] = s1
		} else {
			symbols[i] = s2
		}

		if m.alphabet.DoSymbolsMatch(s1, s2) {
			quality[i] = byte(MinQual + PosteriorMatch(q1, q2))
		} else {
			quality[i] = byte(MinQual + PosteriorMismatch(q1, q2))
		}
	}

	merged := seqcore.Sequence{
		Identifier: fwd.Identifier,
		Symbols:    string(symbols),
		Quality:    string(quality),
	}

	if !isStaggered(overlap) {
		left := fwd.Subsequence(0, overlap.pos1)
		right := g.Subsequence(overlap.pos2+overlap.length, -1)
		merged.Symbols = left.Symbols + merged.Symbols + right.Symbols
		merged.Quality = left.Quality + merged.Quality + right.Quality
	}

	return merged, true
}

// findBestOverlap slides g along f from i=0 (fully separate) to i=|f|+|g|
// (fully separate on the other side), tracking the offset with the highest
// match-minus-mismatch score among those meeting minOverlap, ties favoring
// the earlier offset (the first one found, since score must strictly
// improve to replace it).
func (m *Merger) findBestOverlap(f, g seqcore.Sequence) (overlapInfo, bool) {
	len1, len2 := f.Length(), g.Length()

	best := overlapInfo{}
	bestScore := math.MinInt64
	found := false

	for i := 0; i <= len1+len2; i++ {
		pos1 := max(len1-i, 0)
		pos2 := max(i-len1, 0)
		length := min(len1-pos1, len2-pos2)
		if length < m.minOverlap {
			continue
		}

		score, ok := m.computeOverlapScore(f.Symbols[pos1:pos1+length], g.Symbols[pos2:pos2+length], length)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = overlapInfo{length: length, pos1: pos1, pos2: pos2}
			found = true
		}
	}

	return best, found
}

// computeOverlapScore scores an overlap candidate by +1 per match, -1 per
// mismatch, aborting (ok=false) once mismatches exceed
// floor(len * (1 - minIdentity)).
func (m *Merger) computeOverlapScore(s1, s2 string, length int) (int, bool) {
	maxMismatches := int(float64(length) - float64(length)*m.minIdentity)

	score := 0
	mismatches := 0
	for i := 0; i < length; i++ {
		if m.alphabet.DoSymbolsMatch(s1[i], s2[i]) {
			score++
		} else {
			score--
			mismatches++
			if mismatches > maxMismatches {
				return 0, false
			}
		}
	}
	return score, true
}

func isStaggered(o overlapInfo) bool {
	return o.pos2 > 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
