// Package kmer implements the k-mer iterator: it streams every length-w
// window of a sequence as a packed 32-bit integer, flagging windows that
// contain an ambiguous symbol.
package kmer

import "github.com/nsearch-go/nsearch/alphabet"

// Ambiguous is the sentinel k-mer value denoting a window that still
// contains an ambiguous symbol.
const Ambiguous uint32 = 0xFFFFFFFF

// kmerBits is the width of the packed k-mer integer.
const kmerBits = 32

// noAmbSeen is a sentinel "last ambiguous index" far enough in the past
// that it can never satisfy `pos - amb < w` for any realistic window/position.
const noAmbSeen = -(1 << 30)

// MaxWindow returns the largest window size representable in a single
// packed k-mer for alphabet a.
func MaxWindow(a alphabet.Alphabet) int {
	return kmerBits / a.BitsPerSymbol()
}

// ClampWindow clamps a requested window size w to what is representable,
// silently, per the "out-of-range k-mer" error-taxonomy entry: word sizes
// exceeding packed capacity clamp rather than error.
func ClampWindow(w int, a alphabet.Alphabet) int {
	if max := MaxWindow(a); w > max {
		return max
	}
	return w
}
