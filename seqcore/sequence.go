// Package seqcore provides the core Sequence data model: an identifier,
// a symbol string over some alphabet, and an optional per-symbol quality
// string, grounded on nsearch's Sequence class.
package seqcore

import (
	"fmt"
	"strings"

	"github.com/nsearch-go/nsearch/alphabet"
)

// MinQual and MaxQual bound a Phred+33 quality byte (Q in [0, 41]).
const (
	MinQual byte = 33
	MaxQual byte = 33 + 41
)

// Sequence is a single biological record.
type Sequence struct {
	Identifier string
	Symbols    string
	Quality    string // empty, or len(Quality) == len(Symbols)
}

// New builds a Sequence without quality.
func New(identifier, symbols string) Sequence {
	return Sequence{Identifier: identifier, Symbols: symbols}
}

// NewWithQuality builds a Sequence and validates the quality invariant.
func NewWithQuality(identifier, symbols, quality string) (Sequence, error) {
	s := Sequence{Identifier: identifier, Symbols: symbols, Quality: quality}
	return s, s.Validate()
}

// Validate checks the quality-length and quality-range invariants.
func (s Sequence) Validate() error {
	if len(s.Quality) == 0 {
		return nil
	}
	if len(s.Quality) != len(s.Symbols) {
		return fmt.Errorf("seqcore: quality length %d does not match symbol length %d", len(s.Quality), len(s.Symbols))
	}
	for i := 0; i < len(s.Quality); i++ {
		q := s.Quality[i]
		if q < MinQual || q > MaxQual {
			return fmt.Errorf("seqcore: quality byte %d out of range [%d,%d]", q, MinQual, MaxQual)
		}
	}
	return nil
}

// Length returns the number of symbols.
func (s Sequence) Length() int { return len(s.Symbols) }

// Subsequence returns symbols (and quality, if present) in [pos, pos+length),
// preserving the identifier. length < 0 means "to the end".
func (s Sequence) Subsequence(pos, length int) Sequence {
	if length < 0 {
		length = len(s.Symbols) - pos
	}
	end := pos + length
	out := Sequence{Identifier: s.Identifier, Symbols: s.Symbols[pos:end]}
	if len(s.Quality) > 0 {
		out.Quality = s.Quality[pos:end]
	}
	return out
}

// Reverse returns the sequence with symbols (and quality) in reverse order.
func (s Sequence) Reverse() Sequence {
	out := Sequence{Identifier: s.Identifier}
	out.Symbols = reverseString(s.Symbols)
	if len(s.Quality) > 0 {
		out.Quality = reverseString(s.Quality)
	}
	return out
}

// Complement returns the sequence with every symbol complemented in place
// (order unchanged). Only meaningful for alphabets implementing
// alphabet.Complementer (DNA).
func (s Sequence) Complement(a alphabet.Alphabet) Sequence {
	c, ok := a.(alphabet.Complementer)
	if !ok {
		return s
	}
	buf := make([]byte, len(s.Symbols))
	for i := 0; i < len(s.Symbols); i++ {
		buf[i] = c.Complement(s.Symbols[i])
	}
	out := Sequence{Identifier: s.Identifier, Symbols: string(buf)}
	out.Quality = s.Quality
	return out
}

// ReverseComplement composes Reverse and Complement (DNA only).
func (s Sequence) ReverseComplement(a alphabet.Alphabet) Sequence {
	return s.Reverse().Complement(a)
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ToUpper upper-cases the symbol string, matching the reader contract that
// sequences are upper-cased on read.
func ToUpper(s string) string {
	return strings.ToUpper(s)
}
