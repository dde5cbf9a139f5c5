// Package alphabet defines the per-alphabet policies (DNA, Protein) used
// throughout the core: bitmap encoding for k-mer packing, complementarity,
// and ambiguous-symbol match predicates.
package alphabet

// Alphabet is implemented once per symbol set and shared (read-only) by
// every component that needs to reason about individual symbols.
type Alphabet interface {
	Name() string

	// BitsPerSymbol is the number of bits used to pack one symbol into a
	// k-mer integer (2 for DNA, 5 for Protein).
	BitsPerSymbol() int

	// PackedValue returns the representative bit pattern for sym, used to
	// build the rolling k-mer integer. ambiguous is true when sym is not
	// one of the alphabet's unambiguous letters (e.g. DNA 'N', 'M', ...).
	// Unknown bytes outside the alphabet return ok=false.
	PackedValue(sym byte) (bits uint32, ambiguous bool, ok bool)

	// DoSymbolsMatch reports whether the ambiguity sets of a and b
	// intersect.
	DoSymbolsMatch(a, b byte) bool

	// IsValid reports whether sym is a legal symbol of this alphabet.
	IsValid(sym byte) bool
}

// Complementer is implemented by alphabets that support reverse
// complementation (DNA only).
type Complementer interface {
	Complement(sym byte) byte
}

// AlignDefaults carries the default substitution/gap scoring constants for
// an alphabet, consumed by the align package.
type AlignDefaults struct {
	Match    int
	Mismatch int

	InteriorGapOpen   int
	InteriorGapExtend int
	TerminalGapOpen   int
	TerminalGapExtend int

	Bandwidth int
	XDrop     int
}

// DefaultParams returns the scoring constants for an alphabet.
func DefaultParams(a Alphabet) AlignDefaults {
	switch a.Name() {
	case "protein":
		return AlignDefaults{
			Match: 5, Mismatch: -2,
			InteriorGapOpen: -20, InteriorGapExtend: -2,
			TerminalGapOpen: -2, TerminalGapExtend: -1,
			Bandwidth: 16, XDrop: 32,
		}
	default: // DNA
		return AlignDefaults{
			Match: 2, Mismatch: -4,
			InteriorGapOpen: -20, InteriorGapExtend: -2,
			TerminalGapOpen: -2, TerminalGapExtend: -1,
			Bandwidth: 16, XDrop: 32,
		}
	}
}
