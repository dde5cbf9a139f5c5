package alphabet

// Protein implements Alphabet for the 20 amino-acid letters plus the
// ambiguous wildcard 'X'.
type Protein struct{}

var _ Alphabet = Protein{}

func (Protein) Name() string       { return "protein" }
func (Protein) BitsPerSymbol() int { return 5 }

var proteinLetters = map[byte]bool{
	'A': true, 'R': true, 'N': true, 'D': true, 'C': true,
	'Q': true, 'E': true, 'G': true, 'H': true, 'I': true,
	'L': true, 'K': true, 'M': true, 'F': true, 'P': true,
	'S': true, 'T': true, 'W': true, 'Y': true, 'V': true,
	'X': true,
}

// proteinAlias lists residue pairs indistinguishable under the alphabet's
// bitmap policy (deamidation artefacts: Q<->E, N<->D).
var proteinAlias = map[byte]byte{
	'Q': 'E', 'E': 'Q',
	'N': 'D', 'D': 'N',
}

func (Protein) PackedValue(sym byte) (bits uint32, ambiguous bool, ok bool) {
	b := upper(sym)
	if !proteinLetters[b] {
		return 0, false, false
	}
	return uint32(b - 'A'), b == 'X', true
}

func (Protein) DoSymbolsMatch(a, b byte) bool {
	ua, ub := upper(a), upper(b)
	if !proteinLetters[ua] || !proteinLetters[ub] {
		return false
	}
	if ua == 'X' || ub == 'X' {
		return true
	}
	if ua == ub {
		return true
	}
	return proteinAlias[ua] == ub
}

func (Protein) IsValid(sym byte) bool {
	return proteinLetters[upper(sym)]
}
