package alphabet

// DNA implements Alphabet and Complementer for the 4 canonical nucleotides
// plus the 11 IUPAC ambiguity codes (RNA is treated as DNA; U behaves as T).
type DNA struct{}

var _ Alphabet = DNA{}
var _ Complementer = DNA{}

func (DNA) Name() string       { return "dna" }
func (DNA) BitsPerSymbol() int { return 2 }

// dnaPacked maps a nucleotide to its 2-bit packed representative value.
// Ambiguous codes pack as their first listed base, matching the common
// convention of using the lexicographically/biologically first candidate.
var dnaPacked = map[byte]uint32{
	'A': 0, 'C': 1, 'G': 2, 'T': 3, 'U': 3,
	'M': 0, // A/C -> A
	'R': 0, // A/G -> A
	'W': 0, // A/T -> A
	'S': 1, // C/G -> C
	'Y': 1, // C/T -> C
	'K': 2, // G/T -> G
	'V': 0, // A/C/G -> A
	'H': 0, // A/C/T -> A
	'D': 0, // A/G/T -> A
	'B': 1, // C/G/T -> C
	'N': 0, // A/C/G/T -> A
}

// dnaMask is the IUPAC ambiguity bitmask: bit0=A bit1=C bit2=G bit3=T.
var dnaMask = map[byte]uint8{
	'A': 1, 'C': 2, 'G': 4, 'T': 8, 'U': 8,
	'M': 1 | 2,
	'R': 1 | 4,
	'W': 1 | 8,
	'S': 2 | 4,
	'Y': 2 | 8,
	'K': 4 | 8,
	'V': 1 | 2 | 4,
	'H': 1 | 2 | 8,
	'D': 1 | 4 | 8,
	'B': 2 | 4 | 8,
	'N': 1 | 2 | 4 | 8,
}

var dnaComplement = map[byte]byte{
	'A': 'T', 'T': 'A', 'U': 'A', 'G': 'C', 'C': 'G',
	'Y': 'R', 'R': 'Y', 'W': 'W', 'S': 'S', 'K': 'M', 'M': 'K',
	'D': 'H', 'V': 'B', 'H': 'D', 'B': 'V', 'N': 'N',
}

func (DNA) PackedValue(sym byte) (bits uint32, ambiguous bool, ok bool) {
	b := upper(sym)
	v, ok := dnaPacked[b]
	if !ok {
		return 0, false, false
	}
	return v, b != 'A' && b != 'C' && b != 'G' && b != 'T' && b != 'U', true
}

func (DNA) DoSymbolsMatch(a, b byte) bool {
	ma, ok1 := dnaMask[upper(a)]
	mb, ok2 := dnaMask[upper(b)]
	if !ok1 || !ok2 {
		return false
	}
	return ma&mb != 0
}

func (DNA) IsValid(sym byte) bool {
	_, ok := dnaMask[upper(sym)]
	return ok
}

func (DNA) Complement(sym byte) byte {
	b := upper(sym)
	if c, ok := dnaComplement[b]; ok {
		return c
	}
	return sym
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
