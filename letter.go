package swipe

// Letter is one residue of the working alphabet. The alphabet is protein
// (20 standard amino acids plus the ambiguity codes B, J, Z, X) with
// two reserved sentinel values appended at the top of the range.
type Letter byte

const (
	// DELIMITER brackets every Sequence's with_delim view and stops
	// ungapped extension; ScoringContext.Score returns MinScore for it.
	DELIMITER Letter = 0xff

	// MASK marks a soft-masked (low-complexity) residue. A masked letter
	// never scores positively against anything and always stops ungapped
	// extension (§4.3).
	MASK Letter = 0xfe
)

// Alphabet maps the residue letters it was built from to small dense codes used
// to index substitution-matrix rows/columns, and back. Invalid letters map
// to -1. This mirrors the teacher's SeedAlphaNums table in seeds.go, but
// sized for the full protein alphabet used by the DP kernel rather than
// the smaller seed alphabet used only for k-mer hashing.
type Alphabet struct {
	size     int
	toCode   [256]int8
	fromCode []byte
}

// NewAlphabet builds an Alphabet from a string of valid residues, in the
// same spirit as the teacher's seed_table.go init(), which derives
// SeedAlphaNums from blosum.Alphabet62.
func NewAlphabet(letters string) *Alphabet {
	a := &Alphabet{fromCode: make([]byte, len(letters))}
	for i := range a.toCode {
		a.toCode[i] = -1
	}
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		a.toCode[c] = int8(i)
		a.fromCode[i] = c
	}
	a.size = len(letters)
	return a
}

// Size returns the number of distinct residues in the alphabet.
func (a *Alphabet) Size() int { return a.size }

// Code returns the dense index for an ASCII residue letter, or -1 if the
// letter is not part of the alphabet.
func (a *Alphabet) Code(letter byte) int8 { return a.toCode[letter] }

// Letter returns the ASCII residue for a dense code.
func (a *Alphabet) Letter(code int8) byte { return a.fromCode[code] }

// StandardAlphabet is the 24-letter protein alphabet (20 standard residues
// plus B, J, Z, X) used to build the default ScoringContext. J has no row
// in blosum.Alphabet62 and scores as X. See swipe/blosum.
const StandardAlphabet = "ARNDCQEGHILKMFPSTWYVBJZX"
