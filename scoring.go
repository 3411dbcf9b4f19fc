package swipe

import "github.com/ndaniels/swipe/blosum"

// ScoringContext is C1: the substitution matrix plus the affine-gap and
// frame-shift penalties shared by every alignment in a run. Penalties are
// stored as positive integers and subtracted in the DP recurrence (§4.2),
// matching the teacher's own convention of keeping blosum.Matrix62 scores
// signed but gap costs as unsigned magnitudes added back in.
//
// The alphabet is fixed at initialization (NewScoringContext) and must
// match the alphabet a database was built with; neither this package nor
// swipe/dbfile.Open checks that they do.
type ScoringContext struct {
	Alphabet    *Alphabet
	GapOpen     int
	GapExtend   int
	FrameShift  int
}

// DefaultGapOpen, DefaultGapExtend and DefaultFrameShift match DIAMOND's
// own defaults for BLOSUM62 protein search.
const (
	DefaultGapOpen    = 11
	DefaultGapExtend  = 1
	DefaultFrameShift = 15
)

// NewScoringContext builds the default scoring context: BLOSUM62 over the
// standard protein alphabet.
func NewScoringContext() *ScoringContext {
	return &ScoringContext{
		Alphabet:   NewAlphabet(StandardAlphabet),
		GapOpen:    DefaultGapOpen,
		GapExtend:  DefaultGapExtend,
		FrameShift: DefaultFrameShift,
	}
}

// Score returns the substitution score for a pair of letters. DELIMITER
// and MASK never score positively: DELIMITER scores MinScore, and MASK is
// mapped here to the fully-ambiguous 'X' letter before the blosum.Score
// lookup.
func (sc *ScoringContext) Score(a, b Letter) int {
	if a == DELIMITER || b == DELIMITER {
		return MinScore
	}
	la, lb := byte('X'), byte('X')
	if a != MASK {
		la = sc.Alphabet.Letter(int8(a))
	}
	if b != MASK {
		lb = sc.Alphabet.Letter(int8(b))
	}
	return blosum.Score(la, lb)
}

// MinScore is a sentinel far below any real BLOSUM62 score, used to force
// a comparison against DELIMITER to always fail an extension.
const MinScore = -1 << 20

// EncodeResidue converts an ASCII residue to a Letter via the scoring
// context's alphabet. Lowercase letters are upper-cased first; letters
// not in the alphabet encode as its 'X' code rather than failing, matching the teacher's
// practice of upper-casing and never rejecting a residue once a FASTA
// record has been read (sequence.go/seq.go `newSeq`).
func (sc *ScoringContext) EncodeResidue(r byte) Letter {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	c := sc.Alphabet.Code(r)
	if c < 0 {
		c = sc.Alphabet.Code('X')
	}
	return Letter(c)
}
