package swipe

// Sequence is a contiguous span of letters bracketed by a leading and
// trailing DELIMITER (§3). Data and WithDelim share the same backing
// array; Data is the one-past-leading-delimiter, one-before-trailing-
// delimiter slice.
type Sequence struct {
	withDelim []Letter
}

// NewSequence wraps a delimiter-bracketed letter slice. The caller is
// responsible for placing DELIMITER at withDelim[0] and
// withDelim[len(withDelim)-1].
func NewSequence(withDelim []Letter) Sequence {
	return Sequence{withDelim: withDelim}
}

// Data returns the residues without the bracketing sentinels.
func (s Sequence) Data() []Letter {
	if len(s.withDelim) < 2 {
		return nil
	}
	return s.withDelim[1 : len(s.withDelim)-1]
}

// WithDelim returns the full span including both sentinels.
func (s Sequence) WithDelim() []Letter { return s.withDelim }

// Len returns the number of residues (excluding sentinels).
func (s Sequence) Len() int {
	if len(s.withDelim) < 2 {
		return 0
	}
	return len(s.withDelim) - 2
}

// At returns the residue at data-relative index i.
func (s Sequence) At(i int) Letter { return s.withDelim[i+1] }

// SequenceSet is an append-only vector of sequences stored in one backing
// buffer (§3). It is filled in two phases, exactly as spec.md's
// DATA MODEL prescribes: Reserve accumulates sizes, FinishReserve
// allocates the single buffer, then Ptr is used to read bytes into
// place. Once FinishReserve has been called the set is immutable for the
// block's lifetime -- callers must not Reserve again.
type SequenceSet struct {
	buf       []Letter
	offsets   []int  // offsets[i] is the data-start (post leading-delimiter) index of sequence i
	lengths   []int
	reserved  []int // pending lengths, cleared by FinishReserve
	finished  bool
}

// NewSequenceSet returns an empty set ready to accept Reserve calls.
func NewSequenceSet() *SequenceSet {
	return &SequenceSet{}
}

// Reserve records that the next sequence to be loaded has the given
// residue length. Must be called before FinishReserve.
func (s *SequenceSet) Reserve(length int) {
	if s.finished {
		panic("swipe: Reserve called after FinishReserve")
	}
	s.reserved = append(s.reserved, length)
}

// FinishReserve allocates the backing buffer for every length passed to
// Reserve, in order, each bracketed by a DELIMITER slot. After this call
// the set is immutable except through Ptr, which hands out pointers into
// the already-sized buffer (§3 invariant).
func (s *SequenceSet) FinishReserve() {
	total := 0
	s.offsets = make([]int, len(s.reserved))
	s.lengths = make([]int, len(s.reserved))
	for i, l := range s.reserved {
		s.offsets[i] = total + 1
		s.lengths[i] = l
		total += l + 2
	}
	s.buf = make([]Letter, total)
	for i := range s.buf {
		s.buf[i] = DELIMITER
	}
	s.reserved = nil
	s.finished = true
}

// Len returns the number of sequences in the set.
func (s *SequenceSet) Len() int { return len(s.offsets) }

// Length returns the residue count of sequence i.
func (s *SequenceSet) Length(i int) int { return s.lengths[i] }

// Ptr returns the mutable residue slice (without sentinels) for sequence
// i, to be filled in by the caller (typically a block loader reading
// bytes directly off disk).
func (s *SequenceSet) Ptr(i int) []Letter {
	off := s.offsets[i]
	return s.buf[off : off+s.lengths[i]]
}

// Get returns the read-only Sequence view (with sentinels) for index i.
func (s *SequenceSet) Get(i int) Sequence {
	off := s.offsets[i]
	return NewSequence(s.buf[off-1 : off+s.lengths[i]+1])
}
