package swipe

// EditOp is one operation in an Hsp's edit transcript (§3).
type EditOp byte

const (
	OpMatch EditOp = iota
	OpMismatch
	OpInsertion
	OpDeletion
	OpFrameshiftForward
	OpFrameshiftReverse
	OpTerminator
)

// Range is an inclusive-begin, exclusive-end interval, used for both the
// query range and the subject range of an Hsp.
type Range struct {
	Begin, End int
}

// Len returns End - Begin.
func (r Range) Len() int { return r.End - r.Begin }

// Hsp is one local alignment record (§3): a score, the query and subject
// ranges it covers, the frame within the aligned strand (0-2, an index
// into TranslatedSequence.GetStrand's result) that the alignment ends
// in, and a compact edit transcript built in reverse
// during traceback and reversed once complete.
type Hsp struct {
	Score         int
	QueryRange    Range
	SubjectRange  Range
	Frame         int
	Transcript    []EditOp
}

// PushMatch appends a match or mismatch op depending on whether the pair
// scored positively, mirroring Hsp::push_match in the traceback routine.
func (h *Hsp) PushMatch(positive bool) {
	if positive {
		h.Transcript = append(h.Transcript, OpMatch)
	} else {
		h.Transcript = append(h.Transcript, OpMismatch)
	}
}

// PushGap appends `length` copies of an insertion or deletion op.
func (h *Hsp) PushGap(op EditOp, length int) {
	for i := 0; i < length; i++ {
		h.Transcript = append(h.Transcript, op)
	}
}

// ReverseTranscript reverses the transcript in place and appends the
// terminator, matching the traceback routine's `out.transcript.reverse();
// out.transcript.push_terminator();` (§4.5).
func (h *Hsp) ReverseTranscript() {
	for i, j := 0, len(h.Transcript)-1; i < j; i, j = i+1, j-1 {
		h.Transcript[i], h.Transcript[j] = h.Transcript[j], h.Transcript[i]
	}
	h.Transcript = append(h.Transcript, OpTerminator)
}

// Replay walks the transcript against the query/subject ranges and
// returns the score it implies, used by the S8 traceback-consistency
// test (§8). A run of insertions or deletions costs GapOpen once plus
// GapExtend per op. query is a single frame's letters: a frame-shift op
// consumes the next letter of that same slice, like a match does, so a
// transcript containing frame shifts is not replayed against the frame
// it shifts into.
func (h *Hsp) Replay(sc *ScoringContext, query, subject []Letter, frameShift int) int {
	score := 0
	qi, si := 0, 0
	prev := OpTerminator
	for _, op := range h.Transcript {
		switch op {
		case OpMatch, OpMismatch:
			score += sc.Score(query[qi], subject[si])
			qi++
			si++
		case OpInsertion:
			si++
			score -= sc.GapExtend
			if prev != OpInsertion {
				score -= sc.GapOpen
			}
		case OpDeletion:
			qi++
			score -= sc.GapExtend
			if prev != OpDeletion {
				score -= sc.GapOpen
			}
		case OpFrameshiftForward, OpFrameshiftReverse:
			score += sc.Score(query[qi], subject[si]) - frameShift
			qi++
			si++
		case OpTerminator:
		}
		prev = op
	}
	return score
}

// DpTarget is one subject queued for the vector kernel (§3): the subject
// view, its diagonal band, the caller's output sink, a parallel-mode
// scratch slot, a cached score and an overflow flag.
type DpTarget struct {
	Seq      Sequence
	DBegin   int
	DEnd     int
	Out      *[]Hsp
	Tmp      *Hsp
	Score    int
	Overflow bool
}

// Band returns d_end - d_begin, the width targets are stably sorted by
// (§3: "DpTargets are sorted stably by band width").
func (t *DpTarget) Band() int { return t.DEnd - t.DBegin }

// SortByBand stably sorts targets by ascending band width, matching
// `std::stable_sort(target_begin, target_end)` in banded_3frame_swipe.cpp
// (DpTarget::operator< there compares d_end - d_begin).
func SortByBand(targets []DpTarget) {
	stableSortByBand(targets)
}
