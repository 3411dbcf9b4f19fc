package swipe

import "sync/atomic"

// Statistics is the three-rung pre-filter counter ladder from
// stage2.cpp (§9 supplemented feature 6): TentativeMatches2 counts hits
// clearing the ungapped-extension threshold, TentativeMatches3 counts
// those that also survive the primary-hit collision filter, and
// TentativeMatches4 counts those whose banded gapped score clears the
// final threshold and are queued for the full swipe kernel. Every field
// is an atomic counter so a worker pool (C7) can increment it
// lock-free.
type Statistics struct {
	TentativeMatches2 int64
	TentativeMatches3 int64
	TentativeMatches4 int64
}

func (s *Statistics) incMatches2() { atomic.AddInt64(&s.TentativeMatches2, 1) }
func (s *Statistics) incMatches3() { atomic.AddInt64(&s.TentativeMatches3, 1) }
func (s *Statistics) incMatches4() { atomic.AddInt64(&s.TentativeMatches4, 1) }

// Snapshot returns a plain copy safe to print or serialize without
// racing the live counters.
func (s *Statistics) Snapshot() Statistics {
	return Statistics{
		TentativeMatches2: atomic.LoadInt64(&s.TentativeMatches2),
		TentativeMatches3: atomic.LoadInt64(&s.TentativeMatches3),
		TentativeMatches4: atomic.LoadInt64(&s.TentativeMatches4),
	}
}
