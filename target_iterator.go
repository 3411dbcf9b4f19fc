package swipe

// TargetIterator is C4: a lane multiplexer over up to n DpTargets,
// grounded directly on _examples/original_source/src/dp/swipe/
// target_iterator.h's TargetIterator<_n>. Channel count is a runtime
// parameter here (8 for the SIMD backend, 1 for the scalar fallback)
// rather than a template parameter, since Go has no generic array
// lengths; the per-lane state (pos, target, active) still lives on the
// caller's stack the way the C++ version's does (§5 "Lane safety").
type TargetIterator struct {
	targets []DpTarget // the subject_begin..subject_end slice being multiplexed
	pos     []int      // pos[c]: current column within lane c's subject
	target  []int      // target[c]: which index into targets occupies lane c
	active  []int      // compact set of live lane indices (Static_vector<int,_n>.active)
	next    int         // index of the next target to load
	nTargets int
	Cols    int // max projected column count across initial lanes, for dp allocation
}

// NewTargetIterator mirrors the two-argument C++ constructor used by the
// score-only/traceback driver: it seeds up to n lanes and computes Cols
// from i1/qlen the same way `TargetIterator(subject_begin, subject_end,
// i1, qlen)` does.
func NewTargetIterator(targets []DpTarget, n, i1, qlen int) *TargetIterator {
	if n > len(targets) {
		n = len(targets)
	}
	it := &TargetIterator{
		targets:  targets,
		pos:      make([]int, len(targets)),
		target:   make([]int, len(targets)),
		nTargets: len(targets),
	}
	for c := 0; c < n; c++ {
		t := &targets[c]
		it.pos[c] = i1 - (t.DEnd - 1)
		j1 := min(qlen-1-t.DBegin, t.Seq.Len()-1) + 1
		if j1-it.pos[c] > it.Cols {
			it.Cols = j1 - it.pos[c]
		}
		it.target[c] = c
		it.active = append(it.active, c)
	}
	it.next = n
	return it
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Active returns the compact set of live lane indices.
func (it *TargetIterator) Active() []int { return it.active }

// Get gathers the current-column letter from every lane into a plain
// slice indexed by channel; inactive lanes (pos < 0, past the end of
// `active`) read MASK, matching `operator[]`'s `pos[channel] >= 0` check.
func (it *TargetIterator) Get(channels int) []Letter {
	out := make([]Letter, channels)
	for i := range out {
		out[i] = MASK
	}
	for _, c := range it.active {
		out[c] = it.letterAt(c)
	}
	return out
}

func (it *TargetIterator) letterAt(channel int) Letter {
	p := it.pos[channel]
	if p < 0 {
		return MASK
	}
	return it.targets[it.target[channel]].Seq.At(p)
}

// InitTarget replaces a finished lane with the next queued target, or
// drops it from active if none remain; returns whether a new target was
// loaded, exactly mirroring `bool init_target(int i, int channel)`: `i`
// is the lane's position within the active slice, used to erase it on
// failure.
func (it *TargetIterator) InitTarget(activeIdx, channel int) bool {
	if it.next < it.nTargets {
		it.pos[channel] = 0
		it.target[channel] = it.next
		it.next++
		return true
	}
	it.active = append(it.active[:activeIdx], it.active[activeIdx+1:]...)
	return false
}

// Inc advances lane channel's column by one; returns false when the
// subject is exhausted (`pos[channel] >= seq.length()`), matching `bool
// inc(int channel)`.
func (it *TargetIterator) Inc(channel int) bool {
	it.pos[channel]++
	return it.pos[channel] < it.targets[it.target[channel]].Seq.Len()
}

// NTargets returns the total number of targets this iterator multiplexes
// (not just the currently active lane count).
func (it *TargetIterator) NTargets() int { return it.nTargets }

// TargetAt returns the DpTarget currently loaded in the given absolute
// target slot order (by original index i, not by lane).
func (it *TargetIterator) TargetAt(i int) *DpTarget { return &it.targets[i] }
