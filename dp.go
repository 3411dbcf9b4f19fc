package swipe

// This file is C5, the banded 3-frame swipe kernel: the hardest
// subsystem, grounded on
// _examples/original_source/src/dp/swipe/banded_3frame_swipe.cpp. One
// column/row driver, runColumns, serves both variants: with a nil
// retain it is score-only (O(band) memory, no transcript); with a
// fullGrid it also records every cell for the traceback walk. It is
// generic over the score-vector backend V (Vector16 or Vector32), the Go
// equivalent of the C++ kernel being instantiated once per `_sv`
// template parameter.
//
// Gap accounting follows spec.md §4.5's recurrence literally:
//
//	H[i,j,f] = max(0, diag, fwd-shift, rev-shift, E[i,j], F[i,j,f])
//	E[i,j]   = max(E[i,j-1]-ext, H[i,j-1]-open-ext)
//	F[i,j,f] = max(F[i-1,j,f]-ext, H[i-1,j,f]-open-ext)
//
// F is carried in three per-frame scalars across a column's row loop,
// exactly like the source's vgap0/vgap1/vgap2. E needs both H[i,j-1] and
// E[i,j-1] (same row, previous column); the source retains a single
// fused `hgap_` buffer with a "peek 3 ahead" trick for this, but
// cell_update's body (where the fusion happens) lives in a header the
// retrieval pack doesn't include. We keep the same "peek 3 ahead into a
// not-yet-overwritten rolling buffer" trick but use two buffers, one for
// leftover H and one for leftover E -- functionally identical, and
// directly checkable against the recurrence above (see DESIGN.md).
//
// The diagonal and frame-shift predecessors (H[i-1,j-1,f],
// H[i-1,j-1,f-1], H[i-1,j-1,f+1]) use the rolling sm2/sm3/sm4 trick
// exactly as banded_3frame_swipe.cpp's ColumnIterator does: because the
// band's row window shifts by exactly one row per column, "same local
// index, previous column" coincides with "the value sitting in this
// slot a few steps ago, not yet overwritten this column".
//
// Values on H/E/F/colBest are always in the *biased* domain (true score
// + traits.zeroScore); gap-penalty and substitution-score deltas are
// kept *raw* (unbiased), since they're added to or subtracted from an
// already-biased value rather than compared against one.

// kernelTraits supplies the backend-specific constants the generic
// kernel needs, standing in for C++'s ScoreTraits<_sv> specialization.
type kernelTraits[V ScoreVector[V]] struct {
	channels   int
	zero       V // biased "true score 0": the recurrence floor and buffer fill
	rawFromOne func(raw int) V   // broadcast a single unbiased delta to every lane
	rawFromN   func(raw []int) V // one unbiased delta per lane
	zeroScore  int
	maxScore   int
}

func traits16() kernelTraits[Vector16] {
	return kernelTraits[Vector16]{
		channels:   Channels16,
		zero:       Broadcast16(int16(ZeroScore16)),
		rawFromOne: func(raw int) Vector16 { return Broadcast16(int16(raw)) },
		rawFromN:   Vector16FromInts,
		zeroScore:  ZeroScore16,
		maxScore:   MaxScore16,
	}
}

func traits32() kernelTraits[Vector32] {
	return kernelTraits[Vector32]{
		channels:   Channels32,
		zero:       Broadcast32(int32(ZeroScore32)),
		rawFromOne: func(raw int) Vector32 { return Broadcast32(int32(raw)) },
		rawFromN:   Vector32FromInts,
		zeroScore:  ZeroScore32,
		maxScore:   MaxScore32,
	}
}

// swipeProfile computes, for a query letter, the per-channel
// substitution-score vector (raw, unbiased) against whatever subject
// letter currently occupies each lane -- C1's `score_profile(lane_letters)`.
type swipeProfile[V ScoreVector[V]] struct {
	subject []Letter
	sc      *ScoringContext
	traits  kernelTraits[V]
	scratch []int
}

func (p *swipeProfile[V]) set(subject []Letter) {
	p.subject = subject
	if p.scratch == nil {
		p.scratch = make([]int, len(subject))
	}
}

func (p *swipeProfile[V]) get(queryLetter Letter) V {
	for c, s := range p.subject {
		p.scratch[c] = p.sc.Score(queryLetter, s)
	}
	return p.traits.rawFromN(p.scratch)
}

// bandInfo holds the shared diagonal window every target in a chunk is
// forced to (§9 Open Question: the retained behaviour simply extends
// d_begin = d_end - band; we do not restore the commented-out
// re-centering logic from the original).
type bandInfo struct {
	width  int
	i0, i1 int
}

func computeBand(targets []DpTarget) bandInfo {
	width := 0
	for i := range targets {
		if w := targets[i].Band(); w > width {
			width = w
		}
	}
	i0, i1 := int(^uint(0)>>1), int(^uint(0)>>1)
	for i := range targets {
		t := &targets[i]
		t.DBegin = t.DEnd - width
		edge := t.DEnd - 1
		if edge < i1 {
			i1 = edge
		}
		base := edge + 1 - width
		if base < i0 {
			i0 = base
		}
	}
	return bandInfo{width: width, i0: i0, i1: i1}
}

// runColumns drives the shared column/row loop (§4.5 "Driver loop"). It
// returns each target's best score and the column it occurred at;
// retain, when non-nil, also records every cell of the full grid for a
// subsequent traceback walk.
func runColumns[V ScoreVector[V]](
	sc *ScoringContext,
	q [3]Sequence,
	targets []DpTarget,
	traits kernelTraits[V],
	retain *fullGrid[V],
) (best []int, maxCol []int, bestLocalIdx []int) {
	n := traits.channels
	band := computeBand(targets)
	bandTotal := band.width * 3
	it := NewTargetIterator(targets, n, band.i1, q[0].Len())

	scoreBuf := make([]V, bandTotal+1)
	prevH := make([]V, bandTotal+3)
	prevE := make([]V, bandTotal+3)
	for i := range scoreBuf {
		scoreBuf[i] = traits.zero
	}
	for i := range prevH {
		prevH[i] = traits.zero
		prevE[i] = traits.zero
	}

	openPenalty := traits.rawFromOne(sc.GapOpen + sc.GapExtend)
	extendPenalty := traits.rawFromOne(sc.GapExtend)
	fsPenalty := traits.rawFromOne(sc.FrameShift)

	best = make([]int, it.NTargets())
	maxCol = make([]int, it.NTargets())
	for c := range best {
		best[c] = -1 << 30
	}
	var cellScratch []int
	if retain != nil {
		bestLocalIdx = make([]int, it.NTargets())
		cellScratch = make([]int, n)
	}

	profile := &swipeProfile[V]{sc: sc, traits: traits}

	i0, i1 := band.i0, band.i1
	qlen := [3]int{q[0].Len(), q[1].Len(), q[2].Len()}

	for j := 0; len(it.Active()) > 0; j++ {
		i0c, i1c := i0, i1
		if i0c < 0 {
			i0c = 0
		}
		if i1c > qlen[0]-1 {
			i1c = qlen[0] - 1
		}
		if i0c > i1c {
			if i0c > qlen[0]-1 {
				// the band has moved past the last query row: no later
				// column holds a cell either.
				break
			}
			i0++
			i1++
			continue
		}

		offset := (i0c - i0) * 3
		sIdx := offset
		hIdx := offset

		if offset > 0 {
			for k := 1; k <= 3 && sIdx-k >= 0; k++ {
				scoreBuf[sIdx-k] = traits.zero
			}
		}
		if retain != nil {
			retain.setRowBase(j, i0)
		}

		sm3 := scoreBuf[sIdx]
		sm2 := peekNext(scoreBuf, sIdx)
		sm4 := traits.zero

		var vgap [3]V
		vgap[0], vgap[1], vgap[2] = traits.zero, traits.zero, traits.zero
		colBest := traits.zero

		profile.set(it.Get(n))

	rowLoop:
		for i := i0c; i <= i1c; i++ {
			for f := 0; f < 3; f++ {
				if i >= qlen[f] {
					break rowLoop
				}
				m := profile.get(q[f].At(i))

				hE := peek3(prevE, hIdx)
				hH := peek3(prevH, hIdx)
				eNew := hE.Sub(extendPenalty).Max(hH.Sub(openPenalty))

				diag := sm3.Add(m)
				fwd := sm4.Add(m).Sub(fsPenalty)
				rev := sm2.Add(m).Sub(fsPenalty)

				h := traits.zero.Max(diag).Max(fwd).Max(rev).Max(eNew).Max(vgap[f])
				vgap[f] = vgap[f].Sub(extendPenalty).Max(h.Sub(openPenalty))
				colBest = colBest.Max(h)

				if retain != nil {
					retain.set(j, hIdx, gridCell[V]{h: h, e: eNew, f: vgap[f]})
					h.Store(cellScratch)
					for _, channel := range it.Active() {
						if cellScratch[channel] > best[channel] {
							best[channel] = cellScratch[channel]
							bestLocalIdx[channel] = hIdx
							maxCol[channel] = j
						}
					}
				}

				scoreBuf[sIdx] = h
				prevH[hIdx] = h
				prevE[hIdx] = eNew

				sIdx++
				hIdx++
				sm4 = sm3
				sm3 = sm2
				sm2 = peekNext(scoreBuf, sIdx)
			}
		}

		colBestScalar := make([]int, n)
		colBest.Store(colBestScalar)

		for idx := 0; idx < len(it.Active()); {
			channel := it.Active()[idx]
			if colBestScalar[channel] > best[channel] {
				best[channel] = colBestScalar[channel]
				maxCol[channel] = j
			}
			if it.Inc(channel) {
				idx++
				continue
			}
			if it.InitTarget(idx, channel) {
				idx++
				continue
			}
			// InitTarget erased this lane from Active(); re-check idx,
			// which now holds what used to be the next entry.
		}
		i0++
		i1++
	}

	return best, maxCol, bestLocalIdx
}

// peekNext reads scoreBuf[idx+1] if in bounds, else V's zero value (at
// or below the recurrence floor for every backend); mirrors
// ColumnIterator's `*(score_ptr_+1)` peek.
func peekNext[V ScoreVector[V]](buf []V, idx int) V {
	if idx+1 < len(buf) {
		return buf[idx+1]
	}
	var zero V
	return zero
}

// peek3 reads buf[idx+3] if in bounds, the "not yet overwritten this
// column" leftover from the previous column at the same local index.
func peek3[V any](buf []V, idx int) V {
	i := idx + 3
	if i >= len(buf) {
		var zero V
		return zero
	}
	return buf[i]
}

// fullGrid retains every cell of the traceback variant's (band+1) x
// (cols+1) matrix, per §4.5's "for the traceback variant the entire
// grid is retained to support backtrace". Cells are addressed by
// (column, local band index) exactly as runColumns computes them; a
// sparse map keeps this cheap when only a handful of targets in a chunk
// ever reach traceback.
// gridCell is one retained cell: its H score, the E (horizontal gap)
// value computed at that cell, and the F (vertical gap) value carried
// out of it -- everything a traceback step needs to tell diagonal,
// frame-shift and gap continuation apart without recomputing the whole
// column.
type gridCell[V ScoreVector[V]] struct {
	h, e, f V
}

type fullGrid[V ScoreVector[V]] struct {
	cols    []map[int]gridCell[V]
	rowBase []int // rowBase[j]: the query row local index 0 corresponds to, in column j
}

func newFullGrid[V ScoreVector[V]]() *fullGrid[V] {
	return &fullGrid[V]{}
}

func (g *fullGrid[V]) set(col, localIdx int, c gridCell[V]) {
	for len(g.cols) <= col {
		g.cols = append(g.cols, nil)
	}
	if g.cols[col] == nil {
		g.cols[col] = make(map[int]gridCell[V])
	}
	g.cols[col][localIdx] = c
}

func (g *fullGrid[V]) setRowBase(col, base int) {
	for len(g.rowBase) <= col {
		g.rowBase = append(g.rowBase, 0)
	}
	g.rowBase[col] = base
}

func (g *fullGrid[V]) get(col, localIdx int) (gridCell[V], bool) {
	if col < 0 || col >= len(g.cols) || g.cols[col] == nil {
		var zero gridCell[V]
		return zero, false
	}
	c, ok := g.cols[col][localIdx]
	return c, ok
}

// rowAt returns the query row that local index localIdx in column col
// addresses, given that column's recorded row base.
func (g *fullGrid[V]) rowAt(col, localIdx int) (row, frame int) {
	base := 0
	if col >= 0 && col < len(g.rowBase) {
		base = g.rowBase[col]
	}
	return base + localIdx/3, localIdx % 3
}
