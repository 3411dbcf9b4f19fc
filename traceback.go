package swipe

// Traceback walks the retained grid from runColumns backward to recover
// an edit transcript, the Go counterpart of banded_3frame_swipe.cpp's
// TracebackIterator (walk_diagonal / walk_forward_shift /
// walk_reverse_shift / walk_hgap / walk_vgap), implementing the
// textbook Gotoh three-matrix traceback. The gap walks are bounded by
// the retained grid: each stops at the first cell outside it.
//
// Traceback always runs a single target through the 1-lane scalar
// backend: once the score-only 8-wide scan (runColumns with retain ==
// nil) has picked survivors, each is re-run alone with the grid
// retained, so the backward walk never has to reason about which of 8
// lanes it's following.

// Align runs the full score-and-traceback kernel for one query/target
// pair and returns the resulting Hsp. Callers that only need a score
// (e.g. the batch driver's first pass) call ScoreOnly instead.
func Align(sc *ScoringContext, query *TranslatedSequence, strand Strand, target DpTarget) Hsp {
	traits := traits32()
	q := query.GetStrand(strand)
	targets := []DpTarget{target}
	grid := newFullGrid[Vector32]()

	best, maxCol, bestLocalIdx := runColumns(sc, q, targets, traits, grid)

	hsp := Hsp{Score: best[0]}
	if best[0] <= 0 || len(maxCol) == 0 {
		return hsp
	}

	col := maxCol[0]
	localIdx := bestLocalIdx[0]
	row, frame := grid.rowAt(col, localIdx)
	hsp.Frame = frame
	hsp.QueryRange.End = row + 1
	hsp.SubjectRange.End = col + 1

	subject := target.Seq.WithDelim()

	extractScalar := func(v Vector32) int {
		dst := make([]int, 1)
		v.Store(dst)
		return dst[0]
	}
	cellH := func(c, l int) (int, bool) {
		cell, ok := grid.get(c, l)
		if !ok {
			return 0, false
		}
		return extractScalar(cell.h), true
	}
	cellE := func(c, l int) (int, bool) {
		cell, ok := grid.get(c, l)
		if !ok {
			return 0, false
		}
		return extractScalar(cell.e), true
	}
	cellF := func(c, l int) (int, bool) {
		cell, ok := grid.get(c, l)
		if !ok {
			return 0, false
		}
		return extractScalar(cell.f), true
	}

	for {
		h, ok := cellH(col, localIdx)
		if !ok || h <= 0 {
			break
		}
		row, frame = grid.rowAt(col, localIdx)
		qLetter := q[frame].At(row)
		sLetter := subject[col+1] // subject[0] is the leading DELIMITER
		m := sc.Score(qLetter, sLetter)

		// a diagonal predecessor outside the retained grid lies outside
		// the matrix, where H is the zero floor.
		diagH, ok := cellH(col-1, localIdx)
		if !ok {
			diagH = 0
		}
		if h == diagH+m {
			hsp.PushMatch(m > 0)
			col--
			continue
		}
		if fwdH, ok := cellH(col-1, localIdx-1); ok && localIdx-1 >= 0 && h == fwdH+m-sc.FrameShift {
			hsp.Transcript = append(hsp.Transcript, OpFrameshiftForward)
			col--
			localIdx--
			continue
		}
		if revH, ok := cellH(col-1, localIdx+1); ok && h == revH+m-sc.FrameShift {
			hsp.Transcript = append(hsp.Transcript, OpFrameshiftReverse)
			col--
			localIdx++
			continue
		}
		if e, ok := cellE(col, localIdx); ok && h == e {
			walkHgap(sc, grid, &hsp, &col, &localIdx)
			continue
		}
		if f, ok := cellF(col, localIdx-3); ok && localIdx-3 >= 0 && h == f {
			walkVgap(sc, grid, &hsp, col, &localIdx)
			continue
		}
		break
	}

	hsp.QueryRange.Begin = row
	hsp.SubjectRange.Begin = col + 1
	hsp.ReverseTranscript()
	return hsp
}

// walkHgap follows a run of horizontal-gap (subject insertion) columns
// backward at a fixed row/frame (the same row sits at localIdx+3 in the
// previous column), in the manner of walk_hgap: it keeps stepping one
// column left as long as the retained E value continues the gap
// (E[i,j]==E[i,j-1]-ext), and stops at the column where it instead
// matches the opening cost (E[i,j]==H[i,j-1]-open-ext). The walk also
// stops at the first cell not retained in the grid (outside the band).
func walkHgap[V ScoreVector[V]](sc *ScoringContext, grid *fullGrid[V], hsp *Hsp, col *int, localIdx *int) {
	extract := func(v V) int {
		dst := make([]int, 1)
		v.Store(dst)
		return dst[0]
	}
	open := sc.GapOpen + sc.GapExtend
	for {
		cell, ok := grid.get(*col, *localIdx)
		if !ok {
			break
		}
		e := extract(cell.e)
		prev, ok := grid.get(*col-1, *localIdx+3)
		if !ok {
			break
		}
		prevE := extract(prev.e)
		prevH := extract(prev.h)
		hsp.PushGap(OpInsertion, 1)
		*col--
		*localIdx += 3
		if e == prevH-open {
			break
		}
		if e != prevE-sc.GapExtend {
			break
		}
	}
}

// walkVgap follows a run of vertical-gap (query deletion) rows backward
// at a fixed column, in the manner of walk_vgap: steps one row up
// (localIdx -= 3 within the same column) while the F value entering the
// current row (retained on the row above, which carries it out)
// continues the gap, stopping at the row where it matches the opening
// cost instead.
func walkVgap[V ScoreVector[V]](sc *ScoringContext, grid *fullGrid[V], hsp *Hsp, col int, localIdx *int) {
	extract := func(v V) int {
		dst := make([]int, 1)
		v.Store(dst)
		return dst[0]
	}
	open := sc.GapOpen + sc.GapExtend
	for {
		if *localIdx-3 < 0 {
			break
		}
		prev, ok := grid.get(col, *localIdx-3)
		if !ok {
			break
		}
		f := extract(prev.f) // F[i], the value that entered this row
		prevH := extract(prev.h)
		hsp.PushGap(OpDeletion, 1)
		*localIdx -= 3
		if f == prevH-open {
			break
		}
	}
}

// ScoreOnly runs the O(band) memory variant over any number of targets,
// in chunks of the int16 channel width, and fills in Score without
// building a transcript (targets that overflow int16 are re-scored on
// the int32 path) -- used by the batch driver's first pass over every
// candidate (§4.5, §4.7).
func ScoreOnly(sc *ScoringContext, query *TranslatedSequence, strand Strand, targets []DpTarget) {
	SortByBand(targets)
	t16 := traits16()
	for start := 0; start < len(targets); start += t16.channels {
		end := start + t16.channels
		if end > len(targets) {
			end = len(targets)
		}
		chunk := targets[start:end]
		q := query.GetStrand(strand)
		best, _, _ := runColumns(sc, q, chunk, t16, nil)
		for i := range chunk {
			if best[i] >= t16.maxScore {
				chunk[i].Overflow = true
				continue
			}
			chunk[i].Score = best[i]
		}
	}
	// Two-pass overflow retry (§9 supplemented feature 5): the int32
	// scalar path is re-run over the *entire* sorted range of overflowed
	// targets, one at a time, not just the chunk that overflowed.
	t32 := traits32()
	q := query.GetStrand(strand)
	for i := range targets {
		if !targets[i].Overflow {
			continue
		}
		single := targets[i : i+1]
		best, _, _ := runColumns(sc, q, single, t32, nil)
		targets[i].Score = best[0]
		targets[i].Overflow = false
	}
}
