package swipe

// This file is C3, the seeded pre-filter: grounded on
// _examples/original_source/src/search/stage2.cpp's search_query_offset,
// stage2_ungapped and is_primary_hit. It turns raw seed hits (pairs of
// query/subject offsets sharing an indexed seed) into DpTargets worth
// handing to the banded swipe kernel, via three narrowing rungs tracked
// in Statistics: ungapped extension, a primary-hit collision filter,
// and (new matches only) a banded fallback alignment.

// SeedHit is one raw hit produced by the seed index: a query offset and
// a subject offset sharing a seed, before any extension.
type SeedHit struct {
	QueryPos   int
	SubjectPos int
}

// PrefilterConfig carries the thresholds stage2.cpp reads out of the
// global `config` object; SearchConf.ScoringContextFrom (config.go)
// fills them in from a loaded SearchConf.
type PrefilterConfig struct {
	MinUngappedRawScore int
	MinHitRawScore      int
	HitBand             int
	SeedAnchor          int
}

// DefaultPrefilterConfig mirrors DIAMOND's shipped defaults for these
// four knobs.
func DefaultPrefilterConfig() PrefilterConfig {
	return PrefilterConfig{
		MinUngappedRawScore: 38,
		MinHitRawScore:      41,
		HitBand:             5,
		SeedAnchor:          4,
	}
}

// stage2Ungapped extends a seed hit in both directions without gaps
// until the running score drops Xdrop below its running maximum,
// returning the best score reached and how far left of the seed anchor
// the extension's reported window begins (delta) and its length.
// Grounded on stage2_ungapped's contract as used by search_query_offset.
func stage2Ungapped(sc *ScoringContext, query, subject []Letter, anchor int) (score, delta, length int) {
	const xdrop = 20
	best := 0
	cur := 0
	// extend right from the anchor
	right := 0
	for i := anchor; i < len(query) && i < len(subject); i++ {
		if query[i] == DELIMITER || subject[i] == DELIMITER || query[i] == MASK || subject[i] == MASK {
			break
		}
		cur += sc.Score(query[i], subject[i])
		if cur > best {
			best = cur
			right = i - anchor + 1
		}
		if best-cur > xdrop {
			break
		}
	}
	// extend left from the anchor
	cur = best
	left := 0
	runningBest := best
	for i := anchor - 1; i >= 0; i-- {
		if query[i] == DELIMITER || subject[i] == DELIMITER || query[i] == MASK || subject[i] == MASK {
			break
		}
		cur += sc.Score(query[i], subject[i])
		if cur > runningBest {
			runningBest = cur
			left = anchor - i
		}
		if runningBest-cur > xdrop {
			break
		}
	}
	return runningBest, left, left + right
}

// primaryHitFilter deduplicates seed hits that land on the same diagonal
// within a band, keeping only the first (the "primary" hit), the Go
// equivalent of is_primary_hit's collision filter (collision.h wasn't
// in the retrieval pack; this reproduces its documented contract --
// reject a hit if an earlier hit on a nearby diagonal already covers the
// same (query, subject) window -- rather than its exact bit layout).
type primaryHitFilter struct {
	seen map[int]int // diagonal -> rightmost covered query offset
}

func newPrimaryHitFilter() *primaryHitFilter {
	return &primaryHitFilter{seen: make(map[int]int)}
}

func (f *primaryHitFilter) isPrimary(queryPos, subjectPos, delta, length int) bool {
	diagonal := subjectPos - queryPos
	begin := queryPos - delta
	end := begin + length
	if covered, ok := f.seen[diagonal]; ok && begin < covered {
		return false
	}
	f.seen[diagonal] = end
	return true
}

// Prefilter runs the three-rung ladder over a batch of raw seed hits for
// a single query/subject pair source, returning the DpTargets that
// survived to the final rung and are ready for the full swipe kernel,
// while updating stats with the ladder's counts (§4.3, §9 feature 6).
func Prefilter(sc *ScoringContext, cfg PrefilterConfig, query []Letter, subjects []Sequence, hits []SeedHit, stats *Statistics) []DpTarget {
	filter := newPrimaryHitFilter()
	var targets []DpTarget

	for _, h := range hits {
		subj := subjects[h.SubjectPos]
		anchor := cfg.SeedAnchor
		score, delta, length := stage2Ungapped(sc, query[h.QueryPos:], subj.WithDelim()[1:], anchor)
		if score < cfg.MinUngappedRawScore {
			continue
		}
		stats.incMatches2()

		if !filter.isPrimary(h.QueryPos, h.SubjectPos, delta, length) {
			continue
		}
		stats.incMatches3()

		if score < cfg.MinHitRawScore {
			score = bandedFallback(sc, cfg, query[h.QueryPos:], subj)
		}
		if score < cfg.MinHitRawScore {
			continue
		}
		stats.incMatches4()

		targets = append(targets, DpTarget{
			Seq:    subj,
			DBegin: 0,
			DEnd:   cfg.HitBand,
		})
	}
	return targets
}

// bandedFallback re-scores a marginal hit with a small banded gapped
// alignment around the seed anchor, matching stage2.cpp's call into
// smith_waterman(query, s, config.hit_band, ...) for hits that pass the
// collision filter but not the raw ungapped threshold.
func bandedFallback(sc *ScoringContext, cfg PrefilterConfig, query []Letter, subject Sequence) int {
	target := DpTarget{Seq: subject, DBegin: 0, DEnd: cfg.HitBand}
	t16 := traits16()
	q := [3]Sequence{wrapWithDelimiters(query), NewSequence(nil), NewSequence(nil)}
	best, _, _ := runColumns(sc, q, []DpTarget{target}, t16, nil)
	if len(best) == 0 {
		return 0
	}
	return best[0]
}

// wrapWithDelimiters brackets a bare residue slice with leading/trailing
// DELIMITER sentinels, the shape Sequence.At expects.
func wrapWithDelimiters(letters []Letter) Sequence {
	buf := make([]Letter, len(letters)+2)
	buf[0] = DELIMITER
	copy(buf[1:], letters)
	buf[len(buf)-1] = DELIMITER
	return NewSequence(buf)
}
