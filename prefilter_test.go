package swipe

import "testing"

// buildBracketedWs returns a delimiter-bracketed Letter slice of n W
// residues, the alphabet's highest self-match score (BLOSUM62 W-W = 11),
// which makes the ungapped extension's running score trivial to compute
// by hand: every step is +11, so no xdrop ever fires and the final score
// is just (2*halfLen)*11 for a symmetric extension around the anchor.
func buildBracketedWs(sc *ScoringContext, n int) []Letter {
	letters := make([]Letter, n+2)
	letters[0] = DELIMITER
	letters[len(letters)-1] = DELIMITER
	w := sc.EncodeResidue('W')
	for i := 0; i < n; i++ {
		letters[i+1] = w
	}
	return letters
}

// TestStage2UngappedExactScore pins stage2Ungapped's arithmetic against a
// hand-computed value: 5 W's bracketed by delimiters, anchored on the
// middle residue, extends 2 residues right (+22) then 2 more left
// (+22), for a final score of 44, delta 2, length 4.
func TestStage2UngappedExactScore(t *testing.T) {
	sc := NewScoringContext()
	query := buildBracketedWs(sc, 5)
	subject := buildBracketedWs(sc, 5)[1:] // drop leading DELIMITER, per Prefilter's own subj.WithDelim()[1:] convention

	score, delta, length := stage2Ungapped(sc, query, subject, 3)
	if score != 44 {
		t.Fatalf("score = %d, want 44", score)
	}
	if delta != 2 {
		t.Fatalf("delta = %d, want 2", delta)
	}
	if length != 4 {
		t.Fatalf("length = %d, want 4", length)
	}
}

// TestPrefilterUngappedThreshold is spec.md's S4 scenario: a seed whose
// ungapped extension scores below MinUngappedRawScore is discarded, one
// scoring at or above it is kept, and both outcomes are observable in
// Statistics.TentativeMatches2.
func TestPrefilterUngappedThreshold(t *testing.T) {
	sc := NewScoringContext()
	query := buildBracketedWs(sc, 5)
	subjects := []Sequence{NewSequence(buildBracketedWs(sc, 5))}
	hits := []SeedHit{{QueryPos: 0, SubjectPos: 0}}

	cfg := PrefilterConfig{
		MinUngappedRawScore: 45, // one above the hand-computed score of 44
		MinHitRawScore:      0,
		HitBand:             5,
		SeedAnchor:          3,
	}
	stats := &Statistics{}
	targets := Prefilter(sc, cfg, query, subjects, hits, stats)
	if len(targets) != 0 {
		t.Fatalf("got %d targets, want 0 (score 44 < threshold 45)", len(targets))
	}
	if stats.TentativeMatches2 != 0 {
		t.Fatalf("TentativeMatches2 = %d, want 0", stats.TentativeMatches2)
	}

	cfg.MinUngappedRawScore = 44
	stats = &Statistics{}
	targets = Prefilter(sc, cfg, query, subjects, hits, stats)
	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1 (score 44 >= threshold 44)", len(targets))
	}
	if stats.TentativeMatches2 != 1 {
		t.Fatalf("TentativeMatches2 = %d, want 1", stats.TentativeMatches2)
	}
	if stats.TentativeMatches3 != 1 {
		t.Fatalf("TentativeMatches3 = %d, want 1", stats.TentativeMatches3)
	}
	if stats.TentativeMatches4 != 1 {
		t.Fatalf("TentativeMatches4 = %d, want 1", stats.TentativeMatches4)
	}
}

// TestPrefilterCollisionFilterRejectsDuplicateSeed exercises the
// primary-hit collision filter directly: two identical seed hits land on
// the same diagonal and window, so only the first is primary -- the
// second clears the ungapped threshold (counted in TentativeMatches2)
// but is rejected before TentativeMatches3/4 and before a DpTarget is
// emitted.
func TestPrefilterCollisionFilterRejectsDuplicateSeed(t *testing.T) {
	sc := NewScoringContext()
	query := buildBracketedWs(sc, 5)
	subjects := []Sequence{NewSequence(buildBracketedWs(sc, 5))}
	hits := []SeedHit{
		{QueryPos: 0, SubjectPos: 0},
		{QueryPos: 0, SubjectPos: 0},
	}
	cfg := PrefilterConfig{MinUngappedRawScore: 20, MinHitRawScore: 0, HitBand: 5, SeedAnchor: 3}

	stats := &Statistics{}
	targets := Prefilter(sc, cfg, query, subjects, hits, stats)

	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1 (duplicate seed must collapse to one hit)", len(targets))
	}
	if stats.TentativeMatches2 != 2 {
		t.Fatalf("TentativeMatches2 = %d, want 2 (both hits clear the ungapped threshold)", stats.TentativeMatches2)
	}
	if stats.TentativeMatches3 != 1 {
		t.Fatalf("TentativeMatches3 = %d, want 1 (only the first hit is primary)", stats.TentativeMatches3)
	}
	if stats.TentativeMatches4 != 1 {
		t.Fatalf("TentativeMatches4 = %d, want 1", stats.TentativeMatches4)
	}
}

// TestPrefilterIdempotent is spec.md's testable property 5: running the
// pre-filter twice on the same (query, hits) emits the same hits, since
// the primary-hit collision filter's state is local to one Prefilter
// call and never carries over between calls.
func TestPrefilterIdempotent(t *testing.T) {
	sc := NewScoringContext()
	query := buildBracketedWs(sc, 5)
	subjects := []Sequence{NewSequence(buildBracketedWs(sc, 5))}
	hits := []SeedHit{
		{QueryPos: 0, SubjectPos: 0},
		{QueryPos: 0, SubjectPos: 0},
	}
	cfg := PrefilterConfig{MinUngappedRawScore: 20, MinHitRawScore: 0, HitBand: 5, SeedAnchor: 3}

	stats1 := &Statistics{}
	targets1 := Prefilter(sc, cfg, query, subjects, hits, stats1)

	stats2 := &Statistics{}
	targets2 := Prefilter(sc, cfg, query, subjects, hits, stats2)

	if len(targets1) != len(targets2) {
		t.Fatalf("target count differs across runs: %d vs %d", len(targets1), len(targets2))
	}
	for i := range targets1 {
		if targets1[i].DBegin != targets2[i].DBegin || targets1[i].DEnd != targets2[i].DEnd {
			t.Errorf("target %d band differs: [%d,%d) vs [%d,%d)",
				i, targets1[i].DBegin, targets1[i].DEnd, targets2[i].DBegin, targets2[i].DEnd)
		}
		if targets1[i].Seq.Len() != targets2[i].Seq.Len() {
			t.Errorf("target %d subject length differs: %d vs %d", i, targets1[i].Seq.Len(), targets2[i].Seq.Len())
		}
	}
	if stats1.Snapshot() != stats2.Snapshot() {
		t.Fatalf("statistics differ across runs: %+v vs %+v", stats1.Snapshot(), stats2.Snapshot())
	}
}
