package swipe

import "testing"

// buildSelfAlignTranslated returns a TranslatedSequence whose forward
// frame 0 reads "MAF" (ATG GCT TTT), used by the end-to-end Align tests
// below as a query that should align to an identical subject with a
// strongly positive score.
func buildSelfAlignTranslated(sc *ScoringContext) *TranslatedSequence {
	return NewTranslatedSequence(sc, []byte("ATGGCTTTT"))
}

func encodeResidues(sc *ScoringContext, residues string) []Letter {
	out := make([]Letter, len(residues))
	for i := 0; i < len(residues); i++ {
		out[i] = sc.EncodeResidue(residues[i])
	}
	return out
}

func TestAlignIdenticalSequencesScoresPositive(t *testing.T) {
	sc := NewScoringContext()
	query := buildSelfAlignTranslated(sc)

	subject := wrapWithDelimiters(encodeResidues(sc, "MAF"))
	target := DpTarget{Seq: subject, DBegin: 0, DEnd: 7}

	hsp := Align(sc, query, Forward, target)

	if hsp.Score <= 0 {
		t.Fatalf("expected a positive score aligning identical sequences, got %d", hsp.Score)
	}
	if hsp.QueryRange.Len() <= 0 {
		t.Errorf("QueryRange is empty: %+v", hsp.QueryRange)
	}
	if hsp.SubjectRange.Len() <= 0 {
		t.Errorf("SubjectRange is empty: %+v", hsp.SubjectRange)
	}
	if len(hsp.Transcript) == 0 {
		t.Fatalf("expected a non-empty transcript")
	}
	if hsp.Transcript[len(hsp.Transcript)-1] != OpTerminator {
		t.Errorf("transcript should end with OpTerminator")
	}
}

func TestAlignTranscriptReplayMatchesReportedScore(t *testing.T) {
	sc := NewScoringContext()
	query := buildSelfAlignTranslated(sc)

	subject := wrapWithDelimiters(encodeResidues(sc, "MAF"))
	target := DpTarget{Seq: subject, DBegin: 0, DEnd: 7}

	hsp := Align(sc, query, Forward, target)
	if hsp.Score <= 0 {
		t.Fatalf("precondition failed: expected positive score, got %d", hsp.Score)
	}

	frames := query.GetStrand(Forward)
	qLetters := frames[hsp.Frame].Data()[hsp.QueryRange.Begin:hsp.QueryRange.End]
	sLetters := subject.Data()[hsp.SubjectRange.Begin:hsp.SubjectRange.End]

	replayed := hsp.Replay(sc, qLetters, sLetters, sc.FrameShift)
	if replayed != hsp.Score {
		t.Errorf("replaying the transcript gave score %d, want %d (reported)", replayed, hsp.Score)
	}
}

func TestScoreOnlyAgreesWithAlignForLowScoringBand(t *testing.T) {
	sc := NewScoringContext()
	query := buildSelfAlignTranslated(sc)

	subject := wrapWithDelimiters(encodeResidues(sc, "MAF"))
	targets := []DpTarget{{Seq: subject, DBegin: 0, DEnd: 7}}

	ScoreOnly(sc, query, Forward, targets)
	if targets[0].Overflow {
		t.Fatalf("did not expect overflow for a 3-residue alignment")
	}

	direct := Align(sc, query, Forward, DpTarget{Seq: subject, DBegin: 0, DEnd: 7})
	if targets[0].Score != direct.Score {
		t.Errorf("ScoreOnly score %d does not match Align score %d", targets[0].Score, direct.Score)
	}
}
