package swipe

import "testing"

func TestTranslate6FramesForwardFrame0(t *testing.T) {
	// ATG GCT TTT -> M A F
	frames := Translate6Frames([]byte("ATGGCTTTT"))
	got := string(frames[0])
	want := "MAF"
	if got != want {
		t.Errorf("frame 0 = %q, want %q", got, want)
	}
}

func TestTranslate6FramesElidesStopCodons(t *testing.T) {
	// ATG TAA GCT -> M then a stop (elided) then A
	frames := Translate6Frames([]byte("ATGTAAGCT"))
	got := string(frames[0])
	want := "MA"
	if got != want {
		t.Errorf("frame 0 = %q, want %q (stop codon should be elided, not terminate translation)", got, want)
	}
}

func TestTranslate6FramesReverseComplement(t *testing.T) {
	// reverse complement of ATGGCTTTT is AAAAGCCAT; frame 3 reads codons
	// from the 3' end of the original strand.
	frames := Translate6Frames([]byte("ATGGCTTTT"))
	if len(frames[3]) == 0 {
		t.Fatalf("reverse frame 0 produced no residues")
	}
}

func TestNewTranslatedSequenceBuildsSixFrames(t *testing.T) {
	sc := NewScoringContext()
	ts := NewTranslatedSequence(sc, []byte("ATGGCTTTTATGGCTTTT"))
	fwd := ts.GetStrand(Forward)
	rev := ts.GetStrand(Reverse)
	for i, s := range fwd {
		if s.Len() == 0 {
			t.Errorf("forward frame %d is empty", i)
		}
	}
	for i, s := range rev {
		if s.Len() == 0 {
			t.Errorf("reverse frame %d is empty", i)
		}
	}
	if ts.SourceLength != 18 {
		t.Errorf("SourceLength = %d, want 18", ts.SourceLength)
	}
}
