package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndaniels/swipe"
)

func TestRunPreservesOriginalJobOrder(t *testing.T) {
	sc := swipe.NewScoringContext()
	query := swipe.NewTranslatedSequence(sc, []byte("ATGGCTTTTATGGCTTTTATGGCTTTT"))

	residues := []string{"MAFMAFMAF", "MAF", "MAFMAF"}
	jobs := make([]Job, len(residues))
	for i, r := range residues {
		letters := make([]swipe.Letter, len(r)+2)
		letters[0] = swipe.DELIMITER
		letters[len(letters)-1] = swipe.DELIMITER
		for j := 0; j < len(r); j++ {
			letters[j+1] = sc.EncodeResidue(r[j])
		}
		seq := swipe.NewSequence(letters)
		jobs[i] = Job{
			Query:  query,
			Strand: swipe.Forward,
			Target: swipe.DpTarget{Seq: seq, DBegin: 0, DEnd: len(r) + 4},
		}
	}

	results := Run(context.Background(), sc, jobs, 4)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equalf(t, jobs[i].Target.Seq.Len(), res.Job.Target.Seq.Len(),
			"result %d does not correspond to job %d (order not preserved)", i, i)
	}
	// the query aligned against itself should score positively regardless
	// of which worker goroutine happened to process it.
	assert.Greater(t, results[0].Hsp.Score, 0)
}

func TestSortByBandIsStableAscending(t *testing.T) {
	targets := []swipe.DpTarget{
		{DBegin: 0, DEnd: 5},
		{DBegin: 0, DEnd: 2},
		{DBegin: 0, DEnd: 2},
		{DBegin: 0, DEnd: 8},
	}
	order := []int{0, 1, 2, 3}
	sortByBand(order, targets)
	for i := 1; i < len(order); i++ {
		if targets[order[i-1]].Band() > targets[order[i]].Band() {
			t.Fatalf("order not sorted by band: %v", order)
		}
	}
	// the two band-2 targets (original indices 1 and 2) must keep their
	// relative order.
	posOf := func(idx int) int {
		for p, o := range order {
			if o == idx {
				return p
			}
		}
		return -1
	}
	if posOf(1) > posOf(2) {
		t.Errorf("sortByBand was not stable for equal-band targets")
	}
}
