// Package batch is C7: the batch driver. Targets are grouped by the
// query they were queued against (the unit the lane multiplexer packs,
// §4.4/§4.7 -- a SIMD chunk holds several *targets* for one query, never
// targets from different queries), sorted by band width within each
// group, scored through the int16-SIMD-then-int32-overflow-retry kernel
// (swipe.ScoreOnly, §4.2/§4.7), and only the survivors are re-run through
// the full-traceback scalar kernel (swipe.Align, §4.5) across a worker
// pool pulling from a shared atomic cursor -- grounded on the teacher's
// own worker-pool shape in align.go/link.go (goroutines draining a
// shared index rather than a channel of work items, which is what a
// GOPATH-era Go codebase from this corpus reaches for before worker-pool
// libraries existed).
package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ndaniels/swipe"
)

// Job is one target queued against one query strand for alignment.
type Job struct {
	Query  *swipe.TranslatedSequence
	Strand swipe.Strand
	Target swipe.DpTarget
}

// Result pairs a completed job with the Hsp it produced; the Hsp is the
// zero value (Score 0) if the target scored zero (no local alignment
// survived).
type Result struct {
	Job Job
	Hsp swipe.Hsp
}

// groupKey identifies the jobs that share a query+strand -- the set C5's
// lane multiplexer is allowed to pack across lanes together.
type groupKey struct {
	query  *swipe.TranslatedSequence
	strand swipe.Strand
}

// Run groups jobs by (query, strand), and within each group: stably
// sorts targets by band width, runs the chunked int16 SIMD pass with
// int32 overflow retry via swipe.ScoreOnly (§4.2's overflow policy,
// §4.7's "for each lane-width chunk, attempts the int16 SIMD path; for
// lanes that report overflow, re-runs the chunk through the int32
// path"), then drains only the positive-scoring survivors across
// workerCount goroutines pulling from a shared atomic cursor, each
// worker writing its finished Hsp into the target's exclusively-owned
// Tmp scratch slot (§3) until the merge step below transfers it into the
// target's caller-owned Out vector (§5 "deferred merge of per-target tmp
// vectors"). Results are returned in the original job order.
func Run(ctx context.Context, sc *swipe.ScoringContext, jobs []Job, workerCount int) []Result {
	results := make([]Result, len(jobs))
	for i := range jobs {
		results[i] = Result{Job: jobs[i]}
	}

	outs := make([][]swipe.Hsp, len(jobs))
	tmps := make([]swipe.Hsp, len(jobs))

	groups := map[groupKey][]int{}
	var groupOrder []groupKey
	for i := range jobs {
		k := groupKey{jobs[i].Query, jobs[i].Strand}
		if _, ok := groups[k]; !ok {
			groupOrder = append(groupOrder, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range groupOrder {
		idxs := groups[k]
		targets := make([]swipe.DpTarget, len(idxs))
		for j, idx := range idxs {
			t := jobs[idx].Target
			t.Out = &outs[idx]
			t.Tmp = &tmps[idx]
			targets[j] = t
		}

		// Pre-sort idxs and targets together by band width: ScoreOnly
		// stably re-sorts targets by band internally (its own §4.7
		// chunking step), and a stable sort of already-band-sorted input
		// is a no-op permutation, so positional correspondence between
		// idxs[j] and targets[j] survives the call.
		sortJobsByBand(idxs, targets)

		swipe.ScoreOnly(sc, k.query, k.strand, targets)

		var cursor int64 = -1
		var wg sync.WaitGroup
		for w := 0; w < workerCount; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					default:
					}
					i := atomic.AddInt64(&cursor, 1)
					if i >= int64(len(targets)) {
						return
					}
					target := &targets[i]
					if target.Score <= 0 {
						continue
					}
					*target.Tmp = swipe.Align(sc, k.query, k.strand, *target)
				}
			}()
		}
		wg.Wait()

		for j, idx := range idxs {
			target := &targets[j]
			if target.Score <= 0 {
				continue
			}
			*target.Out = append(*target.Out, *target.Tmp)
			results[idx].Hsp = *target.Tmp
		}
	}

	return results
}

// sortJobsByBand stably reorders idxs and targets together, in lockstep,
// by ascending band width -- the lockstep counterpart of sortByBand,
// which only permutes an index array and leaves targets untouched.
func sortJobsByBand(idxs []int, targets []swipe.DpTarget) {
	for i := 1; i < len(idxs); i++ {
		j := i
		for j > 0 && targets[j-1].Band() > targets[j].Band() {
			targets[j-1], targets[j] = targets[j], targets[j-1]
			idxs[j-1], idxs[j] = idxs[j], idxs[j-1]
			j--
		}
	}
}

// sortByBand stably sorts the index permutation order by the band width
// of the target it names, leaving targets itself untouched.
func sortByBand(order []int, targets []swipe.DpTarget) {
	// insertion sort: batches are typically small (one query's worth of
	// candidate targets), and stability matters more than asymptotics
	// here since tied band widths should keep their prefilter order.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && targets[order[j-1]].Band() > targets[order[j]].Band() {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
}
