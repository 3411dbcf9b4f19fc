package swipe

import "sort"

func stableSortByBand(targets []DpTarget) {
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Band() < targets[j].Band()
	})
}
