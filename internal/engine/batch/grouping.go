// internal/engine/batch/grouping.go
package batch

import (
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/pkg/models"
)

// CountByStore counts targets per store
func CountByStore(targets []models.Target) map[models.Store]int {
	counts := make(map[models.Store]int)
	for _, t := range targets {
		counts[t.Store]++
	}
	return counts
}

// warmupStores returns the challenge-prone stores present in targets, in store priority order
func warmupStores(targets []models.Target) []models.Store {
	counts := CountByStore(targets)
	var out []models.Store
	for _, s := range models.KnownStores {
		if counts[s] > 0 && store.ChallengeProne(s) {
			out = append(out, s)
		}
	}
	return out
}
