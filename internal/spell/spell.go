// Package spell suggests the closest declared name for a misspelled
// build-argument override.
package spell

import "github.com/agext/levenshtein"

// Suggest returns the candidate closest to name by edit distance, or the
// empty string when nothing is within budget. The budget scales with the
// misspelled name: max(1, len/4), so short names only tolerate a single
// edit. Ties go to the earliest candidate in the input list.
func Suggest(name string, candidates []string) string {
	budget := len(name) / 4
	if budget < 1 {
		budget = 1
	}

	best := ""
	bestDist := budget + 1
	for _, candidate := range candidates {
		if d := levenshtein.Distance(name, candidate, nil); d < bestDist {
			best = candidate
			bestDist = d
			if d == 0 {
				break
			}
		}
	}
	return best
}
