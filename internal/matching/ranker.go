package matching

import (
	"sort"

	"swellyo-workers/internal/models"
)

// rank orders evaluations by score, then by destination-days term, then by input
// position, and keeps the first k.
func rank(items []scored, k int) []models.SuggestedMatch {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].match, items[j].match
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Breakdown.DestinationDays != b.Breakdown.DestinationDays {
			return a.Breakdown.DestinationDays > b.Breakdown.DestinationDays
		}
		return items[i].index < items[j].index
	})

	if k > len(items) {
		k = len(items)
	}
	out := make([]models.SuggestedMatch, 0, k)
	for _, it := range items[:k] {
		out = append(out, it.match)
	}
	return out
}
