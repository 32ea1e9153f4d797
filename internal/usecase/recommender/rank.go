package recommender

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

// rank orders every list by score descending and truncates it to limit.
// Equal scores keep their insertion order.
func rank(table similar.Table, limit int) int {
	entries := 0
	for id, list := range table {
		slices.SortStableFunc(list, func(a, b similar.Document) int {
			return cmp.Compare(b.Score, a.Score)
		})
		if len(list) > limit {
			list = list[:limit:limit]
		}
		table[id] = list
		entries += len(list)
	}
	return entries
}
