package report

import (
	"cmp"
	"sort"
)

// Rank returns a copy of entries ordered by the extracted key. The sort is
// stable on purpose: entries with equal keys keep their encounter order, so
// repeated runs over the same input produce identical output.
func Rank[T any, K cmp.Ordered](entries []T, key func(T) K, descending bool) []T {
	out := make([]T, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out
}
