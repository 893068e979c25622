package game

import "sort"

// SortByPlayTime returns a copy of entries sorted by total played hours,
// descending, optionally truncated to the first quantity titles. The sort is
// stable: titles with equal play time keep their input order. A quantity of
// zero or less keeps the whole list.
func SortByPlayTime(entries []Entry, quantity int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPlayedHours > sorted[j].TotalPlayedHours
	})

	if quantity > 0 && quantity < len(sorted) {
		sorted = sorted[:quantity]
	}
	return sorted
}
