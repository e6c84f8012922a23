package search

import "sort"

// SortResults sorts results by cluster, then recommended order, then row ID.
func SortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Course, results[j].Course
		if a.Cluster != b.Cluster {
			return a.Cluster < b.Cluster
		}
		if a.RecommendedOrder != b.RecommendedOrder {
			return a.RecommendedOrder < b.RecommendedOrder
		}
		return a.ID < b.ID
	})
}
