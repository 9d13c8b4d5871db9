package query

import "github.com/gffbase/gffbase/internal/gff"

// MergeAll partitions features into clusters under criterion: any two
// features it judges mergeable end up in the same cluster, transitively.
// Ported from gffutils' FeatureDB.merge_all (interface.py), which folds
// a query result set down to non-overlapping representatives; here it
// is a pure function over an already-fetched slice, since internal/query
// deliberately stops short of a general query-and-mutate surface.
func MergeAll(features []*gff.Feature, criterion Criterion) [][]*gff.Feature {
	n := len(features)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if criterion(features[i], features[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]*gff.Feature)
	var order []int
	for i, f := range features {
		root := find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], f)
	}

	out := make([][]*gff.Feature, 0, len(order))
	for _, root := range order {
		out = append(out, groups[root])
	}
	return out
}
