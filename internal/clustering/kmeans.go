// Package clustering derives cluster labels for an unlabeled course table
// with k-means over the two factor scores.
package clustering

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mpraski/clusters"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kamusis/coursepath/internal/dataset"
)

// DefaultIterations bounds Lloyd iterations when the caller passes 0.
const DefaultIterations = 1000

// ErrInvalidK is returned when k is out of range for the dataset.
var ErrInvalidK = errors.New("invalid cluster count")

// Assign returns a copy of ds with every item's Cluster replaced by its
// k-means assignment and RecommendedOrder renumbered from 1 by distance to
// the cluster mean. New labels run 0..k-1 in order of first appearance.
func Assign(ds dataset.Dataset, k, iterations int) (dataset.Dataset, error) {
	if ds.Empty() {
		return dataset.Dataset{}, errors.New("cannot cluster an empty course table")
	}
	if k < 1 || k > ds.Len() {
		return dataset.Dataset{}, fmt.Errorf("%w: k=%d for %d courses", ErrInvalidK, k, ds.Len())
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	guesses, err := learn(ds, k, iterations)
	if err != nil {
		return dataset.Dataset{}, err
	}

	items := make([]dataset.Item, ds.Len())
	copy(items, ds.Items)
	for i, l := range remap(guesses) {
		items[i].Cluster = l
	}
	renumber(items)
	return dataset.New(items), nil
}

func learn(ds dataset.Dataset, k, iterations int) ([]int, error) {
	if k == 1 {
		return make([]int, ds.Len()), nil
	}
	data := make([][]float64, ds.Len())
	for i, it := range ds.Items {
		data[i] = []float64{it.Factor1, it.Factor2}
	}
	c, err := clusters.KMeans(iterations, k, clusters.EuclideanDistance)
	if err != nil {
		return nil, fmt.Errorf("cannot create k-means clusterer: %w", err)
	}
	if err := c.Learn(data); err != nil {
		return nil, fmt.Errorf("cannot learn clusters: %w", err)
	}
	return c.Guesses(), nil
}

// remap turns arbitrary cluster ids into labels numbered by first appearance.
func remap(guesses []int) []dataset.Label {
	seen := make(map[int]dataset.Label)
	out := make([]dataset.Label, len(guesses))
	for i, g := range guesses {
		l, ok := seen[g]
		if !ok {
			l = dataset.Label(len(seen))
			seen[g] = l
		}
		out[i] = l
	}
	return out
}

func renumber(items []dataset.Item) {
	groups := make(map[dataset.Label][]int)
	for i, it := range items {
		groups[it.Cluster] = append(groups[it.Cluster], i)
	}
	for _, idx := range groups {
		xs := make([]float64, len(idx))
		ys := make([]float64, len(idx))
		for j, i := range idx {
			xs[j], ys[j] = items[i].Factor1, items[i].Factor2
		}
		mean := []float64{stat.Mean(xs, nil), stat.Mean(ys, nil)}
		dist := func(i int) float64 {
			return floats.Distance([]float64{items[i].Factor1, items[i].Factor2}, mean, 2)
		}
		sort.SliceStable(idx, func(a, b int) bool { return dist(idx[a]) < dist(idx[b]) })
		for rank, i := range idx {
			items[i].RecommendedOrder = rank + 1
		}
	}
}
