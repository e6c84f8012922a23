// Package matcher finds the cluster whose centroid is nearest to a 2-D query
// and returns that cluster's courses in recommended order.
package matcher

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kamusis/coursepath/internal/dataset"
)

// Centroid is the mean position of all items sharing a label.
type Centroid struct {
	Label dataset.Label `json:"cluster"`
	X     float64       `json:"x"`
	Y     float64       `json:"y"`
	Size  int           `json:"size"`
}

// Query is a user position on the two factor axes.
type Query struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
}

// Candidate pairs a centroid with its distance to the query.
type Candidate struct {
	Centroid
	Distance float64 `json:"distance"`
}

// Result is the outcome of a match.
type Result struct {
	Label      dataset.Label  `json:"cluster"`
	Distance   float64        `json:"distance"`
	Items      []dataset.Item `json:"items"`
	Centroids  []Centroid     `json:"centroids"`
	Candidates []Candidate    `json:"candidates"`
}

// ComputeCentroids returns one centroid per distinct label, sorted by label.
// An empty dataset yields nil.
func ComputeCentroids(ds dataset.Dataset) []Centroid {
	xs := make(map[dataset.Label][]float64)
	ys := make(map[dataset.Label][]float64)
	for _, it := range ds.Items {
		xs[it.Cluster] = append(xs[it.Cluster], it.Factor1)
		ys[it.Cluster] = append(ys[it.Cluster], it.Factor2)
	}

	labels := make([]dataset.Label, 0, len(xs))
	for l := range xs {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	out := make([]Centroid, 0, len(labels))
	for _, l := range labels {
		out = append(out, Centroid{
			Label: l,
			X:     stat.Mean(xs[l], nil),
			Y:     stat.Mean(ys[l], nil),
			Size:  len(xs[l]),
		})
	}
	return out
}

// Match computes centroids from ds and returns the nearest one to q.
func Match(ds dataset.Dataset, q Query) (Result, error) {
	if ds.Empty() {
		return Result{}, ErrEmptyDataset
	}
	return matchCentroids(ds, ComputeCentroids(ds), q)
}

func matchCentroids(ds dataset.Dataset, centroids []Centroid, q Query) (Result, error) {
	if err := q.validate(); err != nil {
		return Result{}, err
	}

	point := []float64{q.Q1, q.Q2}
	candidates := make([]Candidate, len(centroids))
	best := -1
	for i, c := range centroids {
		d := floats.Distance(point, []float64{c.X, c.Y}, 2)
		candidates[i] = Candidate{Centroid: c, Distance: d}
		// Strict < keeps the lowest label on ties; centroids are label-sorted.
		if best < 0 || d < candidates[best].Distance {
			best = i
		}
	}
	if best < 0 {
		return Result{}, ErrEmptyDataset
	}

	winner := candidates[best]
	items := ds.InCluster(winner.Label)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecommendedOrder < items[j].RecommendedOrder
	})

	return Result{
		Label:      winner.Label,
		Distance:   winner.Distance,
		Items:      items,
		Centroids:  centroids,
		Candidates: candidates,
	}, nil
}

func (q Query) validate() error {
	for _, v := range []float64{q.Q1, q.Q2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: (%v, %v)", ErrInvalidQuery, q.Q1, q.Q2)
		}
	}
	return nil
}

// Matcher binds an immutable dataset and computes its centroids once.
// It is safe for concurrent use.
type Matcher struct {
	ds        dataset.Dataset
	once      sync.Once
	centroids []Centroid
}

// New returns a Matcher over ds. The caller must not mutate ds afterwards.
func New(ds dataset.Dataset) *Matcher {
	return &Matcher{ds: ds}
}

// Dataset returns the bound dataset.
func (m *Matcher) Dataset() dataset.Dataset { return m.ds }

// Centroids returns the memoized centroids. The slice is shared; do not modify it.
func (m *Matcher) Centroids() []Centroid {
	m.once.Do(func() {
		m.centroids = ComputeCentroids(m.ds)
	})
	return m.centroids
}

// Match is equivalent to the package-level Match on the bound dataset.
func (m *Matcher) Match(q Query) (Result, error) {
	if m.ds.Empty() {
		return Result{}, ErrEmptyDataset
	}
	return matchCentroids(m.ds, m.Centroids(), q)
}
