package dataset

import (
	"sort"
	"strconv"
)

// Label identifies a course cluster.
type Label int

func (l Label) String() string {
	return strconv.Itoa(int(l))
}

// DescriptionPlaceholder is shown when a course has no description.
const DescriptionPlaceholder = "詳細なし"

// Item is one course row.
type Item struct {
	ID               int     `json:"id" db:"id"`
	Cluster          Label   `json:"cluster" db:"cluster"`
	Factor1          float64 `json:"factor1_score" db:"factor1_score"`
	Factor2          float64 `json:"factor2_score" db:"factor2_score"`
	Name             string  `json:"display_name" db:"display_name"`
	Description      string  `json:"description" db:"description"`
	RecommendedOrder int     `json:"recommended_order" db:"recommended_order"`
}

// Dataset is an ordered, read-only collection of course items.
type Dataset struct {
	Items []Item
}

// New builds a Dataset, assigning row-index IDs in the given order.
func New(items []Item) Dataset {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].ID = i
	}
	return Dataset{Items: out}
}

// Len returns the number of items.
func (d Dataset) Len() int { return len(d.Items) }

// Empty reports whether the dataset has no items.
func (d Dataset) Empty() bool { return len(d.Items) == 0 }

// Labels returns the distinct cluster labels in ascending order.
func (d Dataset) Labels() []Label {
	seen := make(map[Label]struct{})
	var out []Label
	for _, it := range d.Items {
		if _, ok := seen[it.Cluster]; ok {
			continue
		}
		seen[it.Cluster] = struct{}{}
		out = append(out, it.Cluster)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InCluster returns the items carrying label l, in source order.
func (d Dataset) InCluster(l Label) []Item {
	var out []Item
	for _, it := range d.Items {
		if it.Cluster == l {
			out = append(out, it)
		}
	}
	return out
}
