package search

import (
	"testing"

	"github.com/kamusis/coursepath/internal/dataset"
)

func names(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Course.Name
	}
	return out
}

func TestCourses_Fallback(t *testing.T) {
	ds := dataset.Fallback()
	cases := []struct {
		query string
		want  []string
	}{
		{"ai", []string{"高度AI理論", "生成AI実装特論", "最新API活用"}},
		{"ＡＩ", []string{"高度AI理論", "生成AI実装特論", "最新API活用"}},
		{"生成 api", []string{"最新API活用"}},
		{"基礎", []string{"統計数学基礎", "Web開発基礎"}},
		{"python データ", []string{"データ分析入門"}},
		{"nothing-like-this", []string{}},
		{"   ", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := names(Courses(ds, tc.query, 0))
			if len(got) != len(tc.want) {
				t.Fatalf("Courses(%q) = %v, want %v", tc.query, got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("Courses(%q) = %v, want %v", tc.query, got, tc.want)
				}
			}
		})
	}
}

func TestCourses_Limit(t *testing.T) {
	got := Courses(dataset.Fallback(), "ai", 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestCourses_Why(t *testing.T) {
	got := Courses(dataset.Fallback(), "llm", 0)
	if len(got) != 1 || got[0].Why != "description" || got[0].Score != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSortResults(t *testing.T) {
	rs := []Result{
		{Course: dataset.Item{ID: 5, Cluster: 1, RecommendedOrder: 1}},
		{Course: dataset.Item{ID: 2, Cluster: 0, RecommendedOrder: 2}},
		{Course: dataset.Item{ID: 1, Cluster: 1, RecommendedOrder: 1}},
		{Course: dataset.Item{ID: 0, Cluster: 0, RecommendedOrder: 1}},
	}
	SortResults(rs)
	want := []int{0, 2, 1, 5}
	for i, id := range want {
		if rs[i].Course.ID != id {
			t.Fatalf("position %d has ID %d, want %d", i, rs[i].Course.ID, id)
		}
	}
}
