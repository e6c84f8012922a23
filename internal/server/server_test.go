package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/matcher"
	"github.com/kamusis/coursepath/internal/search"
	"github.com/kamusis/coursepath/internal/validation"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	src := dataset.LoadResult{Dataset: dataset.Fallback(), Path: "builtin.csv", Fallback: true}
	s, err := New(src, labels.Default(), config.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s.Router()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RejectsEmptyDataset(t *testing.T) {
	_, err := New(dataset.LoadResult{Dataset: dataset.New(nil)}, nil, config.DefaultConfig())
	if !errors.Is(err, matcher.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestMatch_Scenarios(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		target    string
		wantLabel dataset.Label
		wantFirst string
	}{
		{"/api/match?q1=0&q2=0", 3, "情報リテラシー"},
		{"/api/match?q1=2.5&q2=-2", 0, "高度AI理論"},
	}
	for _, tc := range cases {
		rec := get(t, h, tc.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d body %s", tc.target, rec.Code, rec.Body.String())
		}
		var body matchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		if body.Cluster.Label != tc.wantLabel {
			t.Fatalf("%s: cluster %d, want %d", tc.target, body.Cluster.Label, tc.wantLabel)
		}
		if body.Cluster.Name != labels.Default().Lookup(tc.wantLabel).Name {
			t.Fatalf("%s: name %q", tc.target, body.Cluster.Name)
		}
		if len(body.Courses) != 2 || body.Courses[0].Name != tc.wantFirst {
			t.Fatalf("%s: courses %+v", tc.target, body.Courses)
		}
		if len(body.Candidates) != 5 {
			t.Fatalf("%s: expected 5 candidates, got %d", tc.target, len(body.Candidates))
		}
		if !body.Fallback {
			t.Fatalf("%s: fallback flag not reported", tc.target)
		}
	}
}

func TestMatch_Validation(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		target    string
		wantField string
		wantTag   string
	}{
		{"/api/match?q2=0", "q1", "required"},
		{"/api/match?q1=abc&q2=0", "q1", "numeric"},
		{"/api/match?q1=NaN&q2=0", "q1", "numeric"},
		{"/api/match?q1=0&q2=9", "q2", "lte"},
		{"/api/match?q1=-6&q2=0", "q1", "gte"},
	}
	for _, tc := range cases {
		rec := get(t, h, tc.target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", tc.target, rec.Code)
		}
		var body validation.APIError
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		if body.Code != "VALIDATION_ERROR" {
			t.Fatalf("%s: code %q", tc.target, body.Code)
		}
		if len(body.Fields) == 0 || body.Fields[0].Field != tc.wantField || body.Fields[0].Tag != tc.wantTag {
			t.Fatalf("%s: fields %+v", tc.target, body.Fields)
		}
	}
}

func TestCentroids(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/centroids")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var body []centroidView
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 5 {
		t.Fatalf("expected 5 centroids, got %d", len(body))
	}
	for i, c := range body {
		if c.Label != dataset.Label(i) || c.Name == "" || c.Color == "" {
			t.Fatalf("centroid %d = %+v", i, c)
		}
	}
}

func TestCourses(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		target string
		want   int
	}{
		{"/api/courses", 10},
		{"/api/courses?cluster=2", 2},
		{"/api/courses?cluster=9", 0},
		{"/api/courses?q=AI", 3},
		{"/api/courses?q=AI&cluster=0", 2},
		{"/api/courses?limit=4", 4},
	}
	for _, tc := range cases {
		rec := get(t, h, tc.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.target, rec.Code)
		}
		var body []search.Result
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.target, err)
		}
		if len(body) != tc.want {
			t.Fatalf("%s: got %d results, want %d", tc.target, len(body), tc.want)
		}
	}

	for _, bad := range []string{"/api/courses?cluster=x", "/api/courses?limit=-1", "/api/courses?limit=z"} {
		if rec := get(t, h, bad); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", bad, rec.Code)
		}
	}
}

func TestIndex_RendersPage(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/?q1=2.5&q2=-2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		labels.Default().Lookup(0).Name,
		"高度AI理論",
		"理論度 2.50 / 基礎度 -1.50",
		`id="` + chartDOMID + `"`,
		`type="range"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}

	rec = get(t, h, "/?q1=99&q2=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "q1 must be less than or equal to 3") {
		t.Fatal("out-of-range notice missing")
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/healthz")
	if len(rec.Header().Get(requestIDHeader)) != 36 {
		t.Fatalf("generated request id missing: %q", rec.Header().Get(requestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get(requestIDHeader) != "abc" {
		t.Fatalf("incoming request id not echoed: %q", rec.Header().Get(requestIDHeader))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/healthz")
	var health healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" || health.Items != 10 || !health.Fallback {
		t.Fatalf("health = %+v", health)
	}

	_ = get(t, h, "/api/match?q1=0&q2=0")
	rec = get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
	for _, want := range []string{"coursepath_matches_total", "coursepath_http_requests_total", "coursepath_dataset_fallback 1"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
