package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/logging"
	"github.com/kamusis/coursepath/internal/matcher"
	"github.com/kamusis/coursepath/internal/metrics"
	"github.com/kamusis/coursepath/internal/plot"
	"github.com/kamusis/coursepath/internal/search"
	"github.com/kamusis/coursepath/internal/validation"
)

// matchRequest carries the raw query parameters of /api/match.
type matchRequest struct {
	Q1 string `query:"q1" validate:"required,numeric"`
	Q2 string `query:"q2" validate:"required,numeric"`
}

// clusterView is a label together with its display name and description.
type clusterView struct {
	Label       dataset.Label `json:"cluster"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

type matchResponse struct {
	Query      matcher.Query       `json:"query"`
	Cluster    clusterView         `json:"cluster"`
	Distance   float64             `json:"distance"`
	Courses    []dataset.Item      `json:"courses"`
	Candidates []matcher.Candidate `json:"candidates"`
	Fallback   bool                `json:"fallback"`
}

type centroidView struct {
	matcher.Centroid
	Name  string `json:"name"`
	Color string `json:"color"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Items    int    `json:"items"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Items:    s.matcher.Dataset().Len(),
		Source:   s.source.Path,
		Fallback: s.source.Fallback,
	})
}

// parseQuery validates q1 and q2 against the configured slider ranges.
func parseQuery(r *http.Request, axes config.QueryConfig) (matcher.Query, *validation.Error) {
	req := matchRequest{
		Q1: strings.TrimSpace(r.URL.Query().Get("q1")),
		Q2: strings.TrimSpace(r.URL.Query().Get("q2")),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return matcher.Query{}, verr
	}
	q1, _ := strconv.ParseFloat(req.Q1, 64)
	q2, _ := strconv.ParseFloat(req.Q2, 64)
	verr := validation.Merge(
		validation.ValidateVar("q1", q1, rangeTag(axes.Q1)),
		validation.ValidateVar("q2", q2, rangeTag(axes.Q2)),
	)
	if verr != nil {
		return matcher.Query{}, verr
	}
	return matcher.Query{Q1: q1, Q2: q2}, nil
}

func rangeTag(a config.Axis) string {
	return fmt.Sprintf("gte=%g,lte=%g", a.Min, a.Max)
}

// match runs the matcher and records metrics.
func (s *Server) match(q matcher.Query) (matcher.Result, error) {
	start := time.Now()
	res, err := s.matcher.Match(q)
	if err != nil {
		return res, err
	}
	metrics.RecordMatch(res.Label, time.Since(start))
	return res, nil
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	q, verr := parseQuery(r, s.query)
	if verr != nil {
		respondValidation(w, r, verr)
		return
	}
	res, err := s.match(q)
	if err != nil {
		if errors.Is(err, matcher.ErrInvalidQuery) {
			respondError(w, r, http.StatusBadRequest, "INVALID_QUERY", err.Error())
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("match failed")
		respondError(w, r, http.StatusInternalServerError, "MATCH_FAILED", err.Error())
		return
	}
	courses := res.Items
	if courses == nil {
		courses = []dataset.Item{}
	}
	respondJSON(w, r, http.StatusOK, matchResponse{
		Query:      q,
		Cluster:    describe(s.labels, res.Label),
		Distance:   res.Distance,
		Courses:    courses,
		Candidates: res.Candidates,
		Fallback:   s.source.Fallback,
	})
}

func (s *Server) handleCentroids(w http.ResponseWriter, r *http.Request) {
	cs := s.matcher.Centroids()
	out := make([]centroidView, len(cs))
	for i, c := range cs {
		out[i] = centroidView{Centroid: c, Name: s.labels.Lookup(c.Label).Name, Color: plot.ClusterColor(c.Label)}
	}
	respondJSON(w, r, http.StatusOK, out)
}

// handleCourses lists courses, optionally restricted to one cluster and/or
// filtered by keyword.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	ds := s.matcher.Dataset()
	params := r.URL.Query()

	var (
		cluster    dataset.Label
		hasCluster bool
	)
	if raw := strings.TrimSpace(params.Get("cluster")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_CLUSTER", "cluster must be an integer")
			return
		}
		cluster, hasCluster = dataset.Label(n), true
	}

	limit := 0
	if raw := strings.TrimSpace(params.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		if verr := validation.ValidateVar("limit", n, "gte=0,lte=1000"); verr != nil {
			respondValidation(w, r, verr)
			return
		}
		limit = n
	}

	var results []search.Result
	if q := params.Get("q"); strings.TrimSpace(q) != "" {
		results = search.Courses(ds, q, 0)
	} else {
		results = make([]search.Result, 0, ds.Len())
		for _, it := range ds.Items {
			results = append(results, search.Result{Course: it})
		}
		search.SortResults(results)
	}

	out := make([]search.Result, 0, len(results))
	for _, res := range results {
		if hasCluster && res.Course.Cluster != cluster {
			continue
		}
		out = append(out, res)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	respondJSON(w, r, http.StatusOK, out)
}

func describe(c *labels.Catalog, l dataset.Label) clusterView {
	info := c.Lookup(l)
	return clusterView{Label: l, Name: info.Name, Description: info.Description}
}
