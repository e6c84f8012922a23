// Package server is the HTTP presenter: a JSON API over the matcher and an
// HTML page with sliders and the scatter plot.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/matcher"
	"github.com/kamusis/coursepath/internal/metrics"
)

// Server holds the immutable state shared by all requests. Each request
// computes its own result; nothing is shared between sessions.
type Server struct {
	matcher *matcher.Matcher
	labels  *labels.Catalog
	query   config.QueryConfig
	http    config.ServerConfig
	source  dataset.LoadResult
}

// New returns a Server over src.Dataset. An empty dataset is rejected with
// matcher.ErrEmptyDataset.
func New(src dataset.LoadResult, catalog *labels.Catalog, cfg *config.Config) (*Server, error) {
	if src.Dataset.Empty() {
		return nil, matcher.ErrEmptyDataset
	}
	if catalog == nil {
		catalog = labels.Default()
	}
	metrics.RecordDataset(src.Dataset.Len(), src.Fallback)
	return &Server{
		matcher: matcher.New(src.Dataset),
		labels:  catalog,
		query:   cfg.Query,
		http:    cfg.Server,
		source:  src,
	}, nil
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.http.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.http.RateLimitRequests > 0 && s.http.RateLimitWindow > 0 {
			r.Use(httprate.LimitByIP(s.http.RateLimitRequests, s.http.RateLimitWindow))
		}
		r.Get("/", s.handleIndex)
		r.Route("/api", func(r chi.Router) {
			r.Get("/match", s.handleMatch)
			r.Get("/centroids", s.handleCentroids)
			r.Get("/courses", s.handleCourses)
		})
	})
	return r
}

// HTTPServer wraps Router in an *http.Server bound to the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.http.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
