package server

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/logging"
	"github.com/kamusis/coursepath/internal/matcher"
	"github.com/kamusis/coursepath/internal/plot"
)

const (
	pageTitle  = "AIコース推薦"
	noCourses  = "該当する推奨コースが見つかりませんでした。"
	scoreFmt   = "理論度 %.2f / 基礎度 %.2f"
	chartDOMID = "coursepath-scatter"
)

//go:embed index.html.tmpl
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type slider struct {
	Name                  string
	Label                 string
	Min, Max, Step, Value float64
}

type pageData struct {
	Title     string
	Sliders   []slider
	Notice    string
	Fallback  bool
	Name      string
	Desc      string
	Courses   []dataset.Item
	Empty     string
	ScoreFmt  string
	Chart     plot.Snippet
	EChartsJS string
}

// pageQuery reads q1/q2 from the URL. Absent values take the slider
// defaults; invalid ones are replaced by the defaults and reported.
func pageQuery(r *http.Request, axes config.QueryConfig) (matcher.Query, string) {
	q := matcher.Query{Q1: axes.Q1.Default, Q2: axes.Q2.Default}
	params := r.URL.Query()
	if params.Get("q1") == "" && params.Get("q2") == "" {
		return q, ""
	}
	parsed, verr := parseQuery(r, axes)
	if verr != nil {
		return q, verr.Error()
	}
	return parsed, ""
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q, notice := pageQuery(r, s.query)
	res, err := s.match(q)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("match failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	info := s.labels.Lookup(res.Label)

	data := pageData{
		Title: pageTitle,
		Sliders: []slider{
			{Name: "q1", Label: plot.XLabel, Min: s.query.Q1.Min, Max: s.query.Q1.Max, Step: s.query.Q1.Step, Value: q.Q1},
			{Name: "q2", Label: plot.YLabel, Min: s.query.Q2.Min, Max: s.query.Q2.Max, Step: s.query.Q2.Step, Value: q.Q2},
		},
		Notice:   notice,
		Fallback: s.source.Fallback,
		Name:     info.Name,
		Desc:     info.Description,
		Courses:  res.Items,
		Empty:    noCourses,
		ScoreFmt: scoreFmt,
		Chart: plot.Embed(plot.View{
			Dataset: s.matcher.Dataset(),
			Result:  res,
			Query:   q,
			Labels:  s.labels,
			X:       plot.Range{Min: s.query.Q1.Min, Max: s.query.Q1.Max},
			Y:       plot.Range{Min: s.query.Q2.Min, Max: s.query.Q2.Max},
			ChartID: chartDOMID,
		}),
		EChartsJS: plot.EChartsJS,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("cannot render page")
	}
}
