// Package plot renders the user's position, cluster centroids and courses as
// an echarts scatter plot.
package plot

import (
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/matcher"
)

const (
	Title  = "あなたの立ち位置とおすすめコース"
	XLabel = "Web・アプリ開発   ⇔   数学・データ分析"
	YLabel = "生成AI・実践   ⇔   教科書・基礎"

	SeriesRecommended = "Recommended Courses"
	SeriesCentroids   = "Centroids"
	SeriesYou         = "You"

	// EChartsJS is loaded by pages that embed a Snippet.
	EChartsJS = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

	recommendedColor = "#FF0000"
	centroidColor    = "#333333"
	youColor         = "#FFD700"

	// Five-pointed star outline for the user's marker.
	starPath = "path://M50,0 L61,35 L98,35 L68,57 L79,91 L50,70 L21,91 L32,57 L2,35 L39,35 Z"
)

// Palette colors clusters 0..4; further clusters cycle.
var Palette = []string{"#ADD8E6", "#FFA07A", "#90EE90", "#FFB6C1", "#DDA0DD"}

// Range is a closed axis interval.
type Range struct {
	Min, Max float64
}

// View is everything the plot needs.
type View struct {
	Dataset dataset.Dataset
	Result  matcher.Result
	Query   matcher.Query
	Labels  *labels.Catalog
	X, Y    Range
	// ChartID pins the DOM id so pages can address the chart; empty picks a
	// random one.
	ChartID string
}

// Scatter builds the chart. Courses of the matched cluster are drawn in the
// recommended series instead of their cluster series.
func Scatter(v View) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Width:     "100%",
			Height:    "560px",
			ChartID:   v.ChartID,
		}),
		charts.WithTitleOpts(opts.Title{Title: Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:         "value",
			Name:         XLabel,
			NameLocation: "middle",
			NameGap:      30,
			Min:          pad(v.X).Min,
			Max:          pad(v.X).Max,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:         "value",
			Name:         YLabel,
			NameLocation: "middle",
			NameGap:      40,
			Min:          pad(v.Y).Min,
			Max:          pad(v.Y).Max,
		}),
	)

	matched := v.Result.Label
	hasMatch := len(v.Result.Centroids) > 0

	for _, l := range v.Dataset.Labels() {
		if hasMatch && l == matched {
			continue
		}
		var pts []opts.ScatterData
		for _, it := range v.Dataset.InCluster(l) {
			pts = append(pts, opts.ScatterData{Name: it.Name, Value: []float64{it.Factor1, it.Factor2}, SymbolSize: 10})
		}
		sc.AddSeries(v.Labels.Lookup(l).Name, pts,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ClusterColor(l), Opacity: opts.Float(0.7)}),
		)
	}

	if hasMatch {
		var pts []opts.ScatterData
		for _, it := range v.Result.Items {
			pts = append(pts, opts.ScatterData{Name: it.Name, Value: []float64{it.Factor1, it.Factor2}, SymbolSize: 14})
		}
		sc.AddSeries(SeriesRecommended, pts,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: recommendedColor, BorderColor: "#FFFFFF", BorderWidth: 1}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
		)
	}

	var cs []opts.ScatterData
	for _, c := range v.Result.Centroids {
		cs = append(cs, opts.ScatterData{
			Name:  fmt.Sprintf("%s (n=%d)", v.Labels.Lookup(c.Label).Name, c.Size),
			Value: []float64{c.X, c.Y},
		})
	}
	sc.AddSeries(SeriesCentroids, cs,
		charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "diamond", SymbolSize: 16}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: centroidColor, Opacity: opts.Float(0.6)}),
	)

	sc.AddSeries(SeriesYou, []opts.ScatterData{{
		Name:  fmt.Sprintf("(%.2f, %.2f)", v.Query.Q1, v.Query.Q2),
		Value: []float64{v.Query.Q1, v.Query.Q2},
	}},
		charts.WithScatterChartOpts(opts.ScatterChart{Symbol: starPath, SymbolSize: 28}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: youColor, BorderColor: "#000000", BorderWidth: 1}),
	)
	return sc
}

// ClusterColor returns the palette color for l.
func ClusterColor(l dataset.Label) string {
	i := int(l) % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// Render writes a standalone HTML page containing the chart.
func Render(w io.Writer, v View) error {
	return Scatter(v).Render(w)
}

// Snippet is a chart ready to embed in another page. The page must load
// EChartsJS before Script runs.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

// Embed renders v as a Snippet.
func Embed(v View) Snippet {
	s := Scatter(v).RenderSnippet()
	return Snippet{
		Element: template.HTML(s.Element), //nolint:gosec // produced by the chart template
		Script:  template.HTML(s.Script),  //nolint:gosec // produced by the chart template
	}
}

func pad(r Range) Range {
	if r.Min >= r.Max {
		return Range{Min: r.Min - 1, Max: r.Min + 1}
	}
	return Range{Min: r.Min - 0.5, Max: r.Max + 0.5}
}
