package cmd

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/matcher"
	"github.com/kamusis/coursepath/internal/metrics"
	"github.com/kamusis/coursepath/internal/plot"
	"github.com/kamusis/coursepath/internal/validation"
)

const (
	noCoursesMsg = "該当する推奨コースが見つかりませんでした。"
	scoreFormat  = "理論度 %.2f / 基礎度 %.2f"
)

var (
	flagQ1        float64
	flagQ2        float64
	flagRecJSON   bool
	flagRecDebug  bool
	flagRecPlotTo string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend courses for a position on the two interest axes",
	Long: `Find the cluster whose centroid is nearest to (q1, q2) and list its
courses in recommended order.

  q1: Web・アプリ開発 (negative) ⇔ 数学・データ分析 (positive)
  q2: 生成AI・実践 (negative) ⇔ 教科書・基礎 (positive)

Unset axes take query.q1.default / query.q2.default from the config.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().Float64Var(&flagQ1, "q1", 0, "Position on the theory axis")
	recommendCmd.Flags().Float64Var(&flagQ2, "q2", 0, "Position on the fundamentals axis")
	recommendCmd.Flags().BoolVar(&flagRecJSON, "json", false, "Print the result as JSON")
	recommendCmd.Flags().BoolVar(&flagRecDebug, "debug", false, "Show the distance to every centroid")
	recommendCmd.Flags().StringVar(&flagRecPlotTo, "plot", "", "Also write the scatter plot as an HTML page to this path")
	rootCmd.AddCommand(recommendCmd)
}

// recommendation is the --json payload.
type recommendation struct {
	Query       matcher.Query       `json:"query"`
	Cluster     dataset.Label       `json:"cluster"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Distance    float64             `json:"distance"`
	Courses     []dataset.Item      `json:"courses"`
	Candidates  []matcher.Candidate `json:"candidates,omitempty"`
	Source      string              `json:"source"`
	Fallback    bool                `json:"fallback"`
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	c := cfg.Config
	q := matcher.Query{Q1: c.Query.Q1.Default, Q2: c.Query.Q2.Default}
	if cmd.Flags().Changed("q1") {
		q.Q1 = flagQ1
	}
	if cmd.Flags().Changed("q2") {
		q.Q2 = flagQ2
	}
	if err := validateQuery(q, c.Query); err != nil {
		return err
	}

	src, err := loadCourses(c)
	if err != nil {
		return err
	}
	cat, err := loadLabels(c)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := matcher.Match(src.Dataset, q)
	if err != nil {
		return fmt.Errorf("cannot match: %w", err)
	}
	metrics.RecordMatch(res.Label, time.Since(start))

	if flagRecPlotTo != "" {
		if err := writePlot(flagRecPlotTo, src.Dataset, res, q, cat, c.Query); err != nil {
			return err
		}
	}

	if flagRecJSON {
		return printRecommendationJSON(q, res, src, cat)
	}
	printRecommendation(res, src, cat)
	if flagRecPlotTo != "" {
		printOK("", fmt.Sprintf("plot written: %s", flagRecPlotTo))
	}
	return nil
}

func validateQuery(q matcher.Query, axes config.QueryConfig) error {
	verr := validation.Merge(
		validation.ValidateVar("q1", q.Q1, fmt.Sprintf("gte=%g,lte=%g", axes.Q1.Min, axes.Q1.Max)),
		validation.ValidateVar("q2", q.Q2, fmt.Sprintf("gte=%g,lte=%g", axes.Q2.Min, axes.Q2.Max)),
	)
	if verr != nil {
		return fmt.Errorf("invalid query: %w", verr)
	}
	return nil
}

func printRecommendation(res matcher.Result, src dataset.LoadResult, cat *labels.Catalog) {
	if src.Fallback {
		printWarn("", fmt.Sprintf("%s を読み込めないため、組み込みのコース表を使用しています", src.Path))
	}

	info := cat.Lookup(res.Label)
	printSection(info.Name)
	if info.Description != "" {
		fmt.Printf("  %s\n", info.Description)
	}

	if flagRecDebug {
		printBullet("Centroids")
		for _, cand := range res.Candidates {
			marker := " "
			if cand.Label == res.Label {
				marker = "*"
			}
			fmt.Printf("  %s %s  (%.2f, %.2f)  distance %.4f\n",
				marker, padRight(cat.Lookup(cand.Label).Name, 36), cand.X, cand.Y, cand.Distance)
		}
	}

	printBullet("推奨コース")
	if len(res.Items) == 0 {
		fmt.Printf("  %s\n", noCoursesMsg)
		return
	}
	for i, it := range res.Items {
		fmt.Printf("  %d. %s\n", i+1, it.Name)
		fmt.Printf("     %s\n", it.Description)
		fmt.Printf("     "+scoreFormat+"\n", it.Factor1, it.Factor2)
	}
}

func printRecommendationJSON(q matcher.Query, res matcher.Result, src dataset.LoadResult, cat *labels.Catalog) error {
	info := cat.Lookup(res.Label)
	out := recommendation{
		Query:       q,
		Cluster:     res.Label,
		Name:        info.Name,
		Description: info.Description,
		Distance:    res.Distance,
		Courses:     res.Items,
		Source:      src.Path,
		Fallback:    src.Fallback,
	}
	if out.Courses == nil {
		out.Courses = []dataset.Item{}
	}
	if flagRecDebug {
		out.Candidates = res.Candidates
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode result: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

func writePlot(path string, ds dataset.Dataset, res matcher.Result, q matcher.Query, cat *labels.Catalog, axes config.QueryConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()
	err = plot.Render(f, plot.View{
		Dataset: ds,
		Result:  res,
		Query:   q,
		Labels:  cat,
		X:       plot.Range{Min: axes.Q1.Min, Max: axes.Q1.Max},
		Y:       plot.Range{Min: axes.Q2.Min, Max: axes.Q2.Max},
	})
	if err != nil {
		return fmt.Errorf("cannot render plot: %w", err)
	}
	return nil
}
