package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/search"
)

var flagCoursesCluster int

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the course table",
	Args:  cobra.NoArgs,
	RunE:  runCourses,
}

func init() {
	coursesCmd.Flags().IntVar(&flagCoursesCluster, "cluster", -1, "Only list courses of this cluster")
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	src, err := loadCourses(cfg.Config)
	if err != nil {
		return err
	}

	results := make([]search.Result, 0, src.Dataset.Len())
	for _, it := range src.Dataset.Items {
		if cmd.Flags().Changed("cluster") && it.Cluster != dataset.Label(flagCoursesCluster) {
			continue
		}
		results = append(results, search.Result{Course: it})
	}
	search.SortResults(results)

	if len(results) == 0 {
		printSkip("", "no courses")
		return nil
	}
	printSection(fmt.Sprintf("Courses (%d)", len(results)))
	table([]string{"ID", "CLUSTER", "ORDER", "FACTOR1", "FACTOR2", "NAME"}, courseRows(results))
	return nil
}

func courseRows(results []search.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		it := r.Course
		rows = append(rows, []string{
			strconv.Itoa(it.ID),
			it.Cluster.String(),
			strconv.Itoa(it.RecommendedOrder),
			fmt.Sprintf("%.2f", it.Factor1),
			fmt.Sprintf("%.2f", it.Factor2),
			it.Name,
		})
	}
	return rows
}
