package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/search"
)

var flagSearchK int

var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Search course names and descriptions by keyword",
	Long: `Search course names and descriptions. Every keyword must match; matching
is case-insensitive and treats fullwidth and halfwidth forms alike.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchK, "k", 10, "Number of results to show (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	src, err := loadCourses(cfg.Config)
	if err != nil {
		return err
	}
	cat, err := loadLabels(cfg.Config)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	printSearchResults(query, search.Courses(src.Dataset, query, flagSearchK), cat)
	return nil
}

func printSearchResults(query string, results []search.Result, cat *labels.Catalog) {
	if len(results) == 0 {
		printSkip("", fmt.Sprintf("no courses match %q", query))
		return
	}
	printSection(fmt.Sprintf("Search: %s (%d)", query, len(results)))
	for i, r := range results {
		fmt.Printf("  %d. %s  [%s]\n", i+1, r.Course.Name, cat.Lookup(r.Course.Cluster).Name)
		fmt.Printf("     - %s  (matched: %s)\n", strings.TrimSpace(r.Course.Description), r.Why)
	}
}
