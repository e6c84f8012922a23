package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/matcher"
)

var centroidsCmd = &cobra.Command{
	Use:   "centroids",
	Short: "Show each cluster's centroid and size",
	Args:  cobra.NoArgs,
	RunE:  runCentroids,
}

func init() {
	rootCmd.AddCommand(centroidsCmd)
}

func runCentroids(_ *cobra.Command, _ []string) error {
	src, err := loadCourses(cfg.Config)
	if err != nil {
		return err
	}
	cat, err := loadLabels(cfg.Config)
	if err != nil {
		return err
	}

	rows := [][]string{}
	for _, c := range matcher.ComputeCentroids(src.Dataset) {
		rows = append(rows, []string{
			c.Label.String(),
			cat.Lookup(c.Label).Name,
			fmt.Sprintf("%.3f", c.X),
			fmt.Sprintf("%.3f", c.Y),
			strconv.Itoa(c.Size),
		})
	}
	printSection(fmt.Sprintf("Centroids (%s)", src.Path))
	table([]string{"CLUSTER", "NAME", "FACTOR1", "FACTOR2", "SIZE"}, rows)
	return nil
}
