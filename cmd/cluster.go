package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/clustering"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/logging"
)

var (
	flagClusterK    int
	flagClusterIter int
	flagClusterIn   string
	flagClusterOut  string
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Assign cluster labels to a course table with k-means",
	Long: `Run k-means over the factor scores of --in and write the relabelled table
to --out. Existing cluster labels are ignored. Recommended order within
each new cluster follows the distance to the cluster mean.`,
	Args: cobra.NoArgs,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().IntVar(&flagClusterK, "k", 5, "Number of clusters")
	clusterCmd.Flags().IntVar(&flagClusterIter, "iterations", clustering.DefaultIterations, "Maximum k-means iterations")
	clusterCmd.Flags().StringVar(&flagClusterIn, "in", "", "Input course table (CSV)")
	clusterCmd.Flags().StringVar(&flagClusterOut, "out", "", "Output course table (CSV)")
	_ = clusterCmd.MarkFlagRequired("in")
	_ = clusterCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(_ *cobra.Command, _ []string) error {
	ds, err := readCSV(flagClusterIn)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := clustering.Assign(ds, flagClusterK, flagClusterIter)
	if err != nil {
		return fmt.Errorf("cannot cluster %s: %w", flagClusterIn, err)
	}
	logging.Debug().Int("k", flagClusterK).Dur("elapsed", time.Since(start)).Msg("k-means finished")

	unlock, err := dataset.AcquireLock(flagClusterOut, 5*time.Second)
	if err != nil {
		return err
	}
	defer unlock()
	if err := dataset.WriteFile(flagClusterOut, out); err != nil {
		return err
	}

	for _, l := range out.Labels() {
		printInfo(l.String(), fmt.Sprintf("%d course(s)", len(out.InCluster(l))))
	}
	printOK("", fmt.Sprintf("%d courses written to %s", out.Len(), flagClusterOut))
	return nil
}

// readCSV reads a course table strictly: unlike loadCourses there is no
// fallback.
func readCSV(path string) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	ds, err := dataset.Read(f)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ds, nil
}
