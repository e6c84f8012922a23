package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/matcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and course table",
	Long: `Check that coursepath's configuration, course table and cluster labels are
usable. Run this command when recommendations look wrong.`,
	Args: cobra.NoArgs,
	// doctor reports config problems itself instead of failing early.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("coursepath doctor")
	fmt.Println()

	// ── Check 1: config ──────────────────────────────────────────────────────
	fmt.Println("[ config ]")
	loadErr := loadConfig(nil, nil)
	if loadErr != nil {
		failD("%v", loadErr)
	} else if cfg.File == "" {
		printSkip("", "no config file found, using defaults (run 'coursepath init')")
	} else {
		printOK("", fmt.Sprintf("valid: %s", cfg.File))
	}
	fmt.Println()

	if loadErr != nil {
		fmt.Println("===================")
		fmt.Fprintln(os.Stderr, "✗  Config could not be loaded; remaining checks skipped.")
		return errors.New("doctor found issues")
	}
	c := cfg.Config

	// ── Check 2: course table ────────────────────────────────────────────────
	fmt.Println("[ Course table ]")
	src := dataset.Loader{}.Load(c.Dataset.Path)
	switch {
	case src.Fallback:
		printWarn("", fmt.Sprintf("%v", src.Reason))
		printWarn("", fmt.Sprintf("the built-in table (%d courses) will be used", src.Dataset.Len()))
	case src.Dataset.Empty():
		failD("%s has a header but no rows", c.Dataset.Path)
	default:
		printOK("", fmt.Sprintf("%d courses in %s", src.Dataset.Len(), c.Dataset.Path))
	}
	fmt.Println()

	// ── Check 3: cluster labels ──────────────────────────────────────────────
	fmt.Println("[ Cluster labels ]")
	cat, err := labels.Load(c.Labels.Path)
	if err != nil {
		failD("cannot load %s: %v", c.Labels.Path, err)
		cat = labels.Default()
	} else if c.Labels.Path != "" {
		printOK("", fmt.Sprintf("loaded %s", c.Labels.Path))
	} else {
		printSkip("", "labels.path not set, using built-in names")
	}
	for _, l := range src.Dataset.Labels() {
		if !cat.Has(l) {
			printWarn(l.String(), fmt.Sprintf("no name defined, shown as %q", cat.Lookup(l).Name))
		}
	}
	fmt.Println()

	// ── Check 4: clusters ────────────────────────────────────────────────────
	fmt.Println("[ Clusters ]")
	if !src.Dataset.Empty() {
		for _, cen := range matcher.ComputeCentroids(src.Dataset) {
			printOK(cen.Label.String(), fmt.Sprintf("%d course(s), centroid (%.2f, %.2f)", cen.Size, cen.X, cen.Y))
			if !axisCovers(c.Query, cen) {
				printWarn(cen.Label.String(), "centroid lies outside the slider range")
			}
		}
		for _, l := range cat.Labels() {
			if len(src.Dataset.InCluster(l)) == 0 {
				printWarn(l.String(), fmt.Sprintf("%s has no courses and can never be recommended", cat.Lookup(l).Name))
			}
		}
	} else {
		printSkip("", "skipped (no courses)")
	}
	fmt.Println()

	// ── Summary ──────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. coursepath is ready to use.")
		return nil
	}
	fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
	return errors.New("doctor found issues")
}

func axisCovers(q config.QueryConfig, c matcher.Centroid) bool {
	return q.Q1.Contains(c.X) && q.Q2.Contains(c.Y)
}
