package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
)

const (
	labelsFileName  = "labels.yaml"
	coursesFileName = "course_learning_path.csv"
)

var flagInitForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.coursepath with a config, cluster labels and a sample course table",
	Long: `Bootstrap ~/.coursepath/:

  coursepath.yaml           configuration, pointing at the files below
  labels.yaml               cluster names and descriptions
  course_learning_path.csv  the built-in sample course table
  .env                      commented COURSEPATH_* overrides

Existing files are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	// init must work before any config exists.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.coursepath ─────────────────────────────────────────────
	appDir, err := config.AppDir()
	if err != nil {
		return err
	}
	cfgPath := flagConfig
	if cfgPath == "" {
		if cfgPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", appDir, err)
	}
	printOK("", fmt.Sprintf("coursepath directory ready: %s", appDir))

	unlock, err := dataset.AcquireLock(cfgPath, 5*time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	labelsPath := filepath.Join(appDir, labelsFileName)
	coursesPath := filepath.Join(appDir, coursesFileName)

	// ── 2. Labels ───────────────────────────────────────────────────────────
	if err := writeIfMissing(labelsPath, func() error {
		data, err := labels.Default().Marshal()
		if err != nil {
			return err
		}
		return os.WriteFile(labelsPath, data, 0o644)
	}); err != nil {
		return err
	}

	// ── 3. Sample course table ──────────────────────────────────────────────
	if err := writeIfMissing(coursesPath, func() error {
		return dataset.WriteFile(coursesPath, dataset.Fallback())
	}); err != nil {
		return err
	}

	// ── 4. Config ───────────────────────────────────────────────────────────
	if err := writeIfMissing(cfgPath, func() error {
		c := config.DefaultConfig()
		c.Dataset.Path = coursesPath
		c.Labels.Path = labelsPath
		return config.Save(c, cfgPath)
	}); err != nil {
		return err
	}

	// ── 5. Dotenv template ──────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	if p, err := config.DotEnvPath(); err == nil {
		printOK("", fmt.Sprintf("dotenv template ready: %s", p))
	}

	fmt.Println()
	fmt.Println("  Next: coursepath recommend --q1 0 --q2 0")
	return nil
}

// writeIfMissing runs write when path does not exist or --force is set.
func writeIfMissing(path string, write func() error) error {
	if _, err := os.Stat(path); err == nil && !flagInitForce {
		printSkip("", fmt.Sprintf("already exists: %s", path))
		return nil
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot stat %s: %w", path, err)
	}
	if err := write(); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	printOK("", fmt.Sprintf("written: %s", path))
	return nil
}
