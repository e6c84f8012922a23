package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/config"
	"github.com/kamusis/coursepath/internal/dataset"
	"github.com/kamusis/coursepath/internal/labels"
	"github.com/kamusis/coursepath/internal/logging"
)

// errLoadFailed is printed when the course table yields no rows.
var errLoadFailed = errors.New("データの読み込みに失敗しました。")

var (
	flagConfig    string
	flagData      string
	flagLogLevel  string
	flagLogFormat string

	// cfg is resolved once per invocation by PersistentPreRunE.
	cfg *config.Loaded
)

var rootCmd = &cobra.Command{
	Use:          "coursepath",
	Short:        "Nearest-centroid course recommender",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `coursepath places you on two interest axes and recommends the courses of
the nearest cluster. Configuration lives in ~/.coursepath/coursepath.yaml.`,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.coursepath/coursepath.yaml)")
	pf.StringVar(&flagData, "data", "", "Course table (CSV or SQLite); overrides dataset.path")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	if flagData != "" {
		p, err := config.ExpandPath(flagData)
		if err != nil {
			return err
		}
		loaded.Config.Dataset.Path = p
	}

	lc := loaded.Config.Logging
	if flagLogLevel != "" {
		if !logging.ValidLevel(flagLogLevel) {
			return fmt.Errorf("unknown log level %q", flagLogLevel)
		}
		lc.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		if flagLogFormat != "json" && flagLogFormat != "console" {
			return fmt.Errorf("unknown log format %q (expected json or console)", flagLogFormat)
		}
		lc.Format = flagLogFormat
	}
	logging.Init(logging.Config{Level: lc.Level, Format: lc.Format, Caller: lc.Caller})
	if loaded.File != "" {
		logging.Debug().Str("path", loaded.File).Msg("config loaded")
	}

	cfg = loaded
	return nil
}

// loadCourses loads the configured course table. An empty table is fatal.
func loadCourses(c *config.Config) (dataset.LoadResult, error) {
	res := dataset.Loader{WriteFallback: c.Dataset.WriteFallback}.Load(c.Dataset.Path)
	if res.Dataset.Empty() {
		logging.Error().Str("path", res.Path).Msg("course table has no rows")
		return res, errLoadFailed
	}
	return res, nil
}

// loadLabels reads labels.path, or returns the built-in catalog.
func loadLabels(c *config.Config) (*labels.Catalog, error) {
	cat, err := labels.Load(c.Labels.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot load cluster labels: %w", err)
	}
	return cat, nil
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
