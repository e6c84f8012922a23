package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/kamusis/coursepath/cmd.version=..." at
// release time. Unset values fall back to the embedded VCS stamp.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show coursepath version and build information",
	// version works without a readable config.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	rev, date := commit, buildDate
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && rev == "":
				rev = s.Value
			case s.Key == "vcs.time" && date == "":
				date = s.Value
			}
		}
	}
	table(nil, [][]string{
		{"Version:", version},
		{"Commit:", orNA(rev)},
		{"Build Date:", orNA(date)},
		{"Go Version:", runtime.Version()},
		{"OS/Arch:", runtime.GOOS + "/" + runtime.GOARCH},
	})
	fmt.Println()
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
