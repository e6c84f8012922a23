package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/dataset"
)

var (
	flagImportIn string
	flagImportDB string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a CSV course table into a SQLite database",
	Long: `Replace the courses stored in --db with the rows of --in. Point
dataset.path (or --data) at the database afterwards to serve from it.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportIn, "in", "", "Input course table (CSV)")
	importCmd.Flags().StringVar(&flagImportDB, "db", "", "SQLite database (.db, .sqlite, .sqlite3)")
	_ = importCmd.MarkFlagRequired("in")
	_ = importCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, _ []string) error {
	if !dataset.IsSQLitePath(flagImportDB) {
		return fmt.Errorf("%s is not a SQLite path (expected .db, .sqlite or .sqlite3)", flagImportDB)
	}
	ds, err := readCSV(flagImportIn)
	if err != nil {
		return err
	}
	if ds.Empty() {
		return errLoadFailed
	}

	unlock, err := dataset.AcquireLock(flagImportDB, 5*time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	store, err := dataset.OpenStore(flagImportDB)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.ReplaceAll(ds); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("%d courses imported into %s", ds.Len(), flagImportDB))
	return nil
}
