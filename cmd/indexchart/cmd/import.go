package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/indexchart/journal"
	"github.com/rustyeddy/indexchart/market"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a price CSV into the SQLite store",
	Long: `Parse a price CSV and replace the contents of the SQLite price store with it.
Bad rows are skipped and reported; the store is only touched when parsing
succeeds.

Example:
  indexchart import --csv data/stock.csv --db prices.sqlite`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var (
	importCSV string
	importDB  string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importCSV, "csv", "", "price CSV (Index,Date,CloseUSD) (required)")
	importCmd.Flags().StringVarP(&importDB, "db", "d", "./indexchart.sqlite", "path to SQLite price store")
	importCmd.MarkFlagRequired("csv")
}

func runImport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	ds, err := market.LoadCSV(importCSV, log)
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}

	db, err := journal.NewSQLite(importDB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	n, err := db.ImportDataset(cmd.Context(), ds)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("✓ Imported %d prices in %d series into %s (%s)\n",
		n, ds.SeriesCount(), importDB, time.Since(start).Round(time.Millisecond))
	return nil
}
