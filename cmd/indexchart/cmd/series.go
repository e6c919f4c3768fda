package cmd

import (
	"fmt"

	"github.com/rustyeddy/indexchart/market"
	"github.com/spf13/cobra"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "List the series in the price data",
	Long: `Print one line per series: symbol, exchange, point count, date range and
closing price range.

Example:
  indexchart series --csv data/stock.csv`,
	Args: cobra.NoArgs,
	RunE: runSeries,
}

var (
	seriesCSV string
	seriesDB  string
)

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringVar(&seriesCSV, "csv", "", "price CSV (Index,Date,CloseUSD)")
	seriesCmd.Flags().StringVarP(&seriesDB, "db", "d", "", "SQLite price store written by import")
}

func runSeries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := loadDataset(cmd.Context(), dataSource(cfg, seriesCSV, seriesDB))
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	fmt.Printf("%-10s %-12s %7s  %-10s  %-10s  %s\n", "SYMBOL", "EXCHANGE", "POINTS", "FROM", "TO", "CLOSE")
	for _, s := range ds.All() {
		ext, ok := market.ExtentOf(s.Points)
		if !ok {
			continue
		}
		fmt.Printf("%-10s %-12s %7d  %-10s  %-10s  %s - %s\n",
			s.Key, market.ExchangeName(s.Key), s.Len(),
			ext.From.Format(market.DateLayout), ext.To.Format(market.DateLayout),
			market.FormatPrice(ext.Min), market.FormatPrice(ext.Max))
	}
	fmt.Printf("\n%d series, %d points\n", ds.SeriesCount(), ds.Len())
	return nil
}
