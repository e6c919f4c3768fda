package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/indexchart/chart"
	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/journal"
	"github.com/rustyeddy/indexchart/market"
	"github.com/rustyeddy/indexchart/pkg/id"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a chart to an SVG or PNG file",
	Long: `Render the price data as a line chart.

A grouped preset plots every series. Otherwise one series is plotted: --symbol,
else the preset's own symbol, else the configured default symbol. --symbol
accepts a raw index symbol (NYA) or an exchange name (NYSE).

Examples:
  indexchart render --csv data/stock.csv --preset all -o all.svg
  indexchart render --csv data/stock.csv --preset nyse -o nyse.svg
  indexchart render --db prices.sqlite --symbol nasdaq --format png -o nasdaq.png
  indexchart render --csv data/stock.csv --symbol NYA --ma 200 -o nya.svg`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderCSV    string
	renderDB     string
	renderPreset string
	renderSymbol string
	renderFormat string
	renderOut    string
	renderTitle  string
	renderMA     int
	renderMAKind string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderCSV, "csv", "", "price CSV (Index,Date,CloseUSD)")
	renderCmd.Flags().StringVarP(&renderDB, "db", "d", "", "SQLite price store written by import")
	renderCmd.Flags().StringVarP(&renderPreset, "preset", "p", "", "chart preset (all, nyse, filter); default is the config's chart")
	renderCmd.Flags().StringVarP(&renderSymbol, "symbol", "s", "", "plot only this series")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "svg or png (default from the output extension, else svg)")
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "-", "output file, - for stdout")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "override the chart title")
	renderCmd.Flags().IntVar(&renderMA, "ma", 0, "overlay a moving average over this many points, 0 for none")
	renderCmd.Flags().StringVar(&renderMAKind, "ma-kind", "sma", "moving average kind: sma or ema")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rc := cfg.Chart
	if renderPreset != "" {
		if rc, err = config.Preset(renderPreset); err != nil {
			return err
		}
		rc.Labels = cfg.Chart.Labels
	}
	if renderTitle != "" {
		rc.Title = renderTitle
	}
	if renderMA > 0 {
		rc.MovingAverage = config.MovingAverage{Kind: renderMAKind, Period: renderMA}
	}

	format, err := outputFormat(renderFormat, renderOut)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context(), dataSource(cfg, renderCSV, renderDB))
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	key, err := renderKey(rc, renderSymbol, cfg.Server.DefaultSymbol)
	if err != nil {
		return err
	}
	if key != allKey {
		ds = ds.Filter(key)
		if rc.Title == "" {
			rc.Title = market.ExchangeName(key)
		}
	}

	start := time.Now()
	rec := journal.RenderRecord{ID: id.New(), Key: key, Format: format, Time: start.UTC()}

	var buf bytes.Buffer
	if format == "png" {
		if err := chart.RenderPNG(&buf, ds, rc); err != nil {
			return fmt.Errorf("render %s: %w", key, err)
		}
		ext, _ := ds.Extent()
		rec.Title = chart.Title(ds, rc)
		rec.Series, rec.Points = ds.SeriesCount(), ds.Len()
		rec.From, rec.To, rec.YMax = ext.From, ext.To, ext.Max
	} else {
		sum, err := chart.Draw(&buf, ds, rc)
		if err != nil {
			return fmt.Errorf("render %s: %w", key, err)
		}
		if sum.Empty {
			log.WithField("key", key).Warn("no data points, wrote empty chart")
		}
		rec.Title, rec.Series, rec.Points = sum.Title, sum.Series, sum.Points
		rec.From, rec.To, rec.YMax = sum.From, sum.To, sum.YMax
	}
	rec.Duration = time.Since(start)

	if err := writeOutput(renderOut, buf.Bytes()); err != nil {
		return err
	}

	j, err := journal.Open(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()
	if err := j.RecordRender(rec); err != nil {
		log.WithError(err).Error("journal render")
	}

	if renderOut != "-" {
		fmt.Printf("✓ Wrote %s (%d series, %d points, %s)\n", renderOut, rec.Series, rec.Points, rec.Duration.Round(time.Millisecond))
	}
	return nil
}

const allKey = "all"

// renderKey picks the series to plot. A grouped chart without --symbol
// plots everything.
func renderKey(rc config.RenderConfig, flag, def string) (string, error) {
	switch {
	case flag != "":
		return market.ResolveSymbol(flag), nil
	case rc.Grouped:
		return allKey, nil
	case rc.Symbol != "":
		return market.ResolveSymbol(rc.Symbol), nil
	case def != "":
		return market.ResolveSymbol(def), nil
	}
	return "", fmt.Errorf("no series selected: set --symbol or server.default_symbol")
}

// outputFormat picks svg or png from the flag, else the output extension.
func outputFormat(flag, out string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		f = "svg"
		if strings.HasSuffix(strings.ToLower(out), ".png") {
			f = "png"
		}
	}
	if f != "svg" && f != "png" {
		return "", fmt.Errorf("unknown format %q (want svg or png)", flag)
	}
	return f, nil
}

func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := io.Copy(os.Stdout, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
