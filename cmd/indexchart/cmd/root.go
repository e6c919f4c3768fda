package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/journal"
	"github.com/rustyeddy/indexchart/market"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "indexchart",
	Short: "Line charts of stock exchange index closing prices",
	Long: `Indexchart turns a CSV of daily index closing prices into line charts.

It provides tools for:
  - Rendering grouped or single-exchange charts to SVG or PNG
  - Serving an interactive page with an exchange selector
  - Importing prices into a SQLite store
  - Journaling every render for later review

Complete documentation is available at https://github.com/rustyeddy/indexchart`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		log.SetLevel(lvl)
		return nil
	},
}

var (
	log = logrus.New()

	logLevel   string
	configPath string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "path to config file (YAML or JSON)")
}

// loadConfig reads --config when given, else the defaults, then applies
// .env and INDEXCHART_* overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return cfg, nil
}

// dataSource applies the --csv / --db flags over the config. A CSV path
// wins over a database.
func dataSource(cfg *config.Config, csvPath, dbPath string) config.DataConfig {
	src := cfg.Data
	if csvPath != "" || dbPath != "" {
		src = config.DataConfig{CSV: csvPath, DBPath: dbPath}
	}
	return src
}

func loadDataset(ctx context.Context, src config.DataConfig) (*market.Dataset, error) {
	if src.CSV != "" {
		return market.LoadCSV(src.CSV, log)
	}
	if src.DBPath == "" {
		return nil, fmt.Errorf("no data source: set --csv or --db")
	}

	db, err := journal.NewSQLite(src.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	return db.LoadDataset(ctx)
}
