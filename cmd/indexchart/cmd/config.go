package cmd

import (
	"fmt"

	"github.com/rustyeddy/indexchart/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file
  presets  - List the built-in chart presets

Examples:
  indexchart config init -o server.yaml
  indexchart config validate -f server.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  indexchart config init -o server.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  indexchart config validate -f server.yaml`,
	RunE: runConfigValidate,
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in chart presets",
	Args:  cobra.NoArgs,
	RunE:  runConfigPresets,
}

var (
	configInitOutput string
	configInitPreset string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPresetsCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "indexchart.yaml", "output config file path")
	configInitCmd.Flags().StringVarP(&configInitPreset, "preset", "p", "", "chart preset to start from (all, nyse, filter)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configInitPreset != "" {
		rc, err := config.Preset(configInitPreset)
		if err != nil {
			return err
		}
		cfg.Chart = rc
	}
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  indexchart serve -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	data := cfg.Data.CSV
	if data == "" {
		data = cfg.Data.DBPath
	}
	fmt.Printf("✓ Configuration valid: %s\n", configPath)
	fmt.Printf("  Data: %s\n", data)
	fmt.Printf("  Chart: %dx%d (plot %dx%d)\n", cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.InnerWidth(), cfg.Chart.InnerHeight())
	fmt.Printf("  Server: %s (default %s)\n", cfg.Server.Addr, cfg.Server.DefaultSymbol)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}

func runConfigPresets(cmd *cobra.Command, args []string) error {
	for _, name := range config.PresetNames() {
		rc, err := config.Preset(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-8s %dx%d grouped=%t legend=%t tooltip=%t title=%q\n",
			name, rc.Width, rc.Height, rc.Grouped, rc.ShowLegend, rc.ShowTooltip, rc.Title)
	}
	return nil
}
