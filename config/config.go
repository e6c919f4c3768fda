package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/indexchart/market"
	"gopkg.in/yaml.v3"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Config represents the complete tool configuration
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Chart   RenderConfig  `json:"chart" yaml:"chart"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// DataConfig says where prices come from. CSV wins when both are set.
type DataConfig struct {
	CSV    string `json:"csv,omitempty" yaml:"csv,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Margin is the space between the SVG edge and the plot area, in pixels.
type Margin struct {
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
}

// RenderConfig controls a single chart render. Width and Height are the
// outer SVG size; the plot area is what is left after Margin.
type RenderConfig struct {
	Width           int               `json:"width" yaml:"width"`
	Height          int               `json:"height" yaml:"height"`
	Margin          Margin            `json:"margin" yaml:"margin"`
	Title           string            `json:"title" yaml:"title"`
	Symbol          string            `json:"symbol,omitempty" yaml:"symbol,omitempty"` // series plotted when not grouped
	Grouped         bool              `json:"grouped" yaml:"grouped"`
	ShowLegend      bool              `json:"show_legend" yaml:"show_legend"`
	ShowTooltip     bool              `json:"show_tooltip" yaml:"show_tooltip"`
	ShowAnnotations bool              `json:"show_annotations" yaml:"show_annotations"`
	LineColor       string            `json:"line_color,omitempty" yaml:"line_color,omitempty"`
	XLabel          string            `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel          string            `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	TickSpacing     int               `json:"tick_spacing,omitempty" yaml:"tick_spacing,omitempty"` // px per y tick
	Labels          map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	MovingAverage   MovingAverage     `json:"moving_average,omitempty" yaml:"moving_average,omitempty"`
}

// MovingAverage adds a dashed moving-average line per series. A zero
// Period disables it.
type MovingAverage struct {
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty"` // "sma" (default) or "ema"
	Period int    `json:"period,omitempty" yaml:"period,omitempty"`
}

// ServerConfig contains HTTP service parameters
type ServerConfig struct {
	Addr            string `json:"addr" yaml:"addr"`
	DefaultSymbol   string `json:"default_symbol" yaml:"default_symbol"`
	RedisAddr       string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword   string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB         int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
	ReloadCron      string `json:"reload_cron,omitempty" yaml:"reload_cron,omitempty"` // e.g. "0 */15 * * * *"
}

// JournalConfig contains render journaling parameters
type JournalConfig struct {
	Type   string `json:"type,omitempty" yaml:"type,omitempty"` // "", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// InnerWidth is the plot area width.
func (r RenderConfig) InnerWidth() int { return r.Width - r.Margin.Left - r.Margin.Right }

// InnerHeight is the plot area height.
func (r RenderConfig) InnerHeight() int { return r.Height - r.Margin.Top - r.Margin.Bottom }

// Label returns the legend text for a series key. Labels overrides the
// built-in exchange table.
func (r RenderConfig) Label(key string) string {
	if l, ok := r.Labels[key]; ok && l != "" {
		return l
	}
	return market.DisplayName(key)
}

// YTicks is the number of ticks requested for the value axis.
func (r RenderConfig) YTicks() int {
	spacing := r.TickSpacing
	if spacing <= 0 {
		spacing = 40
	}
	n := r.InnerHeight() / spacing
	if n < 2 {
		n = 2
	}
	return n
}

// Validate checks if the render settings are usable
func (r RenderConfig) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("chart width and height must be positive")
	}
	if r.Margin.Top < 0 || r.Margin.Right < 0 || r.Margin.Bottom < 0 || r.Margin.Left < 0 {
		return fmt.Errorf("chart margins must not be negative")
	}
	if r.InnerWidth() <= 0 || r.InnerHeight() <= 0 {
		return fmt.Errorf("chart margins leave no plot area (%dx%d)", r.InnerWidth(), r.InnerHeight())
	}
	if r.TickSpacing < 0 {
		return fmt.Errorf("chart tick_spacing must not be negative")
	}
	if r.ShowLegend && !r.Grouped {
		return fmt.Errorf("chart show_legend requires grouped")
	}
	if r.MovingAverage.Period < 0 {
		return fmt.Errorf("chart moving_average.period must not be negative")
	}
	switch strings.ToLower(r.MovingAverage.Kind) {
	case "", "sma", "ema":
	default:
		return fmt.Errorf("chart moving_average.kind must be 'sma' or 'ema'")
	}
	return nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.CSV == "" && c.Data.DBPath == "" {
		return fmt.Errorf("data.csv or data.db_path is required")
	}
	if err := c.Chart.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.CacheTTLSeconds < 0 {
		return fmt.Errorf("server.cache_ttl_seconds must not be negative")
	}
	switch c.Journal.Type {
	case "":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be '', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	chart, _ := Preset("filter")
	return &Config{
		Data: DataConfig{
			CSV: "./data/stock.csv",
		},
		Chart: chart,
		Server: ServerConfig{
			Addr:            ":8080",
			DefaultSymbol:   "IXIC",
			CacheTTLSeconds: 300,
		},
	}
}
