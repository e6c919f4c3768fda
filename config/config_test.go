package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "IXIC", cfg.Server.DefaultSymbol)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func(mut func(c *Config)) *Config {
		c := Default()
		mut(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "no data source",
			config:  valid(func(c *Config) { c.Data = DataConfig{} }),
			wantErr: true,
			errMsg:  "data.csv or data.db_path is required",
		},
		{
			name:    "db only",
			config:  valid(func(c *Config) { c.Data = DataConfig{DBPath: "prices.sqlite"} }),
			wantErr: false,
		},
		{
			name:    "zero width",
			config:  valid(func(c *Config) { c.Chart.Width = 0 }),
			wantErr: true,
			errMsg:  "width and height must be positive",
		},
		{
			name:    "margins eat the plot",
			config:  valid(func(c *Config) { c.Chart.Margin.Left = 800 }),
			wantErr: true,
			errMsg:  "leave no plot area",
		},
		{
			name:    "legend without grouping",
			config:  valid(func(c *Config) { c.Chart.ShowLegend = true }),
			wantErr: true,
			errMsg:  "show_legend requires grouped",
		},
		{
			name:    "ema overlay",
			config:  valid(func(c *Config) { c.Chart.MovingAverage = MovingAverage{Kind: "EMA", Period: 50} }),
			wantErr: false,
		},
		{
			name:    "unknown overlay",
			config:  valid(func(c *Config) { c.Chart.MovingAverage = MovingAverage{Kind: "wma", Period: 50} }),
			wantErr: true,
			errMsg:  "moving_average.kind",
		},
		{
			name:    "negative overlay period",
			config:  valid(func(c *Config) { c.Chart.MovingAverage.Period = -1 }),
			wantErr: true,
			errMsg:  "moving_average.period",
		},
		{
			name:    "missing addr",
			config:  valid(func(c *Config) { c.Server.Addr = "" }),
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "csv journal without file",
			config:  valid(func(c *Config) { c.Journal.Type = "csv" }),
			wantErr: true,
			errMsg:  "journal file required",
		},
		{
			name:    "sqlite journal without db",
			config:  valid(func(c *Config) { c.Journal.Type = "sqlite" }),
			wantErr: true,
			errMsg:  "journal db_path required",
		},
		{
			name:    "unknown journal",
			config:  valid(func(c *Config) { c.Journal.Type = "postgres" }),
			wantErr: true,
			errMsg:  "journal.type must be",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"all", "filter", "nyse"}, PresetNames())

	for _, name := range PresetNames() {
		p, err := Preset(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, "Date", p.XLabel)
		assert.Equal(t, 40, p.TickSpacing)
	}

	all, _ := Preset("all")
	assert.True(t, all.Grouped)
	assert.True(t, all.ShowLegend)
	assert.False(t, all.ShowTooltip)
	assert.Equal(t, 650, all.InnerWidth())
	assert.Equal(t, 300, all.InnerHeight())
	assert.Equal(t, 7, all.YTicks())

	nyse, _ := Preset("nyse")
	assert.True(t, nyse.ShowTooltip)
	assert.Equal(t, "NYSE Exchange", nyse.Title)
	assert.Equal(t, "NYA", nyse.Symbol)
	assert.Empty(t, all.Symbol)

	_, err := Preset("pie")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPresetIsCopy(t *testing.T) {
	p, _ := Preset("all")
	p.Title = "changed"
	again, _ := Preset("all")
	assert.Equal(t, "All Stock Exchanges", again.Title)
}

func TestLabel(t *testing.T) {
	p, _ := Preset("all")
	assert.Equal(t, "NASDAQ", p.Label("IXIC"))
	assert.Equal(t, "XYZ", p.Label("XYZ"))

	p.Labels = map[string]string{"IXIC": "Nasdaq Composite"}
	assert.Equal(t, "Nasdaq Composite", p.Label("IXIC"))
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Chart.Labels = map[string]string{"NYA": "NY Composite"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Data, loaded.Data)
			assert.Equal(t, cfg.Chart, loaded.Chart)
			assert.Equal(t, cfg.Server, loaded.Server)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart:\n  width: -1\n"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("INDEXCHART_RELOAD_CRON=0 */5 * * * *\n"), 0o644))

	t.Setenv(EnvAddr, ":9090")
	t.Setenv(EnvCacheTTL, "60")
	// registered for cleanup, then cleared so the dotenv file can set it
	t.Setenv(EnvReload, "")
	require.NoError(t, os.Unsetenv(EnvReload))

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 60, cfg.Server.CacheTTLSeconds)
	assert.Equal(t, "./data/stock.csv", cfg.Data.CSV)
	assert.Equal(t, "0 */5 * * * *", cfg.Server.ReloadCron)

	t.Setenv(EnvRedisDB, "one")
	assert.Error(t, Default().LoadEnv(filepath.Join(dir, "missing.env")))
}
