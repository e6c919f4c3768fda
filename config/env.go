package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvAddr     = "INDEXCHART_ADDR"
	EnvCSV      = "INDEXCHART_CSV"
	EnvDB       = "INDEXCHART_DB"
	EnvRedis    = "INDEXCHART_REDIS_ADDR"
	EnvRedisPW  = "INDEXCHART_REDIS_PASSWORD"
	EnvRedisDB  = "INDEXCHART_REDIS_DB"
	EnvCacheTTL = "INDEXCHART_CACHE_TTL_SECONDS"
	EnvReload   = "INDEXCHART_RELOAD_CRON"
	EnvSymbol   = "INDEXCHART_DEFAULT_SYMBOL"
)

// LoadEnv reads the optional dotenv files (".env" when none are given) and
// applies INDEXCHART_* overrides to c. A missing dotenv file is not an error.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	c.Server.Addr = getString(EnvAddr, c.Server.Addr)
	c.Data.CSV = getString(EnvCSV, c.Data.CSV)
	c.Data.DBPath = getString(EnvDB, c.Data.DBPath)
	c.Server.RedisAddr = getString(EnvRedis, c.Server.RedisAddr)
	c.Server.RedisPassword = getString(EnvRedisPW, c.Server.RedisPassword)
	c.Server.ReloadCron = getString(EnvReload, c.Server.ReloadCron)
	c.Server.DefaultSymbol = getString(EnvSymbol, c.Server.DefaultSymbol)

	var err error
	if c.Server.RedisDB, err = getInt(EnvRedisDB, c.Server.RedisDB); err != nil {
		return err
	}
	if c.Server.CacheTTLSeconds, err = getInt(EnvCacheTTL, c.Server.CacheTTLSeconds); err != nil {
		return err
	}
	return nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
