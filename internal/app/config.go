package app

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration from env
type Config struct {
	DataDir        string
	DataProvider   string // tushare | akshare
	TushareToken   string
	AkshareURL     string
	LogLevel       string // debug | info | warn | error
	APIPort        int
	DailyRunHour   int
	DailyRunMinute int
	Timezone       string
}

// LoadConfig reads config from .env (when present) and the environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        getEnv("DATA_DIR", "data"),
		DataProvider:   getEnv("DATA_PROVIDER", "tushare"),
		TushareToken:   os.Getenv("TUSHARE_TOKEN"),
		AkshareURL:     getEnv("AKSHARE_URL", "http://127.0.0.1:8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIPort:        8000,
		DailyRunHour:   19,
		DailyRunMinute: 0,
		Timezone:       getEnv("TZ", "Asia/Shanghai"),
	}
	if p := os.Getenv("API_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 && v < 65536 {
			cfg.APIPort = v
		}
	}
	if h := os.Getenv("DAILY_RUN_HOUR"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v >= 0 && v <= 23 {
			cfg.DailyRunHour = v
		}
	}
	if m := os.Getenv("DAILY_RUN_MINUTE"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v >= 0 && v <= 59 {
			cfg.DailyRunMinute = v
		}
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParquetRoot returns data/parquet, the partition tree root.
func (c *Config) ParquetRoot() string {
	return filepath.Join(c.DataDir, "parquet")
}

// WatermarkPath returns data/watermark.parquet.
func (c *Config) WatermarkPath() string {
	return filepath.Join(c.DataDir, "watermark.parquet")
}

// MetaDBPath returns data/meta.sqlite.
func (c *Config) MetaDBPath() string {
	return filepath.Join(c.DataDir, "meta.sqlite")
}
