package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/isMxy0934/PandaAlpha/internal/ingest"
	"github.com/isMxy0934/PandaAlpha/internal/lake"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/provider"
	"github.com/isMxy0934/PandaAlpha/internal/slogx"
)

// ProvideLogger creates the process logger from config (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	return slogx.NewDefault(cfg.LogLevel)
}

// ProvidePipeline builds the ingest pipeline (for Wire).
func ProvidePipeline(cfg *Config, wm *lake.WatermarkLedger, metaStore *meta.Store, dp provider.DataProvider, log *slog.Logger) *ingest.Pipeline {
	return ingest.NewPipeline(cfg.ParquetRoot(), wm, metaStore, dp, log)
}

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() *Config {
	return LoadConfig()
}

// ProvideReader creates the partition Reader (for Wire).
func ProvideReader(cfg *Config) *lake.Reader {
	return lake.NewReader(cfg.ParquetRoot())
}

// ProvideWatermarkLedger creates the watermark ledger (for Wire).
func ProvideWatermarkLedger(cfg *Config) *lake.WatermarkLedger {
	return lake.NewWatermarkLedger(cfg.WatermarkPath())
}

// ProvideMetaStore opens the SQLite meta store (for Wire).
// Caller must Close it when shutting down.
func ProvideMetaStore(cfg *Config) (*meta.Store, error) {
	return meta.Open(cfg.MetaDBPath())
}

// ProvideDataProvider creates the configured vendor adapter (for Wire).
// The akshare adapter is scoped to the current watchlist, which is how the
// system limits its per-symbol fetching.
func ProvideDataProvider(cfg *Config, metaStore *meta.Store) (provider.DataProvider, error) {
	switch strings.ToLower(cfg.DataProvider) {
	case "tushare":
		return provider.NewTushareProvider(cfg.TushareToken)
	case "akshare":
		codes, err := metaStore.Watchlist(context.Background())
		if err != nil {
			return nil, err
		}
		if len(codes) == 0 {
			return nil, fmt.Errorf("akshare provider needs a non-empty watchlist")
		}
		return provider.NewAkshareProvider(cfg.AkshareURL, codes, slogx.NewDefault(cfg.LogLevel))
	default:
		return nil, fmt.Errorf("unsupported data provider: %s. Options: tushare, akshare", cfg.DataProvider)
	}
}
