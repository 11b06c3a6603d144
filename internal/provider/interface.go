package provider

import (
	"context"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// DataProvider abstracts a market data vendor. Implementations fetch one
// trade date per call and return rows already normalized to the storage
// convention: volume in whole shares, amount in base currency units,
// exchange-qualified ts_code symbols, ISO trade dates.
//
// Providers own their transient-error handling (retry, backoff); callers
// only ever see a terminal row set or a terminal error per table per run.
type DataProvider interface {
	// GetName returns the provider name for logs and fail-queue records.
	GetName() string

	// FetchDaily returns raw OHLCV rows for every entity on tradeDate.
	FetchDaily(ctx context.Context, tradeDate string) ([]model.PriceBar, error)

	// FetchAdjFactor returns adjustment factor rows for tradeDate.
	FetchAdjFactor(ctx context.Context, tradeDate string) ([]model.AdjFactor, error)

	// FetchDailyBasic returns turnover/valuation rows for tradeDate.
	FetchDailyBasic(ctx context.Context, tradeDate string) ([]model.DailyBasic, error)

	// Close releases provider resources.
	Close() error
}
