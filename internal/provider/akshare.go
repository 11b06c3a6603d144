package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// AkshareProvider fetches daily bars through an AKTools HTTP gateway.
// AkShare has no whole-market per-date endpoint, so it fetches one symbol at
// a time over the configured code list (typically the watchlist) with the
// date range pinned to a single day. AkShare reports volume and amount in
// base units already, so no conversion applies. It serves neither
// adjustment factors nor daily basics.
type AkshareProvider struct {
	client  *resty.Client
	tsCodes []string
	log     *slog.Logger
}

// NewAkshareProvider builds a provider against baseURL (the AKTools server)
// limited to tsCodes.
func NewAkshareProvider(baseURL string, tsCodes []string, log *slog.Logger) (*AkshareProvider, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("akshare base url is required")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(8 * time.Second)
	return &AkshareProvider{client: client, tsCodes: tsCodes, log: log}, nil
}

func (p *AkshareProvider) GetName() string { return "akshare" }

func (p *AkshareProvider) Close() error { return nil }

type akshareDailyRow struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Amount float64 `json:"amount"`
}

func (p *AkshareProvider) FetchDaily(ctx context.Context, tradeDate string) ([]model.PriceBar, error) {
	compact, err := CompactDate(tradeDate)
	if err != nil {
		return nil, err
	}

	var bars []model.PriceBar
	for _, code := range p.tsCodes {
		symbol, err := TsCodeToAkSymbol(code)
		if err != nil {
			return nil, err
		}
		var rows []akshareDailyRow
		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol":     symbol,
				"start_date": compact,
				"end_date":   compact,
				"adjust":     "",
			}).
			SetResult(&rows).
			Get("/api/public/stock_zh_a_daily")
		if err != nil {
			return nil, fmt.Errorf("akshare daily %s: %w", code, err)
		}
		if resp.IsError() {
			// one symbol failing should not sink the whole batch
			p.log.Warn("akshare symbol skipped", "ts_code", code, "status", resp.StatusCode())
			continue
		}
		for _, r := range rows {
			date := r.Date
			if len(date) > len(model.DateLayout) {
				date = date[:len(model.DateLayout)]
			}
			bars = append(bars, model.PriceBar{
				TsCode:    code,
				TradeDate: date,
				OpenRaw:   r.Open,
				HighRaw:   r.High,
				LowRaw:    r.Low,
				CloseRaw:  r.Close,
				Volume:    int64(r.Volume),
				Amount:    r.Amount,
			})
		}
	}
	return bars, nil
}

// FetchAdjFactor is unsupported: AkShare exposes adjusted series, not the
// cumulative factor table this lake stores.
func (p *AkshareProvider) FetchAdjFactor(ctx context.Context, tradeDate string) ([]model.AdjFactor, error) {
	return nil, fmt.Errorf("akshare provider does not serve adj_factor")
}

// FetchDailyBasic is unsupported by AkShare's daily endpoint.
func (p *AkshareProvider) FetchDailyBasic(ctx context.Context, tradeDate string) ([]model.DailyBasic, error) {
	return nil, fmt.Errorf("akshare provider does not serve daily_basic")
}
