package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

const tushareBaseURL = "http://api.tushare.pro"

// TushareProvider fetches daily bars, adjustment factors and daily basics
// from the TuShare Pro JSON-RPC style API. TuShare reports volume in lots
// and amount in thousands; rows are converted to whole shares and base
// currency units before leaving the adapter.
type TushareProvider struct {
	client *resty.Client
	token  string
}

// NewTushareProvider builds a provider with the given API token.
func NewTushareProvider(token string) (*TushareProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("tushare token is required")
	}
	client := resty.New().
		SetBaseURL(tushareBaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(8 * time.Second)
	return &TushareProvider{client: client, token: token}, nil
}

func (p *TushareProvider) GetName() string { return "tushare" }

func (p *TushareProvider) Close() error { return nil }

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string `json:"fields"`
		Items  [][]any  `json:"items"`
	} `json:"data"`
}

// call performs one TuShare API request and returns rows as field-name maps.
func (p *TushareProvider) call(ctx context.Context, apiName, tradeDate, fields string) ([]map[string]any, error) {
	compact, err := CompactDate(tradeDate)
	if err != nil {
		return nil, err
	}
	var out tushareResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(tushareRequest{
			APIName: apiName,
			Token:   p.token,
			Params:  map[string]string{"trade_date": compact},
			Fields:  fields,
		}).
		SetResult(&out).
		Post("/")
	if err != nil {
		return nil, fmt.Errorf("tushare %s: %w", apiName, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tushare %s: http %d", apiName, resp.StatusCode())
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("tushare %s: %s", apiName, out.Msg)
	}

	rows := make([]map[string]any, 0, len(out.Data.Items))
	for _, item := range out.Data.Items {
		row := make(map[string]any, len(out.Data.Fields))
		for i, f := range out.Data.Fields {
			if i < len(item) {
				row[f] = item[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *TushareProvider) FetchDaily(ctx context.Context, tradeDate string) ([]model.PriceBar, error) {
	rows, err := p.call(ctx, "daily", tradeDate,
		"ts_code,trade_date,open,high,low,close,pre_close,vol,amount")
	if err != nil {
		return nil, err
	}
	bars := make([]model.PriceBar, 0, len(rows))
	for _, r := range rows {
		date, err := ISODate(str(r["trade_date"]))
		if err != nil {
			return nil, err
		}
		bar := model.PriceBar{
			TsCode:    str(r["ts_code"]),
			TradeDate: date,
			OpenRaw:   num(r["open"]),
			HighRaw:   num(r["high"]),
			LowRaw:    num(r["low"]),
			CloseRaw:  num(r["close"]),
			Volume:    lotsToShares(r["vol"]),
			Amount:    thousandsToUnits(r["amount"]),
		}
		if v, ok := r["pre_close"].(float64); ok {
			bar.PreClose = &v
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (p *TushareProvider) FetchAdjFactor(ctx context.Context, tradeDate string) ([]model.AdjFactor, error) {
	rows, err := p.call(ctx, "adj_factor", tradeDate, "ts_code,trade_date,adj_factor")
	if err != nil {
		return nil, err
	}
	factors := make([]model.AdjFactor, 0, len(rows))
	for _, r := range rows {
		date, err := ISODate(str(r["trade_date"]))
		if err != nil {
			return nil, err
		}
		factors = append(factors, model.AdjFactor{
			TsCode:    str(r["ts_code"]),
			TradeDate: date,
			AdjFactor: num(r["adj_factor"]),
		})
	}
	return factors, nil
}

func (p *TushareProvider) FetchDailyBasic(ctx context.Context, tradeDate string) ([]model.DailyBasic, error) {
	rows, err := p.call(ctx, "daily_basic", tradeDate,
		"ts_code,trade_date,turnover_rate,pe,pe_ttm,pb,ps,total_mv,circ_mv")
	if err != nil {
		return nil, err
	}
	basics := make([]model.DailyBasic, 0, len(rows))
	for _, r := range rows {
		date, err := ISODate(str(r["trade_date"]))
		if err != nil {
			return nil, err
		}
		basics = append(basics, model.DailyBasic{
			TsCode:       str(r["ts_code"]),
			TradeDate:    date,
			TurnoverRate: optNum(r["turnover_rate"]),
			PE:           optNum(r["pe"]),
			PETTM:        optNum(r["pe_ttm"]),
			PB:           optNum(r["pb"]),
			PS:           optNum(r["ps"]),
			TotalMV:      optNum(r["total_mv"]),
			CircMV:       optNum(r["circ_mv"]),
		})
	}
	return basics, nil
}

// lotsToShares converts TuShare volume (lots of 100 shares) to whole shares.
func lotsToShares(v any) int64 {
	lots := decimal.NewFromFloat(num(v))
	return lots.Mul(decimal.NewFromInt(100)).IntPart()
}

// thousandsToUnits converts TuShare amount (thousands) to base currency units.
func thousandsToUnits(v any) float64 {
	d := decimal.NewFromFloat(num(v)).Mul(decimal.NewFromInt(1000))
	f, _ := d.Float64()
	return f
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}

func optNum(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}
