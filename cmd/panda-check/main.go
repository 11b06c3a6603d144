// panda-check recomputes moving average and annualized volatility straight
// from the lake and diffs them against the running API's numbers, reporting
// the max absolute difference per code. A drift here means the API layer is
// not serving what the engines compute.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/isMxy0934/PandaAlpha/internal/app"
	"github.com/isMxy0934/PandaAlpha/internal/lake"
	"github.com/isMxy0934/PandaAlpha/internal/quant"
	"github.com/isMxy0934/PandaAlpha/internal/slogx"
)

// Diff fields are pointers: a NaN (no overlapping dates) marshals as null.
type summaryEntry struct {
	TsCode        string   `json:"ts_code"`
	MaxAbsDiffMA  *float64 `json:"max_abs_diff_ma"`
	MaxAbsDiffVol *float64 `json:"max_abs_diff_vol_ann"`
}

func orNull(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

func main() {
	apiBase := flag.String("api", "http://127.0.0.1:8000", "API base URL")
	codesArg := flag.String("ts_codes", "600519.SH,600000.SH,000001.SZ", "comma-separated codes")
	start := flag.String("start", "", "start date YYYY-MM-DD (default: 60 days ago)")
	end := flag.String("end", "", "end date YYYY-MM-DD (default: today)")
	window := flag.Int("window", 20, "metric window")
	flag.Parse()

	slog.SetDefault(slogx.NewDefault("info"))

	if *end == "" {
		*end = time.Now().Format("2006-01-02")
	}
	if *start == "" {
		*start = time.Now().AddDate(0, 0, -60).Format("2006-01-02")
	}

	cfg := app.LoadConfig()
	reader := lake.NewReader(cfg.ParquetRoot())
	client := resty.New().SetBaseURL(*apiBase).SetTimeout(10 * time.Second)

	var summary []summaryEntry
	for _, code := range strings.Split(*codesArg, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		local, err := computeLocal(reader, code, *start, *end, *window)
		if err != nil {
			slog.Error("local compute failed", "ts_code", code, "error", err)
			os.Exit(1)
		}
		remote, err := fetchAPIMetrics(client, code, *start, *end, *window)
		if err != nil {
			slog.Error("api fetch failed", "ts_code", code, "error", err)
			os.Exit(1)
		}
		summary = append(summary, summaryEntry{
			TsCode:        code,
			MaxAbsDiffMA:  orNull(maxAbsDiff(local.ma, remote.ma)),
			MaxAbsDiffVol: orNull(maxAbsDiff(local.vol, remote.vol)),
		})
	}

	out, _ := json.MarshalIndent(map[string]any{
		"window":  *window,
		"start":   *start,
		"end":     *end,
		"summary": summary,
	}, "", "  ")
	fmt.Println(string(out))
}

type series struct {
	ma  map[string]float64
	vol map[string]float64
}

func computeLocal(reader *lake.Reader, tsCode, start, end string, window int) (series, error) {
	rows, err := reader.ReadPrices([]string{tsCode}, start, end)
	if err != nil {
		return series{}, err
	}
	adjusted := quant.Adjust(rows, quant.ModeBackward)
	sort.Slice(adjusted, func(i, j int) bool { return adjusted[i].TradeDate < adjusted[j].TradeDate })

	closes := make([]float64, len(adjusted))
	for i, a := range adjusted {
		closes[i] = a.Close
	}
	ma := quant.MovingAverage(closes, window)
	vol := quant.AnnualizedVolatility(closes, window)

	out := series{ma: map[string]float64{}, vol: map[string]float64{}}
	for i, a := range adjusted {
		if !math.IsNaN(ma[i]) {
			out.ma[a.TradeDate] = ma[i]
		}
		if !math.IsNaN(vol[i]) {
			out.vol[a.TradeDate] = vol[i]
		}
	}
	return out, nil
}

func fetchAPIMetrics(client *resty.Client, tsCode, start, end string, window int) (series, error) {
	var body struct {
		Rows []map[string]any `json:"rows"`
	}
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"ts_code": tsCode,
			"window":  strconv.Itoa(window),
			"start":   start,
			"end":     end,
		}).
		SetResult(&body).
		Get("/api/metrics")
	if err != nil {
		return series{}, err
	}
	if resp.IsError() {
		return series{}, fmt.Errorf("api metrics: http %d", resp.StatusCode())
	}

	maField := "ma" + strconv.Itoa(window)
	out := series{ma: map[string]float64{}, vol: map[string]float64{}}
	for _, row := range body.Rows {
		date, _ := row["trade_date"].(string)
		if date == "" {
			continue
		}
		if v, ok := row[maField].(float64); ok {
			out.ma[date] = v
		}
		if v, ok := row["vol_ann"].(float64); ok {
			out.vol[date] = v
		}
	}
	return out, nil
}

// maxAbsDiff compares two date-keyed series over their common dates.
// NaN when nothing overlaps.
func maxAbsDiff(local, remote map[string]float64) float64 {
	max := math.NaN()
	for date, l := range local {
		r, ok := remote[date]
		if !ok {
			continue
		}
		d := math.Abs(l - r)
		if math.IsNaN(max) || d > max {
			max = d
		}
	}
	return max
}
