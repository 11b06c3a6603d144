// Package ingest runs the daily batch: fetch each table, publish its
// partition, advance its watermark. Tables are processed sequentially and
// independently; one table failing is recorded in the fail queue and the run
// moves on to the next table.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/isMxy0934/PandaAlpha/internal/lake"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/model"
	"github.com/isMxy0934/PandaAlpha/internal/provider"
)

// Pipeline wires a provider to the lake and the meta store for one run.
type Pipeline struct {
	root string
	wm   *lake.WatermarkLedger
	meta *meta.Store
	dp   provider.DataProvider
	log  *slog.Logger
}

// NewPipeline builds a Pipeline writing partitions under root.
func NewPipeline(root string, wm *lake.WatermarkLedger, metaStore *meta.Store, dp provider.DataProvider, log *slog.Logger) *Pipeline {
	return &Pipeline{root: root, wm: wm, meta: metaStore, dp: dp, log: log}
}

// TableResult is the outcome of one table in a run.
type TableResult struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// Report summarizes one daily run.
type Report struct {
	RunID     string        `json:"run_id"`
	TradeDate string        `json:"trade_date"`
	Results   []TableResult `json:"results"`
}

// Failed reports whether any table in the run failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Error != "" {
			return true
		}
	}
	return false
}

// RunDaily ingests all three tables for tradeDate. Per-table errors are
// routed to the fail queue and never abort the remaining tables.
func (p *Pipeline) RunDaily(ctx context.Context, tradeDate string) Report {
	report := Report{RunID: uuid.NewString(), TradeDate: tradeDate}
	p.log.Info("ingest run start", "run_id", report.RunID, "trade_date", tradeDate, "provider", p.dp.GetName())

	report.Results = append(report.Results, p.runTable(ctx, model.TablePricesDaily, tradeDate, func() (int, []string, error) {
		rows, err := p.dp.FetchDaily(ctx, tradeDate)
		if err != nil {
			return 0, nil, err
		}
		return writeTable(p, tradeDate, model.TablePricesDaily, rows, func(b model.PriceBar) string { return b.TsCode })
	}))

	report.Results = append(report.Results, p.runTable(ctx, model.TableAdjFactor, tradeDate, func() (int, []string, error) {
		rows, err := p.dp.FetchAdjFactor(ctx, tradeDate)
		if err != nil {
			return 0, nil, err
		}
		return writeTable(p, tradeDate, model.TableAdjFactor, rows, func(f model.AdjFactor) string { return f.TsCode })
	}))

	report.Results = append(report.Results, p.runTable(ctx, model.TableDailyBasic, tradeDate, func() (int, []string, error) {
		rows, err := p.dp.FetchDailyBasic(ctx, tradeDate)
		if err != nil {
			return 0, nil, err
		}
		return writeTable(p, tradeDate, model.TableDailyBasic, rows, func(b model.DailyBasic) string { return b.TsCode })
	}))

	var ok, failed int
	for _, r := range report.Results {
		if r.Error == "" {
			ok++
		} else {
			failed++
		}
	}
	p.log.Info("ingest run done", "run_id", report.RunID, "ok", ok, "failed", failed)
	return report
}

// runTable executes one table's fetch+write+watermark step, converting any
// error into a fail-queue entry.
func (p *Pipeline) runTable(ctx context.Context, table, tradeDate string, step func() (int, []string, error)) TableResult {
	n, codes, err := step()
	if err == nil && n == 0 {
		err = fmt.Errorf("no data for %s on %s", table, tradeDate)
	}
	if err != nil {
		p.log.Error("table ingest failed", "table", table, "trade_date", tradeDate, "error", err)
		params, _ := json.Marshal(map[string]string{"trade_date": tradeDate})
		if qerr := p.meta.EnqueueFail(ctx, p.dp.GetName()+"."+table, string(params), err.Error()); qerr != nil {
			p.log.Error("fail queue write failed", "table", table, "error", qerr)
		}
		return TableResult{Table: table, Error: err.Error()}
	}

	if err := p.wm.Upsert(model.WatermarkRecord{
		Table:    table,
		LastDate: tradeDate,
		RowCount: int64(n),
		Hash:     lake.BatchHash(codes),
	}); err != nil {
		// the partition is already published; surface the ledger failure
		p.log.Error("watermark upsert failed", "table", table, "error", err)
		return TableResult{Table: table, Rows: n, Error: err.Error()}
	}
	p.log.Info("table ingested", "table", table, "trade_date", tradeDate, "rows", n)
	return TableResult{Table: table, Rows: n}
}

// writeTable publishes one partition and collects the entity set for the
// watermark hash. Free function because methods cannot be generic.
func writeTable[T any](p *Pipeline, tradeDate, table string, rows []T, code func(T) string) (int, []string, error) {
	if len(rows) == 0 {
		return 0, nil, nil
	}
	dt, err := time.Parse(model.DateLayout, tradeDate)
	if err != nil {
		return 0, nil, fmt.Errorf("parse trade date %q: %w", tradeDate, err)
	}
	n, err := lake.WritePartition(p.root, table, dt, rows)
	if err != nil {
		return 0, nil, err
	}
	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, code(r))
	}
	return n, codes, nil
}
