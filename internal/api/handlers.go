package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/isMxy0934/PandaAlpha/internal/cachekey"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/model"
	"github.com/isMxy0934/PandaAlpha/internal/quant"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	watermarks, err := s.wm.ReadAll()
	if err != nil {
		s.fail(w, err)
		return
	}
	jobs, err := s.meta.ListJobs(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if watermarks == nil {
		watermarks = []model.WatermarkRecord{}
	}
	if jobs == nil {
		jobs = []meta.JobStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"watermarks": watermarks, "jobs": jobs})
}

// handlePrices returns adjusted OHLC rows for the requested codes and range.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	codes, err := tsCodesParam(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end := q.Get("start"), q.Get("end")
	mode, err := quant.ParseMode(defaultStr(q.Get("adj"), "backward"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	normalized := map[string]string{
		"endpoint": "prices",
		"ts_codes": strings.Join(codes, ","),
		"start":    start,
		"end":      end,
		"adj":      string(mode),
	}
	if s.replyNotModified(w, r, normalized) {
		return
	}

	rows, err := s.reader.ReadPrices(codes, start, end)
	if err != nil {
		s.fail(w, err)
		return
	}
	adjusted := quant.Adjust(rows, mode)
	writeJSON(w, http.StatusOK, map[string]any{"rows": adjusted})
}

// metricsRow is one date of computed analyst metrics. Pointers so warm-up
// NaNs serialize as null, never 0.
type metricsRow struct {
	TradeDate string   `json:"trade_date"`
	Close     float64  `json:"close"`
	MA        *float64 `json:"-"`
	VolAnn    *float64 `json:"vol_ann"`

	maField string
}

func (m metricsRow) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"trade_date": m.TradeDate,
		"close":      m.Close,
		m.maField:    m.MA,
		"vol_ann":    m.VolAnn,
	}
	return json.Marshal(out)
}

// handleMetrics computes trailing moving average and annualized volatility
// over the backward-adjusted close series of one entity.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tsCode := strings.TrimSpace(q.Get("ts_code"))
	if tsCode == "" {
		http.Error(w, "ts_code is required", http.StatusBadRequest)
		return
	}
	window := 20
	if v := q.Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "window must be a positive integer", http.StatusBadRequest)
			return
		}
		window = n
	}
	start, end := q.Get("start"), q.Get("end")

	normalized := map[string]string{
		"endpoint": "metrics",
		"ts_code":  tsCode,
		"window":   strconv.Itoa(window),
		"start":    start,
		"end":      end,
	}
	if s.replyNotModified(w, r, normalized) {
		return
	}

	priceRows, err := s.reader.ReadPrices([]string{tsCode}, start, end)
	if err != nil {
		s.fail(w, err)
		return
	}
	adjusted := quant.Adjust(priceRows, quant.ModeBackward)
	sort.Slice(adjusted, func(i, j int) bool { return adjusted[i].TradeDate < adjusted[j].TradeDate })

	closes := make([]float64, len(adjusted))
	for i, a := range adjusted {
		closes[i] = a.Close
	}
	ma := quant.MovingAverage(closes, window)
	vol := quant.AnnualizedVolatility(closes, window)

	maField := "ma" + strconv.Itoa(window)
	rows := make([]metricsRow, len(adjusted))
	for i, a := range adjusted {
		rows[i] = metricsRow{
			TradeDate: a.TradeDate,
			Close:     a.Close,
			MA:        finite(ma[i]),
			VolAnn:    finite(vol[i]),
			maField:   maField,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ts_code": tsCode,
		"window":  window,
		"rows":    rows,
	})
}

func (s *Server) handleDailyBasic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	codes, err := tsCodesParam(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, end := q.Get("start"), q.Get("end")

	normalized := map[string]string{
		"endpoint": "daily_basic",
		"ts_codes": strings.Join(codes, ","),
		"start":    start,
		"end":      end,
	}
	if s.replyNotModified(w, r, normalized) {
		return
	}

	rows, err := s.reader.ReadDailyBasic(codes, start, end)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	codes, err := s.meta.Watchlist(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	limit := atoiDefault(r.URL.Query().Get("limit"), 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	total := len(codes)
	startIdx := (page - 1) * limit
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + limit
	if endIdx > total {
		endIdx = total
	}
	items := codes[startIdx:endIdx]
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page": page, "limit": limit, "total": total, "items": items,
	})
}

func (s *Server) handlePutWatchlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TsCodes []string `json:"ts_codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.meta.SetWatchlist(r.Context(), body.TsCodes); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleFails(w http.ResponseWriter, r *http.Request) {
	limit := atoiDefault(r.URL.Query().Get("limit"), 50)
	fails, err := s.meta.ListFails(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": fails})
}

// replyNotModified computes the cache key for the normalized query, sets the
// ETag header and answers 304 when the client already holds the current key.
// Any successful ingestion changes the snapshot and so invalidates every
// previously issued key.
func (s *Server) replyNotModified(w http.ResponseWriter, r *http.Request, normalized map[string]string) bool {
	records, err := s.wm.ReadAll()
	if err != nil {
		s.log.Warn("etag skipped, ledger unreadable", "error", err)
		return false
	}
	etag := `"` + cachekey.CacheKey(cachekey.SnapshotID(records), normalized) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.log.Error("request failed", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// tsCodesParam parses the ts_codes filter. An absent parameter means "no
// filter"; a parameter that is present but normalizes to nothing (e.g.
// "ts_codes=,,") is a malformed request, not a full-table scan.
func tsCodesParam(q url.Values) ([]string, error) {
	codes := cachekey.NormalizeTsCodes(q.Get("ts_codes"))
	if q.Has("ts_codes") && len(codes) == 0 {
		return nil, fmt.Errorf("ts_codes must name at least one entity")
	}
	return codes, nil
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
