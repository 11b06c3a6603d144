package model

// PriceBar is one raw daily OHLCV row of the prices_daily table.
// (ts_code, trade_date) is unique within a table. Volume is whole shares,
// amount is base currency units; provider adapters convert before this point.
type PriceBar struct {
	TsCode    string   `json:"ts_code" parquet:"ts_code,dict"`
	TradeDate string   `json:"trade_date" parquet:"trade_date,dict"` // YYYY-MM-DD
	OpenRaw   float64  `json:"open_raw" parquet:"open_raw"`
	HighRaw   float64  `json:"high_raw" parquet:"high_raw"`
	LowRaw    float64  `json:"low_raw" parquet:"low_raw"`
	CloseRaw  float64  `json:"close_raw" parquet:"close_raw"`
	PreClose  *float64 `json:"pre_close,omitempty" parquet:"pre_close,optional"`
	Volume    int64    `json:"volume" parquet:"volume"`
	Amount    float64  `json:"amount" parquet:"amount"`
}

// AdjFactor is one row of the adj_factor table: the cumulative corporate
// action multiplier for ts_code as of trade_date. Sparse per entity.
type AdjFactor struct {
	TsCode    string  `json:"ts_code" parquet:"ts_code,dict"`
	TradeDate string  `json:"trade_date" parquet:"trade_date,dict"`
	AdjFactor float64 `json:"adj_factor" parquet:"adj_factor"`
}

// DailyBasic is one row of the daily_basic table. Valuation fields may be
// unknown on any given day.
type DailyBasic struct {
	TsCode       string   `json:"ts_code" parquet:"ts_code,dict"`
	TradeDate    string   `json:"trade_date" parquet:"trade_date,dict"`
	TurnoverRate *float64 `json:"turnover_rate,omitempty" parquet:"turnover_rate,optional"`
	PE           *float64 `json:"pe,omitempty" parquet:"pe,optional"`
	PETTM        *float64 `json:"pe_ttm,omitempty" parquet:"pe_ttm,optional"`
	PB           *float64 `json:"pb,omitempty" parquet:"pb,optional"`
	PS           *float64 `json:"ps,omitempty" parquet:"ps,optional"`
	TotalMV      *float64 `json:"total_mv,omitempty" parquet:"total_mv,optional"`
	CircMV       *float64 `json:"circ_mv,omitempty" parquet:"circ_mv,optional"`
}

// PriceRow is a PriceBar left-joined with its adjustment factor.
// AdjFactor is nil when no factor row exists for (ts_code, trade_date).
type PriceRow struct {
	PriceBar
	AdjFactor *float64 `json:"adj_factor,omitempty"`
}

// AdjustedBar is a PriceRow with corporate-action-adjusted OHLC populated.
type AdjustedBar struct {
	PriceRow
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// WatermarkRecord is one ledger entry: the most recent successful write to a
// table. Hash is a digest of the sorted entity set of the triggering batch,
// a coarse "did anything change" signal rather than a row-content hash.
type WatermarkRecord struct {
	Table    string `json:"table" parquet:"table,dict"`
	LastDate string `json:"last_dt" parquet:"last_dt,dict"`
	RowCount int64  `json:"rowcount" parquet:"rowcount"`
	Hash     string `json:"hash" parquet:"hash"`
}

// DateLayout is the canonical trade-date format used across the lake,
// the meta store and the API.
const DateLayout = "2006-01-02"

// Table names of the partitioned datasets.
const (
	TablePricesDaily = "prices_daily"
	TableAdjFactor   = "adj_factor"
	TableDailyBasic  = "daily_basic"
)
