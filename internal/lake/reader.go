package lake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// Reader scans published partitions. It never mutates them.
type Reader struct {
	root string
}

// NewReader creates a Reader over the partition tree rooted at root
// (e.g. data/parquet).
func NewReader(root string) *Reader {
	return &Reader{root: root}
}

// Root returns the partition tree root.
func (r *Reader) Root() string { return r.root }

// ReadPrices returns prices_daily rows left-joined with adj_factor on
// (ts_code, trade_date). The date range is inclusive on both ends; either
// bound may be empty for unbounded. When tsCodes is non-empty the result is
// filtered to that set in memory. A table with no partitions on disk yields
// an empty result, not an error — ingestion may not have run yet. Rows with
// no factor carry a nil AdjFactor, never zero.
func (r *Reader) ReadPrices(tsCodes []string, start, end string) ([]model.PriceRow, error) {
	bars, err := scanPartitions[model.PriceBar](r.root, model.TablePricesDaily, start, end)
	if err != nil {
		return nil, err
	}
	if len(tsCodes) > 0 {
		bars = filterByCode(bars, tsCodes, func(b model.PriceBar) string { return b.TsCode })
	}

	factors, err := scanPartitions[model.AdjFactor](r.root, model.TableAdjFactor, start, end)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]float64, len(factors))
	for _, f := range factors {
		byKey[f.TsCode+"\x00"+f.TradeDate] = f.AdjFactor
	}

	rows := make([]model.PriceRow, 0, len(bars))
	for _, b := range bars {
		row := model.PriceRow{PriceBar: b}
		if af, ok := byKey[b.TsCode+"\x00"+b.TradeDate]; ok {
			v := af
			row.AdjFactor = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadDailyBasic returns daily_basic rows for the given entity set and
// inclusive date range. Same missing-table and filter semantics as ReadPrices,
// no join involved.
func (r *Reader) ReadDailyBasic(tsCodes []string, start, end string) ([]model.DailyBasic, error) {
	rows, err := scanPartitions[model.DailyBasic](r.root, model.TableDailyBasic, start, end)
	if err != nil {
		return nil, err
	}
	if len(tsCodes) > 0 {
		rows = filterByCode(rows, tsCodes, func(b model.DailyBasic) string { return b.TsCode })
	}
	return rows, nil
}

// scanPartitions walks {root}/{table}/year=*/month=*/day=* and reads every
// published partition file whose date falls inside [start, end]. The day
// level partitioning is the date predicate pushdown: out-of-range days are
// pruned from the walk without opening a single file.
func scanPartitions[T any](root, table, start, end string) ([]T, error) {
	tableDir := filepath.Join(root, table)
	if _, err := os.Stat(tableDir); os.IsNotExist(err) {
		return []T{}, nil
	}

	var out []T
	years, err := os.ReadDir(tableDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	for _, y := range years {
		yv, ok := hivePart(y, "year=")
		if !ok {
			continue
		}
		months, err := os.ReadDir(filepath.Join(tableDir, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, m := range months {
			mv, ok := hivePart(m, "month=")
			if !ok {
				continue
			}
			days, err := os.ReadDir(filepath.Join(tableDir, y.Name(), m.Name()))
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", table, err)
			}
			for _, d := range days {
				dv, ok := hivePart(d, "day=")
				if !ok {
					continue
				}
				date := yv + "-" + mv + "-" + dv
				if start != "" && date < start {
					continue
				}
				if end != "" && date > end {
					continue
				}
				file := filepath.Join(tableDir, y.Name(), m.Name(), d.Name(), partFileName)
				if _, err := os.Stat(file); os.IsNotExist(err) {
					// directory created but partition never published
					continue
				}
				rows, err := parquet.ReadFile[T](file)
				if err != nil {
					return nil, fmt.Errorf("read partition %s: %w", file, err)
				}
				out = append(out, rows...)
			}
		}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func hivePart(e os.DirEntry, prefix string) (string, bool) {
	if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
		return "", false
	}
	return strings.TrimPrefix(e.Name(), prefix), true
}

func filterByCode[T any](rows []T, tsCodes []string, code func(T) string) []T {
	want := make(map[string]bool, len(tsCodes))
	for _, c := range tsCodes {
		want[c] = true
	}
	out := rows[:0:0]
	for _, r := range rows {
		if want[code(r)] {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []T{}
	}
	return out
}
