package quant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/isMxy0934/PandaAlpha/internal/model"
)

// Mode selects the corporate-action adjustment basis.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeForward  Mode = "forward"
	ModeBackward Mode = "backward"
)

// ParseMode validates a caller-supplied adjustment mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNone:
		return ModeNone, nil
	case ModeForward:
		return ModeForward, nil
	case ModeBackward:
		return ModeBackward, nil
	}
	return "", fmt.Errorf("unsupported adjustment mode %q (use: none, forward, backward)", s)
}

// Adjust turns raw OHLC rows into adjusted OHLC under the given mode.
//
// backward: per entity, sort by date, forward-fill then backward-fill the
// sparse factor, normalize against the factor of the chronologically last
// row; the adjusted series equals raw on the most recent date. forward is
// the same with the first row as base. none copies raw through.
//
// Normalization is strictly per entity: groups are built first and filled
// within the group only, so one entity's factors can never scale another's
// prices. Input with no factor values at all degrades to none rather than
// failing. Output is grouped by entity, ascending by date.
func Adjust(rows []model.PriceRow, mode Mode) []model.AdjustedBar {
	if mode == ModeNone || !anyFactor(rows) {
		out := make([]model.AdjustedBar, 0, len(rows))
		for _, r := range rows {
			out = append(out, rawBar(r))
		}
		return out
	}

	groups, order := groupByCode(rows)
	out := make([]model.AdjustedBar, 0, len(rows))
	for _, code := range order {
		g := groups[code]
		sort.Slice(g, func(i, j int) bool { return g[i].TradeDate < g[j].TradeDate })

		filled, ok := fillFactors(g)
		if !ok {
			// this entity has no factor rows in range; pass raw through
			for _, r := range g {
				out = append(out, rawBar(r))
			}
			continue
		}

		base := filled[len(filled)-1]
		if mode == ModeForward {
			base = filled[0]
		}
		for i, r := range g {
			scale := filled[i] / base
			out = append(out, model.AdjustedBar{
				PriceRow: r,
				Open:     r.OpenRaw * scale,
				High:     r.HighRaw * scale,
				Low:      r.LowRaw * scale,
				Close:    r.CloseRaw * scale,
			})
		}
	}
	return out
}

func rawBar(r model.PriceRow) model.AdjustedBar {
	return model.AdjustedBar{
		PriceRow: r,
		Open:     r.OpenRaw,
		High:     r.HighRaw,
		Low:      r.LowRaw,
		Close:    r.CloseRaw,
	}
}

func anyFactor(rows []model.PriceRow) bool {
	for _, r := range rows {
		if r.AdjFactor != nil {
			return true
		}
	}
	return false
}

// groupByCode buckets rows per entity, preserving first-seen entity order so
// output is deterministic for a given input.
func groupByCode(rows []model.PriceRow) (map[string][]model.PriceRow, []string) {
	groups := make(map[string][]model.PriceRow)
	var order []string
	for _, r := range rows {
		if _, ok := groups[r.TsCode]; !ok {
			order = append(order, r.TsCode)
		}
		groups[r.TsCode] = append(groups[r.TsCode], r)
	}
	return groups, order
}

// fillFactors forward-fills then backward-fills the sparse factor column of
// a date-sorted group. Returns false when the group has no factors at all.
func fillFactors(g []model.PriceRow) ([]float64, bool) {
	filled := make([]float64, len(g))
	known := make([]bool, len(g))
	has := false
	for i, r := range g {
		if r.AdjFactor != nil {
			filled[i] = *r.AdjFactor
			known[i] = true
			has = true
		}
	}
	if !has {
		return nil, false
	}
	// forward fill
	for i := 1; i < len(filled); i++ {
		if !known[i] && known[i-1] {
			filled[i] = filled[i-1]
			known[i] = true
		}
	}
	// backward fill the leading gap
	for i := len(filled) - 2; i >= 0; i-- {
		if !known[i] && known[i+1] {
			filled[i] = filled[i+1]
			known[i] = true
		}
	}
	return filled, true
}
