package market

import "github.com/rickgao/kalshi-markets/internal/model"

// Criteria selects records. Zero-valued fields do not filter; set fields
// are combined with AND.
type Criteria struct {
	Category     string
	MinVolume    int64
	MaxSpreadYes *int // records without a yes spread never match
	HasLiquidity bool
}

// Match reports whether r satisfies every set criterion.
func (c Criteria) Match(r model.MarketRecord) bool {
	if c.Category != "" && r.Category != c.Category {
		return false
	}
	if c.MinVolume > 0 && r.Volume < c.MinVolume {
		return false
	}
	if c.MaxSpreadYes != nil && (r.SpreadYes == nil || *r.SpreadYes > *c.MaxSpreadYes) {
		return false
	}
	if c.HasLiquidity && !r.HasLiquidity() {
		return false
	}
	return true
}

// FilterRecords returns the records matching c, preserving order.
// The input slice is not modified.
func FilterRecords(records []model.MarketRecord, c Criteria) []model.MarketRecord {
	out := make([]model.MarketRecord, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
