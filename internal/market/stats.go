package market

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/kalshi-markets/internal/model"
)

// ErrNoData is returned by Stats when the table is empty.
var ErrNoData = errors.New("no market data available")

// CategoryCount is the number of records in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats summarizes the table.
type Stats struct {
	TotalMarkets         int             `json:"total_markets"`
	Categories           []CategoryCount `json:"categories"`
	TotalVolume          int64           `json:"total_volume"`
	MarketsWithLiquidity int             `json:"markets_with_liquidity"` // yes bid and yes ask present
	LiquidityPercentage  string          `json:"liquidity_percentage"`   // two decimals, e.g. "42.86"
	LastUpdated          time.Time       `json:"last_updated"`
}

// Export is the document produced by Table.Export.
type Export struct {
	Data       []model.MarketRecord `json:"data"`
	Metadata   *Stats               `json:"metadata"`
	ExportedAt time.Time            `json:"exported_at"`
}

var hundred = decimal.NewFromInt(100)

// ComputeStats aggregates records. Categories are listed in order of first
// appearance.
func ComputeStats(records []model.MarketRecord, lastUpdated time.Time) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, ErrNoData
	}

	s := Stats{
		TotalMarkets: len(records),
		LastUpdated:  lastUpdated,
	}

	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(s.Categories)
			index[r.Category] = i
			s.Categories = append(s.Categories, CategoryCount{Category: r.Category})
		}
		s.Categories[i].Count++

		s.TotalVolume += r.Volume
		if r.HasYesQuote() {
			s.MarketsWithLiquidity++
		}
	}

	s.LiquidityPercentage = decimal.NewFromInt(int64(s.MarketsWithLiquidity)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(s.TotalMarkets))).
		StringFixed(2)

	return s, nil
}

// Stats aggregates the current snapshot. It returns ErrNoData when the
// table is empty.
func (t *Table) Stats() (Stats, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return ComputeStats(t.records, t.lastUpdated)
}

// Export returns every record with the table statistics. Metadata is nil
// when the table is empty.
func (t *Table) Export() Export {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data := make([]model.MarketRecord, len(t.records))
	copy(data, t.records)

	exp := Export{
		Data:       data,
		ExportedAt: t.now(),
	}
	if s, err := ComputeStats(t.records, t.lastUpdated); err == nil {
		exp.Metadata = &s
	}
	return exp
}
