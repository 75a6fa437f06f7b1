package api

import (
	"time"

	"github.com/rickgao/kalshi-markets/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp.
// Returns nil for empty or invalid input.
func ParseTimestamp(iso string) *time.Time {
	if iso == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return nil
		}
	}

	t = t.UTC()
	return &t
}

// ToModel converts an APIMarket to model.Market. The display title prefers
// the subtitle and falls back to the title.
func (m *APIMarket) ToModel() model.Market {
	title := m.Subtitle
	if title == "" {
		title = m.Title
	}

	var lastPrice *int
	if m.LastPrice != nil {
		lastPrice = model.Int(*m.LastPrice)
	}

	return model.Market{
		Ticker:       m.Ticker,
		Title:        title,
		Category:     m.Category,
		Status:       m.Status,
		OpenTime:     ParseTimestamp(m.OpenTime),
		CloseTime:    ParseTimestamp(m.CloseTime),
		ExpiresTime:  ParseTimestamp(m.ExpirationTime),
		Volume:       m.Volume,
		OpenInterest: m.OpenInterest,
		LastPrice:    lastPrice,
	}
}

// Top extracts the best level of each side.
func (o *OrderbookResponse) Top() model.OrderbookTop {
	return model.OrderbookTop{
		Yes: bookSide(o.Orderbook.Yes),
		No:  bookSide(o.Orderbook.No),
	}
}

// bookSide reads the first level of a side. Missing positions in a short
// level are left nil.
func bookSide(levels [][]int) model.BookSide {
	if len(levels) == 0 {
		return model.BookSide{}
	}

	level := levels[0]
	return model.BookSide{
		Bid:     levelAt(level, 0),
		Ask:     levelAt(level, 1),
		BidSize: levelAt(level, 2),
		AskSize: levelAt(level, 3),
	}
}

func levelAt(level []int, i int) *int {
	if i >= len(level) {
		return nil
	}
	return model.Int(level[i])
}
