package ingest

import (
	"time"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/model"
)

// Spread returns ask minus bid, or nil unless both are present.
func Spread(bid, ask *int) *int {
	if bid == nil || ask == nil {
		return nil
	}
	return model.Int(*ask - *bid)
}

// BuildRecord flattens a market and its order book into a record.
// A nil orderbook leaves every book-derived field nil.
func BuildRecord(m *api.APIMarket, ob *api.OrderbookResponse, fetchedAt time.Time, keepRaw bool) model.MarketRecord {
	mk := m.ToModel()

	rec := model.MarketRecord{
		Ticker:         mk.Ticker,
		Title:          mk.Title,
		Category:       mk.Category,
		Status:         mk.Status,
		OpenTime:       mk.OpenTime,
		CloseTime:      mk.CloseTime,
		ExpirationTime: mk.ExpiresTime,
		Volume:         mk.Volume,
		OpenInterest:   mk.OpenInterest,
		LastPrice:      mk.LastPrice,
		FetchedAt:      fetchedAt,
	}

	if ob != nil {
		top := ob.Top()
		rec.YesBid = top.Yes.Bid
		rec.YesAsk = top.Yes.Ask
		rec.YesBidSize = top.Yes.BidSize
		rec.YesAskSize = top.Yes.AskSize
		rec.NoBid = top.No.Bid
		rec.NoAsk = top.No.Ask
		rec.NoBidSize = top.No.BidSize
		rec.NoAskSize = top.No.AskSize
		rec.SpreadYes = Spread(rec.YesBid, rec.YesAsk)
		rec.SpreadNo = Spread(rec.NoBid, rec.NoAsk)
	}

	if keepRaw {
		raw := &model.RawPayload{Market: m.Raw}
		if ob != nil {
			raw.Orderbook = ob.Raw
		}
		rec.Raw = raw
	}

	return rec
}

// DegradedRecord builds the record emitted when the order book fetch failed.
func DegradedRecord(m *api.APIMarket, cause error, fetchedAt time.Time, keepRaw bool) model.MarketRecord {
	rec := BuildRecord(m, nil, fetchedAt, keepRaw)
	if cause != nil {
		rec.OrderbookError = cause.Error()
	} else {
		rec.OrderbookError = "orderbook unavailable"
	}
	return rec
}
