package model

import (
	"encoding/json"
	"time"
)

// Market is a listing entry flattened from the REST response.
type Market struct {
	Ticker       string     // Primary key (e.g., "PRES-2024-DEM")
	Title        string     // Subtitle, falling back to title
	Category     string     // Category, empty when not provided
	Status       string     // open, closed, settled, ...
	OpenTime     *time.Time // Market open time
	CloseTime    *time.Time // Market close time
	ExpiresTime  *time.Time // Expiration time
	Volume       int64      // Total volume, 0 when missing
	OpenInterest int64      // Open interest, 0 when missing
	LastPrice    *int       // Last traded price in cents, nil when missing
}

// BookSide is the top-of-book for one side (yes or no) of a binary market.
// All fields are nil when the side has no levels.
type BookSide struct {
	Bid     *int
	Ask     *int
	BidSize *int
	AskSize *int
}

// HasQuote reports whether both bid and ask are present.
func (s BookSide) HasQuote() bool {
	return s.Bid != nil && s.Ask != nil
}

// OrderbookTop is the best level of both sides.
type OrderbookTop struct {
	Yes BookSide
	No  BookSide
}

// RawPayload keeps the source JSON a record was built from.
type RawPayload struct {
	Market    json.RawMessage `json:"market,omitempty"`
	Orderbook json.RawMessage `json:"orderbook,omitempty"`
}

// MarketRecord is one analysis-ready row of the market table.
type MarketRecord struct {
	Ticker         string     `json:"ticker"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Status         string     `json:"status"`
	OpenTime       *time.Time `json:"open_time"`
	CloseTime      *time.Time `json:"close_time"`
	ExpirationTime *time.Time `json:"expiration_time"`

	YesBid     *int `json:"yes_bid"`
	YesAsk     *int `json:"yes_ask"`
	YesBidSize *int `json:"yes_bid_size"`
	YesAskSize *int `json:"yes_ask_size"`
	NoBid      *int `json:"no_bid"`
	NoAsk      *int `json:"no_ask"`
	NoBidSize  *int `json:"no_bid_size"`
	NoAskSize  *int `json:"no_ask_size"`

	// Ask minus bid; nil unless both are present.
	SpreadYes *int `json:"spread_yes"`
	SpreadNo  *int `json:"spread_no"`

	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`
	LastPrice    *int  `json:"last_price"`

	FetchedAt time.Time `json:"fetched_at"`

	// Set when the order book could not be fetched; book fields are nil.
	OrderbookError string `json:"orderbook_error,omitempty"`

	// Only populated when raw retention is enabled.
	Raw *RawPayload `json:"raw,omitempty"`
}

// HasLiquidity reports whether all four top-of-book prices are present.
func (r MarketRecord) HasLiquidity() bool {
	return r.YesBid != nil && r.YesAsk != nil && r.NoBid != nil && r.NoAsk != nil
}

// HasYesQuote reports whether both yes bid and yes ask are present.
func (r MarketRecord) HasYesQuote() bool {
	return r.YesBid != nil && r.YesAsk != nil
}

// Degraded reports whether the record was emitted without order book data.
func (r MarketRecord) Degraded() bool {
	return r.OrderbookError != ""
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
