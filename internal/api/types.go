package api

import "encoding/json"

// ExchangeStatusResponse from GET /exchange/status
type ExchangeStatusResponse struct {
	ExchangeActive      bool   `json:"exchange_active"`
	TradingActive       bool   `json:"trading_active"`
	EstimatedResumeTime string `json:"exchange_estimated_resume_time,omitempty"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket represents a market from the Kalshi API.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	MarketType  string `json:"market_type"`

	// Prices in cents. LastPrice is nil when the field is absent.
	YesBid    int  `json:"yes_bid"`
	YesAsk    int  `json:"yes_ask"`
	NoBid     int  `json:"no_bid"`
	NoAsk     int  `json:"no_ask"`
	LastPrice *int `json:"last_price"`

	Volume       int64 `json:"volume"`
	Volume24h    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`

	// Timestamps (ISO 8601)
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	ExpirationTime string `json:"expiration_time"`

	// Raw is the JSON object this market was decoded from. Only set by
	// clients built with WithRawPayloads(true).
	Raw json.RawMessage `json:"-"`
}

// SingleEventResponse from GET /events/{event_ticker}
type SingleEventResponse struct {
	Event APIEvent `json:"event"`
}

// APIEvent represents an event from the Kalshi API. Markets inherit the
// event's category when their own is empty.
type APIEvent struct {
	EventTicker  string `json:"event_ticker"`
	SeriesTicker string `json:"series_ticker"`
	Title        string `json:"title"`
	Category     string `json:"category"`
}

// SingleMarketResponse from GET /markets/{ticker}
type SingleMarketResponse struct {
	Market APIMarket `json:"market"`
}

// OrderbookResponse from GET /markets/{ticker}/orderbook
type OrderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`

	// Raw is the response body this orderbook was decoded from. Only set
	// by clients built with WithRawPayloads(true).
	Raw json.RawMessage `json:"-"`
}

// APIOrderbook represents the orderbook from the Kalshi API.
// Each level is [price, counter price, bid size, ask size] in cents and
// contracts; either side may be null.
type APIOrderbook struct {
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`
}

// BalanceResponse from GET /portfolio/balance
type BalanceResponse struct {
	Balance        int64 `json:"balance"` // cents
	PortfolioValue int64 `json:"portfolio_value"`
}

// Side is the contract side of an order.
type Side string

// Contract sides.
const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Valid reports whether s is yes or no.
func (s Side) Valid() bool {
	return s == SideYes || s == SideNo
}

// CreateOrderRequest is the body of POST /portfolio/orders.
type CreateOrderRequest struct {
	Action        string `json:"action"` // buy or sell
	ClientOrderID string `json:"client_order_id"`
	Count         int    `json:"count"`
	Side          Side   `json:"side"`
	Ticker        string `json:"ticker"`
	Type          string `json:"type"` // limit or market
	YesPrice      *int   `json:"yes_price,omitempty"`
	NoPrice       *int   `json:"no_price,omitempty"`
}

// Order represents an order from the Kalshi API.
type Order struct {
	OrderID        string `json:"order_id"`
	ClientOrderID  string `json:"client_order_id"`
	Ticker         string `json:"ticker"`
	Status         string `json:"status"`
	Action         string `json:"action"`
	Side           string `json:"side"`
	Type           string `json:"type"`
	YesPrice       int    `json:"yes_price"`
	NoPrice        int    `json:"no_price"`
	RemainingCount int    `json:"remaining_count"`
	CreatedTime    string `json:"created_time"`
}

// OrderResponse from POST /portfolio/orders
type OrderResponse struct {
	Order Order `json:"order"`
}

// CancelOrderResponse from DELETE /portfolio/orders/{order_id}
type CancelOrderResponse struct {
	Order     Order `json:"order"`
	ReducedBy int   `json:"reduced_by"`
}

// OrdersResponse from GET /portfolio/orders
type OrdersResponse struct {
	Orders []Order `json:"orders"`
	Cursor string  `json:"cursor"`
}

// MarketPosition is a holding in a single market.
type MarketPosition struct {
	Ticker             string `json:"ticker"`
	Position           int    `json:"position"`
	MarketExposure     int64  `json:"market_exposure"`
	RealizedPnl        int64  `json:"realized_pnl"`
	RestingOrdersCount int    `json:"resting_orders_count"`
	TotalTraded        int64  `json:"total_traded"`
}

// EventPosition aggregates positions across an event.
type EventPosition struct {
	EventTicker   string `json:"event_ticker"`
	EventExposure int64  `json:"event_exposure"`
	RealizedPnl   int64  `json:"realized_pnl"`
	TotalCost     int64  `json:"total_cost"`
}

// PositionsResponse from GET /portfolio/positions
type PositionsResponse struct {
	MarketPositions []MarketPosition `json:"market_positions"`
	EventPositions  []EventPosition  `json:"event_positions"`
	Cursor          string           `json:"cursor"`
}

// GetMarketsOptions configures a GetMarkets request.
type GetMarketsOptions struct {
	Limit        int
	Cursor       string
	EventTicker  string
	SeriesTicker string
	Tickers      []string
	Status       string
}

// GetOrdersOptions configures a GetOrders request.
type GetOrdersOptions struct {
	Ticker string
	Status string
	Limit  int
	Cursor string
}

// GetPositionsOptions configures a GetPositions request.
type GetPositionsOptions struct {
	Ticker      string
	EventTicker string
	CountFilter string
	Limit       int
	Cursor      string
}
