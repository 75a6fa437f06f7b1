package trading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/config"
	"github.com/rickgao/kalshi-markets/internal/ingest"
)

var (
	// ErrNoMarkets is returned when the listing has no open markets.
	ErrNoMarkets = errors.New("no open markets found")

	// ErrNoCandidate is returned when no scanned market has a yes ask
	// inside the configured price range.
	ErrNoCandidate = errors.New("no suitable market found")
)

// Exchange is the part of the API client used by the round trip.
// *api.Client satisfies it.
type Exchange interface {
	GetMarkets(ctx context.Context, opts api.GetMarketsOptions) (*api.MarketsResponse, error)
	GetOrderbook(ctx context.Context, ticker string, depth int) (*api.OrderbookResponse, error)
	BuyPosition(ctx context.Context, ticker string, count, price int, side api.Side) (*api.Order, error)
	SellPosition(ctx context.Context, ticker string, count, price int, side api.Side) (*api.Order, error)
}

// Config holds round-trip settings. Prices are in cents.
type Config struct {
	TargetCents    int           // Approximate spend (default: 10)
	MinPrice       int           // Lowest acceptable yes ask (default: 5)
	MaxPrice       int           // Highest acceptable yes ask (default: 95)
	ScanLimit      int           // Open markets scanned for a candidate (default: 50)
	OrderbookDepth int           // Depth requested while scanning (default: 5)
	SettleDelay    time.Duration // Pause between buy and sell (default: 2s)
	DryRun         bool          // Plan only, place no orders
}

// DefaultConfig returns a dry-run configuration.
func DefaultConfig() Config {
	return Config{
		TargetCents:    10,
		MinPrice:       5,
		MaxPrice:       95,
		ScanLimit:      50,
		OrderbookDepth: 5,
		SettleDelay:    2 * time.Second,
		DryRun:         true,
	}
}

// FromConfig maps the trading section of the process config. The result
// is a dry run unless live is true.
func FromConfig(c config.TradingConfig, live bool) Config {
	cfg := DefaultConfig()
	cfg.TargetCents = c.TargetCents
	cfg.MinPrice = c.MinPrice
	cfg.MaxPrice = c.MaxPrice
	cfg.ScanLimit = c.ScanLimit
	cfg.SettleDelay = c.SettleDelay
	cfg.DryRun = !live
	return cfg
}

// Result describes a completed or planned round trip.
type Result struct {
	Ticker      string `json:"ticker"`
	Count       int    `json:"count"`
	BuyPrice    int    `json:"buy_price"`
	SellPrice   int    `json:"sell_price"`
	BuyOrderID  string `json:"buy_order_id,omitempty"`
	SellOrderID string `json:"sell_order_id,omitempty"`
	DryRun      bool   `json:"dry_run"`
}

// Candidate is a market selected for the round trip.
type Candidate struct {
	Ticker string
	YesAsk int
}

// RoundTrip places the buy and the sell.
type RoundTrip struct {
	cfg    Config
	ex     Exchange
	pacer  ingest.Pacer
	logger *slog.Logger
}

// New creates a RoundTrip. A nil pacer uses ingest.TimerPacer.
func New(cfg Config, ex Exchange, pacer ingest.Pacer, logger *slog.Logger) *RoundTrip {
	if pacer == nil {
		pacer = ingest.TimerPacer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoundTrip{cfg: cfg, ex: ex, pacer: pacer, logger: logger}
}

// ShareCount is the number of contracts bought for target cents at price,
// never less than one.
func ShareCount(target, price int) int {
	if price <= 0 {
		return 1
	}
	return max(1, target/price)
}

// FindCandidate scans up to ScanLimit open markets and returns the first one
// whose best yes ask lies in [MinPrice, MaxPrice]. Markets whose order book
// cannot be read are skipped.
func (r *RoundTrip) FindCandidate(ctx context.Context) (Candidate, error) {
	resp, err := r.ex.GetMarkets(ctx, api.GetMarketsOptions{Limit: r.cfg.ScanLimit, Status: "open"})
	if err != nil {
		return Candidate{}, fmt.Errorf("list markets: %w", err)
	}
	if len(resp.Markets) == 0 {
		return Candidate{}, ErrNoMarkets
	}

	for _, m := range resp.Markets {
		ob, err := r.ex.GetOrderbook(ctx, m.Ticker, r.cfg.OrderbookDepth)
		if err != nil {
			if ctx.Err() != nil {
				return Candidate{}, ctx.Err()
			}
			r.logger.Warn("skipping market", "ticker", m.Ticker, "error", err)
			continue
		}

		ask := ob.Top().Yes.Ask
		if ask == nil {
			continue
		}
		if *ask >= r.cfg.MinPrice && *ask <= r.cfg.MaxPrice {
			return Candidate{Ticker: m.Ticker, YesAsk: *ask}, nil
		}
	}

	return Candidate{}, ErrNoCandidate
}

// Run selects a market, buys yes contracts at the ask, waits SettleDelay,
// and sells at the current best yes bid (or one cent under the ask if the
// bid side is empty). In dry-run mode no orders are placed and the sell
// price is taken from the book read during selection.
func (r *RoundTrip) Run(ctx context.Context) (*Result, error) {
	c, err := r.FindCandidate(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Ticker:   c.Ticker,
		Count:    ShareCount(r.cfg.TargetCents, c.YesAsk),
		BuyPrice: c.YesAsk,
		DryRun:   r.cfg.DryRun,
	}

	r.logger.Info("selected market",
		"ticker", c.Ticker,
		"yes_ask", c.YesAsk,
		"count", res.Count,
		"cost_cents", res.Count*c.YesAsk,
		"dry_run", r.cfg.DryRun,
	)

	if r.cfg.DryRun {
		res.SellPrice, err = r.sellPrice(ctx, c)
		if err != nil {
			return nil, err
		}
		r.logger.Info("dry run, no orders placed", "ticker", c.Ticker, "sell_price", res.SellPrice)
		return res, nil
	}

	buy, err := r.ex.BuyPosition(ctx, c.Ticker, res.Count, c.YesAsk, api.SideYes)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", c.Ticker, err)
	}
	res.BuyOrderID = buy.OrderID
	r.logger.Info("buy order created", "order_id", buy.OrderID)

	if err := r.pacer.Wait(ctx, r.cfg.SettleDelay); err != nil {
		return res, err
	}

	res.SellPrice, err = r.sellPrice(ctx, c)
	if err != nil {
		return res, err
	}

	sell, err := r.ex.SellPosition(ctx, c.Ticker, res.Count, res.SellPrice, api.SideYes)
	if err != nil {
		return res, fmt.Errorf("sell %s: %w", c.Ticker, err)
	}
	res.SellOrderID = sell.OrderID
	r.logger.Info("sell order created", "order_id", sell.OrderID, "price", res.SellPrice)

	return res, nil
}

func (r *RoundTrip) sellPrice(ctx context.Context, c Candidate) (int, error) {
	ob, err := r.ex.GetOrderbook(ctx, c.Ticker, r.cfg.OrderbookDepth)
	if err != nil {
		return 0, fmt.Errorf("refresh orderbook %s: %w", c.Ticker, err)
	}
	if bid := ob.Top().Yes.Bid; bid != nil && *bid >= 1 {
		return *bid, nil
	}
	return max(1, c.YesAsk-1), nil
}
