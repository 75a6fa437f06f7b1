package trading

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/config"
	"github.com/rickgao/kalshi-markets/internal/ingest"
)

type order struct {
	action string
	ticker string
	count  int
	price  int
	side   api.Side
}

type fakeExchange struct {
	markets []api.APIMarket
	listErr error
	// books are returned in sequence per ticker; the last one repeats.
	books    map[string][]*api.OrderbookResponse
	bookErrs map[string]error
	bookHits map[string]int
	orders   []order
	orderErr error
}

func (f *fakeExchange) GetMarkets(_ context.Context, opts api.GetMarketsOptions) (*api.MarketsResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &api.MarketsResponse{Markets: f.markets}, nil
}

func (f *fakeExchange) GetOrderbook(_ context.Context, ticker string, _ int) (*api.OrderbookResponse, error) {
	if f.bookHits == nil {
		f.bookHits = map[string]int{}
	}
	i := f.bookHits[ticker]
	f.bookHits[ticker]++
	if err := f.bookErrs[ticker]; err != nil {
		return nil, err
	}
	seq := f.books[ticker]
	if len(seq) == 0 {
		return &api.OrderbookResponse{}, nil
	}
	return seq[min(i, len(seq)-1)], nil
}

func (f *fakeExchange) BuyPosition(_ context.Context, ticker string, count, price int, side api.Side) (*api.Order, error) {
	return f.place("buy", ticker, count, price, side)
}

func (f *fakeExchange) SellPosition(_ context.Context, ticker string, count, price int, side api.Side) (*api.Order, error) {
	return f.place("sell", ticker, count, price, side)
}

func (f *fakeExchange) place(action, ticker string, count, price int, side api.Side) (*api.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders = append(f.orders, order{action, ticker, count, price, side})
	return &api.Order{OrderID: action + "-1", Ticker: ticker}, nil
}

func book(yes ...[]int) *api.OrderbookResponse {
	return &api.OrderbookResponse{Orderbook: api.APIOrderbook{Yes: yes}}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noWait() ingest.Pacer {
	return ingest.PacerFunc(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
}

func TestShareCount(t *testing.T) {
	tests := []struct {
		target, price, want int
	}{
		{10, 5, 2},
		{10, 3, 3},
		{10, 10, 1},
		{10, 45, 1},
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := ShareCount(tt.target, tt.price); got != tt.want {
			t.Errorf("ShareCount(%d, %d) = %d, want %d", tt.target, tt.price, got, tt.want)
		}
	}
}

func TestFindCandidate(t *testing.T) {
	ex := &fakeExchange{
		markets: []api.APIMarket{{Ticker: "ERR"}, {Ticker: "EMPTY"}, {Ticker: "CHEAP"}, {Ticker: "GOOD"}, {Ticker: "LATER"}},
		books: map[string][]*api.OrderbookResponse{
			"CHEAP": {book([]int{1, 2, 10, 10})},
			"GOOD":  {book([]int{30, 35, 10, 10})},
			"LATER": {book([]int{40, 45, 10, 10})},
		},
		bookErrs: map[string]error{"ERR": errors.New("boom")},
	}

	rt := New(DefaultConfig(), ex, noWait(), quietLogger())
	c, err := rt.FindCandidate(context.Background())
	if err != nil {
		t.Fatalf("FindCandidate failed: %v", err)
	}
	if want := (Candidate{Ticker: "GOOD", YesAsk: 35}); c != want {
		t.Errorf("FindCandidate() = %+v, want %+v", c, want)
	}
	if ex.bookHits["LATER"] != 0 {
		t.Errorf("scan continued past the first candidate: %d LATER lookups", ex.bookHits["LATER"])
	}
}

func TestFindCandidate_Errors(t *testing.T) {
	rt := New(DefaultConfig(), &fakeExchange{}, noWait(), quietLogger())
	if _, err := rt.FindCandidate(context.Background()); !errors.Is(err, ErrNoMarkets) {
		t.Errorf("no markets: err = %v, want ErrNoMarkets", err)
	}

	rt = New(DefaultConfig(), &fakeExchange{
		markets: []api.APIMarket{{Ticker: "HIGH"}},
		books:   map[string][]*api.OrderbookResponse{"HIGH": {book([]int{96, 98, 1, 1})}},
	}, noWait(), quietLogger())
	if _, err := rt.FindCandidate(context.Background()); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("out of range: err = %v, want ErrNoCandidate", err)
	}

	listErr := &api.APIError{StatusCode: 401, Message: "unauthorized"}
	rt = New(DefaultConfig(), &fakeExchange{listErr: listErr}, noWait(), quietLogger())
	if _, err := rt.FindCandidate(context.Background()); !errors.Is(err, listErr) {
		t.Errorf("listing failure: err = %v, want %v", err, listErr)
	}
}

func TestRun_DryRun(t *testing.T) {
	ex := &fakeExchange{
		markets: []api.APIMarket{{Ticker: "GOOD"}},
		books:   map[string][]*api.OrderbookResponse{"GOOD": {book([]int{3, 4, 10, 10})}},
	}

	rt := New(DefaultConfig(), ex, noWait(), quietLogger())
	res, err := rt.Run(context.Background())
	if !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("Run() err = %v, want ErrNoCandidate", err)
	}
	if res != nil {
		t.Errorf("Run() result = %+v, want nil", res)
	}

	ex.books["GOOD"] = []*api.OrderbookResponse{book([]int{4, 5, 10, 10})}
	res, err = rt.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.DryRun {
		t.Error("DryRun = false, want true")
	}
	if res.Ticker != "GOOD" || res.Count != 2 || res.BuyPrice != 5 || res.SellPrice != 4 {
		t.Errorf("result = %+v, want GOOD 2 @ 5 then 4", res)
	}
	if len(ex.orders) != 0 {
		t.Errorf("orders = %+v, want none in dry run", ex.orders)
	}
	if res.BuyOrderID != "" {
		t.Errorf("BuyOrderID = %q, want empty", res.BuyOrderID)
	}
}

func TestRun_Live(t *testing.T) {
	ex := &fakeExchange{
		markets: []api.APIMarket{{Ticker: "GOOD"}},
		books: map[string][]*api.OrderbookResponse{"GOOD": {
			book([]int{30, 35, 10, 10}),
			book([]int{33, 36, 10, 10}),
		}},
	}

	var waited time.Duration
	pacer := ingest.PacerFunc(func(_ context.Context, d time.Duration) error {
		waited = d
		return nil
	})

	cfg := DefaultConfig()
	cfg.DryRun = false
	res, err := New(cfg, ex, pacer, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.DryRun {
		t.Error("DryRun = true, want false")
	}
	if waited != 2*time.Second {
		t.Errorf("settle wait = %v, want 2s", waited)
	}
	if res.BuyOrderID != "buy-1" || res.SellOrderID != "sell-1" {
		t.Errorf("order IDs = %q/%q, want buy-1/sell-1", res.BuyOrderID, res.SellOrderID)
	}
	if len(ex.orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(ex.orders))
	}
	if want := (order{"buy", "GOOD", 1, 35, api.SideYes}); ex.orders[0] != want {
		t.Errorf("buy = %+v, want %+v", ex.orders[0], want)
	}
	if want := (order{"sell", "GOOD", 1, 33, api.SideYes}); ex.orders[1] != want {
		t.Errorf("sell = %+v, want %+v", ex.orders[1], want)
	}
}

func TestRun_LiveEmptyBidFallsBack(t *testing.T) {
	ex := &fakeExchange{
		markets: []api.APIMarket{{Ticker: "GOOD"}},
		books: map[string][]*api.OrderbookResponse{"GOOD": {
			book([]int{30, 35, 10, 10}),
			book(),
		}},
	}

	cfg := DefaultConfig()
	cfg.DryRun = false
	res, err := New(cfg, ex, noWait(), quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.SellPrice != 34 {
		t.Errorf("SellPrice = %d, want 34 (ask minus one)", res.SellPrice)
	}
}

func TestRun_OrderPlacementDisabled(t *testing.T) {
	ex := &fakeExchange{
		markets:  []api.APIMarket{{Ticker: "GOOD"}},
		books:    map[string][]*api.OrderbookResponse{"GOOD": {book([]int{30, 35, 10, 10})}},
		orderErr: api.ErrOrderPlacementDisabled,
	}

	cfg := DefaultConfig()
	cfg.DryRun = false
	if _, err := New(cfg, ex, noWait(), quietLogger()).Run(context.Background()); !errors.Is(err, api.ErrOrderPlacementDisabled) {
		t.Errorf("Run() err = %v, want ErrOrderPlacementDisabled", err)
	}
}

var _ Exchange = (*api.Client)(nil)

func TestFromConfig(t *testing.T) {
	tc := config.TradingConfig{TargetCents: 20, MinPrice: 10, MaxPrice: 90, ScanLimit: 5, SettleDelay: time.Second}

	cfg := FromConfig(tc, false)
	want := Config{
		TargetCents:    20,
		MinPrice:       10,
		MaxPrice:       90,
		ScanLimit:      5,
		OrderbookDepth: 5,
		SettleDelay:    time.Second,
		DryRun:         true,
	}
	if cfg != want {
		t.Errorf("FromConfig() = %+v, want %+v", cfg, want)
	}

	if FromConfig(tc, true).DryRun {
		t.Error("live FromConfig should not be a dry run")
	}
}
