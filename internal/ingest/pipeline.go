package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/model"
)

// Source is the part of the API client the pipeline reads from.
// *api.Client satisfies it.
type Source interface {
	GetMarkets(ctx context.Context, opts api.GetMarketsOptions) (*api.MarketsResponse, error)
	GetOrderbook(ctx context.Context, ticker string, depth int) (*api.OrderbookResponse, error)
}

// EventSource resolves event metadata. *api.Client satisfies it.
type EventSource interface {
	GetEvent(ctx context.Context, eventTicker string) (*api.APIEvent, error)
}

// PartialDataError describes a market whose order book could not be read.
// The run continues and the market is emitted as a degraded record.
type PartialDataError struct {
	Ticker string
	Err    error
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("orderbook for %s: %v", e.Ticker, e.Err)
}

func (e *PartialDataError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one ingestion run.
type Result struct {
	RunID       uuid.UUID
	Records     []model.MarketRecord
	Pages       int
	Degraded    int
	StartedAt   time.Time
	CompletedAt time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPacer replaces the timer-backed pacer.
func WithPacer(p Pacer) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.pacer = p
		}
	}
}

// WithClock sets the time source used for record and run timestamps.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) {
		if now != nil {
			pl.now = now
		}
	}
}

// WithEventSource fills empty market categories from the market's event.
// Each event is fetched at most once per run.
func WithEventSource(es EventSource) Option {
	return func(pl *Pipeline) {
		pl.events = es
	}
}

// Pipeline fetches all markets matching the configured status.
type Pipeline struct {
	cfg    Config
	source Source
	events EventSource
	pacer  Pacer
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Pipeline. Zero-valued sizes in cfg fall back to
// DefaultConfig; delays are taken as given.
func New(cfg Config, source Source, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.Status == "" {
		cfg.Status = def.Status
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = def.ProgressEvery
	}

	p := &Pipeline{
		cfg:    cfg,
		source: source,
		pacer:  TimerPacer{},
		logger: logger,
		now:    time.Now,
	}
	if es, ok := source.(EventSource); ok && cfg.EventCategories {
		p.events = es
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchAllOpenMarkets lists every market page by page, then enriches each
// one with its order book. It returns one record per listed market.
func (p *Pipeline) FetchAllOpenMarkets(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.New(),
		StartedAt: p.now(),
	}
	logger := p.logger.With("run_id", res.RunID)

	markets, pages, err := p.listMarkets(ctx, logger)
	res.Pages = pages
	if err != nil {
		return nil, err
	}

	logger.Info("fetched market listings", "markets", len(markets), "pages", pages)

	categories := make(map[string]string)
	res.Records = make([]model.MarketRecord, 0, len(markets))
	for i := range markets {
		if i > 0 {
			if err := p.pacer.Wait(ctx, p.cfg.ItemDelay); err != nil {
				return nil, fmt.Errorf("enrich markets: %w", err)
			}
		}

		m := &markets[i]
		if err := p.fillCategory(ctx, logger, m, categories); err != nil {
			return nil, fmt.Errorf("enrich markets: %w", err)
		}
		ob, err := p.source.GetOrderbook(ctx, m.Ticker, p.cfg.OrderbookDepth)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("enrich markets: %w", ctx.Err())
			}
			perr := &PartialDataError{Ticker: m.Ticker, Err: err}
			logger.Warn("orderbook unavailable, emitting degraded record",
				"ticker", m.Ticker,
				"error", perr,
			)
			res.Records = append(res.Records, DegradedRecord(m, perr, p.now(), p.cfg.KeepRaw))
			res.Degraded++
		} else {
			res.Records = append(res.Records, BuildRecord(m, ob, p.now(), p.cfg.KeepRaw))
		}

		if (i+1)%p.cfg.ProgressEvery == 0 {
			logger.Info("ingestion progress", "processed", i+1, "total", len(markets))
		}
	}

	res.CompletedAt = p.now()
	logger.Info("ingestion complete",
		"records", len(res.Records),
		"degraded", res.Degraded,
		"duration", res.CompletedAt.Sub(res.StartedAt),
	)

	return res, nil
}

// fillCategory copies the event category onto a market that has none.
// A failed lookup is cached as empty and only logged; the returned error
// is always a context error.
func (p *Pipeline) fillCategory(ctx context.Context, logger *slog.Logger, m *api.APIMarket, cache map[string]string) error {
	if p.events == nil || m.Category != "" || m.EventTicker == "" {
		return nil
	}

	category, ok := cache[m.EventTicker]
	if !ok {
		ev, err := p.events.GetEvent(ctx, m.EventTicker)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			logger.Warn("event lookup failed, leaving category empty",
				"ticker", m.Ticker,
				"event_ticker", m.EventTicker,
				"error", err,
			)
		default:
			category = ev.Category
		}
		cache[m.EventTicker] = category

		if err := p.pacer.Wait(ctx, p.cfg.ItemDelay); err != nil {
			return err
		}
	}

	m.Category = category
	return nil
}

// listMarkets follows the listing cursor until the server returns no cursor
// or an empty page.
func (p *Pipeline) listMarkets(ctx context.Context, logger *slog.Logger) ([]api.APIMarket, int, error) {
	var (
		markets []api.APIMarket
		cursor  string
		pages   int
	)

	for {
		resp, err := p.source.GetMarkets(ctx, api.GetMarketsOptions{
			Limit:  p.cfg.PageSize,
			Status: p.cfg.Status,
			Cursor: cursor,
		})
		if err != nil {
			logger.Error("market listing failed", "page", pages+1, "error", err)
			return nil, pages, fmt.Errorf("list markets page %d: %w", pages+1, err)
		}
		pages++

		markets = append(markets, resp.Markets...)
		logger.Debug("fetched listing page",
			"page", pages,
			"markets", len(resp.Markets),
			"total", len(markets),
		)

		if resp.Cursor == "" || len(resp.Markets) == 0 {
			return markets, pages, nil
		}
		cursor = resp.Cursor

		if err := p.pacer.Wait(ctx, p.cfg.PageDelay); err != nil {
			return nil, pages, fmt.Errorf("list markets: %w", err)
		}
	}
}
