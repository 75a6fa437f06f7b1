package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/kalshi-markets/internal/model"
)

// Sink receives the records of each successful run.
// *market.Table satisfies it.
type Sink interface {
	Replace(records []model.MarketRecord, refreshedAt time.Time)
}

// ResultHandler observes each successful run after the sink was updated.
type ResultHandler interface {
	HandleResult(ctx context.Context, res *Result) error
}

// ResultHandlerFunc is a function adapter for ResultHandler.
type ResultHandlerFunc func(ctx context.Context, res *Result) error

func (f ResultHandlerFunc) HandleResult(ctx context.Context, res *Result) error {
	return f(ctx, res)
}

// Runner performs one ingestion run. *Pipeline satisfies it.
type Runner interface {
	FetchAllOpenMarkets(ctx context.Context) (*Result, error)
}

// Refresher runs the pipeline once, or repeatedly on an interval, and
// replaces the sink with each result. A failed run leaves the sink
// untouched. In interval mode the failure is logged and the next tick
// retries; a one-shot run returns it.
type Refresher struct {
	runner   Runner
	sink     Sink
	handlers []ResultHandler
	interval time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	runErr error
}

// NewRefresher creates a Refresher. An interval of 0 runs once.
func NewRefresher(runner Runner, sink Sink, interval time.Duration, logger *slog.Logger, handlers ...ResultHandler) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		runner:   runner,
		sink:     sink,
		handlers: handlers,
		interval: interval,
		logger:   logger,
	}
}

// RefreshOnce runs the pipeline and updates the sink on success.
func (r *Refresher) RefreshOnce(ctx context.Context) (*Result, error) {
	res, err := r.runner.FetchAllOpenMarkets(ctx)
	if err != nil {
		r.logger.Error("market refresh failed, keeping previous table", "error", err)
		return nil, err
	}

	r.sink.Replace(res.Records, res.CompletedAt)

	for _, h := range r.handlers {
		if err := h.HandleResult(ctx, res); err != nil {
			r.logger.Warn("result handler failed", "run_id", res.RunID, "error", err)
		}
	}

	return res, nil
}

// Run refreshes immediately and then on every interval until ctx is done.
// With a zero interval it refreshes once and returns that run's error.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		_, err := r.RefreshOnce(ctx)
		return err
	}

	_, _ = r.RefreshOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = r.RefreshOnce(ctx)
		}
	}
}

// Start runs the refresh loop in the background.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runErr = r.Run(r.ctx)
	}()

	r.logger.Info("market refresher started", "interval", r.interval)
	return nil
}

// Stop cancels the loop and waits for the current run to finish. It returns
// the error of a failed one-shot run.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("market refresher stopped")
		return r.runErr
	case <-ctx.Done():
		return ctx.Err()
	}
}
