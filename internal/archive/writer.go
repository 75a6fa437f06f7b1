package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/kalshi-markets/internal/ingest"
	"github.com/rickgao/kalshi-markets/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DB is the subset of *pgxpool.Pool used by the writer.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

// Config holds archive writer settings.
type Config struct {
	// BatchSize is the number of rows sent per pgx batch.
	BatchSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 500}
}

// Metrics counts archive activity.
type Metrics struct {
	Runs      int64
	Inserts   int64
	Conflicts int64
	Errors    int64
	Batches   int64
}

// Writer stores ingestion results.
type Writer struct {
	cfg    Config
	db     DB
	logger *slog.Logger

	mu      sync.Mutex
	metrics Metrics
}

// NewWriter creates a Writer.
func NewWriter(cfg Config, db DB, logger *slog.Logger) *Writer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{cfg: cfg, db: db, logger: logger}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (w *Writer) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create archive schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (w *Writer) Ping(ctx context.Context) error {
	return w.db.Ping(ctx)
}

// Stats returns current metrics.
func (w *Writer) Stats() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// HandleResult writes every record of a run. It satisfies
// ingest.ResultHandler.
func (w *Writer) HandleResult(ctx context.Context, res *ingest.Result) error {
	start := time.Now()

	rows, err := toRows(res.RunID, res.Records)
	if err != nil {
		w.count(func(m *Metrics) { m.Errors++ })
		return err
	}

	var inserted, conflicts int
	for lo := 0; lo < len(rows); lo += w.cfg.BatchSize {
		hi := min(lo+w.cfg.BatchSize, len(rows))

		c, err := w.batchInsert(ctx, rows[lo:hi])
		if err != nil {
			w.logger.Error("snapshot batch insert failed",
				"run_id", res.RunID,
				"count", hi-lo,
				"error", err,
			)
			w.count(func(m *Metrics) { m.Errors++ })
			return fmt.Errorf("archive run %s: %w", res.RunID, err)
		}
		inserted += hi - lo - c
		conflicts += c
		w.count(func(m *Metrics) { m.Batches++ })
	}

	w.count(func(m *Metrics) {
		m.Runs++
		m.Inserts += int64(inserted)
		m.Conflicts += int64(conflicts)
	})

	w.logger.Info("archived ingestion run",
		"run_id", res.RunID,
		"inserted", inserted,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

func (w *Writer) count(f func(*Metrics)) {
	w.mu.Lock()
	f(&w.metrics)
	w.mu.Unlock()
}

// batchInsert inserts rows with ON CONFLICT DO NOTHING and returns the
// number of rows that already existed.
func (w *Writer) batchInsert(ctx context.Context, rows []snapshotRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSnapshot,
			r.RunID, r.Ticker, r.FetchedAt, r.Title, r.Category, r.Status, r.CloseTime,
			r.YesBid, r.YesAsk, r.NoBid, r.NoAsk, r.SpreadYes, r.SpreadNo,
			r.Volume, r.OpenInterest, r.LastPrice, r.OrderbookError, r.Record,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}

// snapshotRow is one row of market_snapshots.
type snapshotRow struct {
	RunID          uuid.UUID
	Ticker         string
	FetchedAt      time.Time
	Title          string
	Category       string
	Status         string
	CloseTime      *time.Time
	YesBid         *int
	YesAsk         *int
	NoBid          *int
	NoAsk          *int
	SpreadYes      *int
	SpreadNo       *int
	Volume         int64
	OpenInterest   int64
	LastPrice      *int
	OrderbookError *string // NULL unless the record is degraded
	Record         []byte  // JSONB: full record without the raw payload
}

func toRows(runID uuid.UUID, records []model.MarketRecord) ([]snapshotRow, error) {
	rows := make([]snapshotRow, 0, len(records))
	for _, rec := range records {
		slim := rec
		slim.Raw = nil
		doc, err := json.Marshal(slim)
		if err != nil {
			return nil, fmt.Errorf("encode record %s: %w", rec.Ticker, err)
		}

		var obErr *string
		if rec.OrderbookError != "" {
			e := rec.OrderbookError
			obErr = &e
		}

		rows = append(rows, snapshotRow{
			RunID:          runID,
			Ticker:         rec.Ticker,
			FetchedAt:      rec.FetchedAt,
			Title:          rec.Title,
			Category:       rec.Category,
			Status:         rec.Status,
			CloseTime:      rec.CloseTime,
			YesBid:         rec.YesBid,
			YesAsk:         rec.YesAsk,
			NoBid:          rec.NoBid,
			NoAsk:          rec.NoAsk,
			SpreadYes:      rec.SpreadYes,
			SpreadNo:       rec.SpreadNo,
			Volume:         rec.Volume,
			OpenInterest:   rec.OpenInterest,
			LastPrice:      rec.LastPrice,
			OrderbookError: obErr,
			Record:         doc,
		})
	}
	return rows, nil
}
