package market

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rickgao/kalshi-markets/internal/model"
)

// Table is the thread-safe market snapshot.
type Table struct {
	mu sync.RWMutex

	records     []model.MarketRecord
	lastUpdated time.Time

	intn func(n int) int
	now  func() time.Time

	subMu sync.Mutex
	subs  map[chan RefreshEvent]struct{}
}

// Option configures a Table.
type Option func(*Table)

// WithRand sets the index source used by RandomTradeable.
// intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(t *Table) {
		if intn != nil {
			t.intn = intn
		}
	}
}

// WithClock sets the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		intn: rand.IntN,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Replace swaps in a new snapshot and notifies subscribers. The table keeps
// its own copy of records.
func (t *Table) Replace(records []model.MarketRecord, refreshedAt time.Time) {
	cp := make([]model.MarketRecord, len(records))
	copy(cp, records)

	t.mu.Lock()
	t.records = cp
	t.lastUpdated = refreshedAt
	ev := t.eventLocked()
	t.mu.Unlock()

	t.notify(ev)
}

// Records returns a copy of the current snapshot in ingestion order.
func (t *Table) Records() []model.MarketRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]model.MarketRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of records.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// LastUpdated returns the completion time of the run that produced the
// snapshot, or the zero time if the table was never filled.
func (t *Table) LastUpdated() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastUpdated
}

// Filter returns the records matching c.
func (t *Table) Filter(c Criteria) []model.MarketRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return FilterRecords(t.records, c)
}

// RandomTradeable picks a record with all four top-of-book prices,
// uniformly at random. It returns false if there is none.
func (t *Table) RandomTradeable() (model.MarketRecord, bool) {
	tradeable := t.Filter(Criteria{HasLiquidity: true})
	if len(tradeable) == 0 {
		return model.MarketRecord{}, false
	}
	return tradeable[t.intn(len(tradeable))], true
}
