package ingest

import (
	"time"

	"github.com/rickgao/kalshi-markets/internal/config"
)

// Config holds ingestion settings.
type Config struct {
	PageSize       int           // Markets requested per listing call (default: 1000)
	Status         string        // Listing status filter (default: "open")
	OrderbookDepth int           // Order book depth per market (default: 1)
	PageDelay      time.Duration // Pause between listing pages (default: 100ms)
	ItemDelay      time.Duration // Pause between order book calls (default: 50ms)
	KeepRaw        bool          // Retain source JSON on each record
	ProgressEvery  int           // Log progress every N markets (default: 50)

	// EventCategories fills empty categories from the market's event when
	// the source can fetch events.
	EventCategories bool
}

// DefaultConfig returns the settings used by the hosted ingestion service.
func DefaultConfig() Config {
	return Config{
		PageSize:       1000,
		Status:         "open",
		OrderbookDepth: 1,
		PageDelay:      100 * time.Millisecond,
		ItemDelay:      50 * time.Millisecond,
		ProgressEvery:  50,
	}
}

// FromConfig maps the ingest section of the process config. Unset delays
// keep their defaults; an explicit zero disables the pause.
func FromConfig(c config.IngestConfig) Config {
	cfg := Config{
		PageSize:        c.PageSize,
		Status:          c.Status,
		OrderbookDepth:  c.OrderbookDepth,
		KeepRaw:         c.KeepRaw,
		ProgressEvery:   c.ProgressEvery,
		EventCategories: c.EventCategories,
	}
	def := DefaultConfig()
	cfg.PageDelay, cfg.ItemDelay = def.PageDelay, def.ItemDelay
	if c.PageDelay != nil {
		cfg.PageDelay = *c.PageDelay
	}
	if c.ItemDelay != nil {
		cfg.ItemDelay = *c.ItemDelay
	}
	return cfg
}
