package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL         = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultAPITimeout      = 30 * time.Second
	DefaultPageSize        = 1000
	DefaultMarketStatus    = "open"
	DefaultOrderbookDepth  = 1
	DefaultPageDelay       = 100 * time.Millisecond
	DefaultItemDelay       = 50 * time.Millisecond
	DefaultProgressEvery   = 50
	DefaultServerPort      = 3000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTargetCents     = 10
	DefaultMinPrice        = 5
	DefaultMaxPrice        = 95
	DefaultScanLimit       = 50
	DefaultSettleDelay     = 2 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultArchiveBatch    = 500
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Ingest defaults
	if c.Ingest.PageSize == 0 {
		c.Ingest.PageSize = DefaultPageSize
	}
	if c.Ingest.Status == "" {
		c.Ingest.Status = DefaultMarketStatus
	}
	if c.Ingest.OrderbookDepth == 0 {
		c.Ingest.OrderbookDepth = DefaultOrderbookDepth
	}
	if c.Ingest.PageDelay == nil {
		c.Ingest.PageDelay = durationPtr(DefaultPageDelay)
	}
	if c.Ingest.ItemDelay == nil {
		c.Ingest.ItemDelay = durationPtr(DefaultItemDelay)
	}
	if c.Ingest.ProgressEvery == 0 {
		c.Ingest.ProgressEvery = DefaultProgressEvery
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Trading defaults
	if c.Trading.TargetCents == 0 {
		c.Trading.TargetCents = DefaultTargetCents
	}
	if c.Trading.MinPrice == 0 {
		c.Trading.MinPrice = DefaultMinPrice
	}
	if c.Trading.MaxPrice == 0 {
		c.Trading.MaxPrice = DefaultMaxPrice
	}
	if c.Trading.ScanLimit == 0 {
		c.Trading.ScanLimit = DefaultScanLimit
	}
	if c.Trading.SettleDelay == 0 {
		c.Trading.SettleDelay = DefaultSettleDelay
	}

	// Archive defaults
	applyDBDefaults(&c.Archive.Database)
	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = DefaultArchiveBatch
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
