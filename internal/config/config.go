package config

import "time"

// Config is the root configuration shared by marketd and kalshictl.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Server  ServerConfig  `yaml:"server"`
	Trading TradingConfig `yaml:"trading"`
	Archive ArchiveConfig `yaml:"archive"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds Kalshi API settings.
type APIConfig struct {
	RestURL        string        `yaml:"rest_url"`
	APIKey         string        `yaml:"api_key"`          // API key ID (for KALSHI-ACCESS-KEY header)
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	Timeout        time.Duration `yaml:"timeout"`
}

// IngestConfig holds market ingestion settings.
type IngestConfig struct {
	PageSize        int            `yaml:"page_size"`
	Status          string         `yaml:"status"`
	OrderbookDepth  int            `yaml:"orderbook_depth"`
	PageDelay       *time.Duration `yaml:"page_delay"` // nil = default, 0s = no pause
	ItemDelay       *time.Duration `yaml:"item_delay"`
	KeepRaw         bool           `yaml:"keep_raw"`
	EventCategories bool           `yaml:"event_categories"` // fill empty categories from the market's event
	ProgressEvery   int            `yaml:"progress_every"`
	RefreshInterval time.Duration  `yaml:"refresh_interval"` // 0 = ingest once at startup
}

// ServerConfig holds the status HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TradingConfig gates order placement.
type TradingConfig struct {
	Enabled     bool          `yaml:"enabled"` // allow the API client to place orders
	TargetCents int           `yaml:"target_cents"`
	MinPrice    int           `yaml:"min_price"`
	MaxPrice    int           `yaml:"max_price"`
	ScanLimit   int           `yaml:"scan_limit"`
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// ArchiveConfig holds the optional PostgreSQL export archive.
type ArchiveConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Database  DBConfig `yaml:"database"`
	BatchSize int      `yaml:"batch_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
