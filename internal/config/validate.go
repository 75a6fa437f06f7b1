package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalid wraps every validation failure so callers can treat it as a
// configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.RestURL == "" {
		return errors.New("api.rest_url is required")
	}
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}
	if c.API.PrivateKeyPath == "" {
		return errors.New("api.private_key_path is required")
	}

	if c.Ingest.PageSize < 1 || c.Ingest.PageSize > 1000 {
		return fmt.Errorf("ingest.page_size must be between 1 and 1000, got %d", c.Ingest.PageSize)
	}
	if c.Ingest.OrderbookDepth < 0 {
		return errors.New("ingest.orderbook_depth must be >= 0")
	}
	if negative(c.Ingest.PageDelay) || negative(c.Ingest.ItemDelay) {
		return errors.New("ingest delays must be >= 0")
	}
	if c.Ingest.RefreshInterval < 0 {
		return errors.New("ingest.refresh_interval must be >= 0")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Trading.MinPrice < 1 || c.Trading.MaxPrice > 99 || c.Trading.MinPrice > c.Trading.MaxPrice {
		return fmt.Errorf("trading price range [%d, %d] must lie within [1, 99]", c.Trading.MinPrice, c.Trading.MaxPrice)
	}
	if c.Trading.TargetCents < 1 {
		return errors.New("trading.target_cents must be >= 1")
	}

	if c.Archive.Enabled {
		if err := c.Archive.Database.validate("archive.database"); err != nil {
			return err
		}
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

// ParseLevel maps a logging.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s)
}

func negative(d *time.Duration) bool {
	return d != nil && *d < 0
}
