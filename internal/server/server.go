package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/kalshi-markets/internal/market"
	"github.com/rickgao/kalshi-markets/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithPinger adds the archive database to the health check.
func WithPinger(p Pinger) Option {
	return func(s *Server) {
		s.pinger = p
	}
}

// WithClock sets the time source for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server serves the status and market routes.
type Server struct {
	table  *market.Table
	pinger Pinger
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Server reading from table.
func New(table *market.Table, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		table:  table,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/markets", s.handleMarkets)
	mux.HandleFunc("GET /api/markets/stats", s.handleStats)
	mux.HandleFunc("GET /api/markets/export", s.handleExport)
	mux.HandleFunc("GET /api/markets/random", s.handleRandom)
	mux.HandleFunc("GET /api/markets/stream", s.handleStream)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

type statusResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   version.Info `json:"version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Status:    "Backend is running",
		Timestamp: s.now(),
		Version:   version.Get(),
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	c, err := ParseCriteria(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := s.table.Filter(c)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"markets": records,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.table.Stats()
	if errors.Is(err, market.ErrNoData) {
		s.writeError(w, http.StatusNotFound, "No market data available")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.table.Export())
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.table.RandomTradeable()
	if !ok {
		s.writeError(w, http.StatusNotFound, "No tradeable market available")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	n := s.table.Len()
	health.Components["market_table"] = map[string]any{
		"markets":      n,
		"last_updated": s.table.LastUpdated(),
	}
	if n == 0 {
		health.Status = "degraded"
	}

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["archive"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["archive"] = "connected"
		}
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

// ParseCriteria reads filter criteria from the request query.
func ParseCriteria(r *http.Request) (market.Criteria, error) {
	q := r.URL.Query()
	c := market.Criteria{Category: q.Get("category")}

	if v := q.Get("min_volume"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("invalid min_volume %q", v)
		}
		c.MinVolume = n
	}
	if v := q.Get("max_spread_yes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("invalid max_spread_yes %q", v)
		}
		c.MaxSpreadYes = &n
	}
	if v := q.Get("has_liquidity"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("invalid has_liquidity %q", v)
		}
		c.HasLiquidity = b
	}

	return c, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
