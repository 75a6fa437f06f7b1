// marketd ingests open Kalshi markets into an in-memory table and serves it
// over HTTP.
// Usage: go run ./cmd/marketd --config configs/marketd.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/archive"
	"github.com/rickgao/kalshi-markets/internal/auth"
	"github.com/rickgao/kalshi-markets/internal/config"
	"github.com/rickgao/kalshi-markets/internal/database"
	"github.com/rickgao/kalshi-markets/internal/ingest"
	"github.com/rickgao/kalshi-markets/internal/market"
	"github.com/rickgao/kalshi-markets/internal/server"
	"github.com/rickgao/kalshi-markets/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketd.local.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional .env file loaded before the config")
	flag.Parse()

	bootLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := config.LoadEnvFile(*envPath); err != nil {
		bootLogger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting marketd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"api_url", cfg.API.RestURL,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("marketd failed", "error", err)
		os.Exit(1)
	}

	logger.Info("marketd stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	creds, err := auth.LoadCredentials(cfg.API.APIKey, cfg.API.PrivateKeyPath)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	client := api.NewClient(
		cfg.API.RestURL,
		creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithOrderPlacement(cfg.Trading.Enabled),
		api.WithRawPayloads(cfg.Ingest.KeepRaw),
	)

	status, err := client.GetExchangeStatus(ctx)
	if err != nil {
		return fmt.Errorf("check exchange status: %w", err)
	}
	logger.Info("exchange status",
		"exchange_active", status.ExchangeActive,
		"trading_active", status.TradingActive,
	)

	table := market.NewTable()
	srvOpts := []server.Option{}
	var handlers []ingest.ResultHandler

	if cfg.Archive.Enabled {
		db := cfg.Archive.Database
		logger.Info("connecting to archive database",
			"host", db.Host,
			"port", db.Port,
			"database", db.Name,
		)

		pool, err := database.Connect(ctx, db)
		if err != nil {
			return fmt.Errorf("connect archive: %w", err)
		}
		defer pool.Close()

		writer := archive.NewWriter(archive.Config{BatchSize: cfg.Archive.BatchSize}, pool, logger)
		if err := writer.EnsureSchema(ctx); err != nil {
			return err
		}

		handlers = append(handlers, writer)
		srvOpts = append(srvOpts, server.WithPinger(writer))
	}

	pipeline := ingest.New(ingest.FromConfig(cfg.Ingest), client, logger)
	refresher := ingest.NewRefresher(pipeline, table, cfg.Ingest.RefreshInterval, logger, handlers...)
	srv := server.New(table, logger, srvOpts...)

	if cfg.Ingest.RefreshInterval <= 0 {
		if err := refresher.Run(ctx); err != nil {
			return fmt.Errorf("ingest markets: %w", err)
		}
		if err := table.WriteSummary(os.Stdout); err != nil {
			logger.Warn("failed to print summary", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Ingest.RefreshInterval > 0 {
		if err := refresher.Start(gctx); err != nil {
			return fmt.Errorf("start refresher: %w", err)
		}
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return refresher.Stop(shutdownCtx)
		})
	}

	g.Go(func() error {
		return srv.ListenAndServe(gctx, fmt.Sprintf(":%d", cfg.Server.Port), cfg.Server.ShutdownTimeout)
	})

	logger.Info("marketd running",
		"status_url", fmt.Sprintf("http://localhost:%d/api/status", cfg.Server.Port),
		"refresh_interval", cfg.Ingest.RefreshInterval,
	)

	return g.Wait()
}
