// kalshictl exercises the Kalshi API from the command line.
// Usage: go run ./cmd/kalshictl --config configs/marketd.local.yaml <mode>
//
// Modes:
//
//	quick      balance and the first page of open markets
//	suite      quick, then a full ingestion with a summary
//	roundtrip  buy and sell a few cents of one market (dry run unless -live)
//	export     full ingestion written as JSON to -out (default stdout)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/kalshi-markets/internal/api"
	"github.com/rickgao/kalshi-markets/internal/auth"
	"github.com/rickgao/kalshi-markets/internal/config"
	"github.com/rickgao/kalshi-markets/internal/ingest"
	"github.com/rickgao/kalshi-markets/internal/market"
	"github.com/rickgao/kalshi-markets/internal/trading"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	configPath := flag.String("config", "configs/marketd.local.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional .env file loaded before the config")
	live := flag.Bool("live", false, "place real orders in roundtrip mode (also requires trading.enabled)")
	out := flag.String("out", "", "export output file (default stdout)")
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "quick"
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := config.LoadEnvFile(*envPath); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = cfg.Logging.NewLogger(os.Stderr)

	creds, err := auth.LoadCredentials(cfg.API.APIKey, cfg.API.PrivateKeyPath)
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(
		cfg.API.RestURL,
		creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithOrderPlacement(cfg.Trading.Enabled && *live),
		api.WithRawPayloads(cfg.Ingest.KeepRaw),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "quick":
		err = quick(ctx, client)
	case "suite":
		err = suite(ctx, cfg, client, logger)
	case "roundtrip":
		err = roundTrip(ctx, cfg, client, *live, logger)
	case "export":
		err = export(ctx, cfg, client, *out, logger)
	default:
		err = fmt.Errorf("unknown mode %q (want quick, suite, roundtrip or export)", mode)
	}

	if err != nil {
		logger.Error("kalshictl failed", "mode", mode, "error", err)
		os.Exit(1)
	}
}

func quick(ctx context.Context, client *api.Client) error {
	fmt.Println("=== Balance ===")
	bal, err := client.GetBalance(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Balance: %d cents\n", bal.Balance)

	fmt.Println("\n=== Open markets ===")
	resp, err := client.GetMarkets(ctx, api.GetMarketsOptions{Limit: 5, Status: "open"})
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d markets (cursor: %q)\n", len(resp.Markets), resp.Cursor)
	for i, m := range resp.Markets {
		fmt.Printf("  %d. %s - %s (status: %s)\n", i+1, m.Ticker, m.Title, m.Status)
	}

	if len(resp.Markets) > 0 {
		ticker := resp.Markets[0].Ticker
		fmt.Printf("\n=== Orderbook (%s) ===\n", ticker)
		ob, err := client.GetOrderbook(ctx, ticker, 5)
		if err != nil {
			return err
		}
		fmt.Printf("YES levels: %d, NO levels: %d\n", len(ob.Orderbook.Yes), len(ob.Orderbook.No))
		top := ob.Top()
		printSide("YES", top.Yes.Bid, top.Yes.Ask)
		printSide("NO", top.No.Bid, top.No.Ask)
	}

	fmt.Println("\n=== Quick check passed ===")
	return nil
}

func printSide(name string, bid, ask *int) {
	fmt.Printf("  %-3s bid: %s  ask: %s\n", name, cents(bid), cents(ask))
}

func cents(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%dc", *v)
}

func ingestTable(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) (*market.Table, error) {
	table := market.NewTable()
	refresher := ingest.NewRefresher(ingest.New(ingest.FromConfig(cfg.Ingest), client, logger), table, 0, logger)
	if _, err := refresher.RefreshOnce(ctx); err != nil {
		return nil, err
	}
	return table, nil
}

func suite(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) error {
	if err := quick(ctx, client); err != nil {
		return err
	}

	table, err := ingestTable(ctx, cfg, client, logger)
	if err != nil {
		return err
	}
	return table.WriteSummary(os.Stdout)
}

func roundTrip(ctx context.Context, cfg *config.Config, client *api.Client, live bool, logger *slog.Logger) error {
	if live && !client.OrderPlacementEnabled() {
		return fmt.Errorf("-live requires trading.enabled: %w", api.ErrOrderPlacementDisabled)
	}

	rt := trading.New(trading.FromConfig(cfg.Trading, live), client, nil, logger)
	res, err := rt.Run(ctx)
	if err != nil {
		return err
	}

	return writeJSON(os.Stdout, res)
}

func export(ctx context.Context, cfg *config.Config, client *api.Client, path string, logger *slog.Logger) error {
	table, err := ingestTable(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	if path == "" {
		return writeJSON(os.Stdout, table.Export())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := writeJSON(f, table.Export()); err != nil {
		return err
	}
	logger.Info("export written", "path", path, "records", table.Len())
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
