package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetMarkets fetches a page of markets.
func (c *Client) GetMarkets(ctx context.Context, opts GetMarketsOptions) (*MarketsResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.EventTicker != "" {
		query.Set("event_ticker", opts.EventTicker)
	}
	if opts.SeriesTicker != "" {
		query.Set("series_ticker", opts.SeriesTicker)
	}
	if len(opts.Tickers) > 0 {
		query.Set("tickers", strings.Join(opts.Tickers, ","))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var resp MarketsResponse
	body, err := c.getBody(ctx, "/markets", query, &resp)
	if err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	if c.keepRaw {
		if err := attachRawMarkets(body, resp.Markets); err != nil {
			return nil, fmt.Errorf("get markets: %w", err)
		}
	}

	return &resp, nil
}

// GetMarket fetches a single market by ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (*APIMarket, error) {
	var resp SingleMarketResponse
	if err := c.get(ctx, "/markets/"+url.PathEscape(ticker), nil, &resp); err != nil {
		return nil, fmt.Errorf("get market %s: %w", ticker, err)
	}
	return &resp.Market, nil
}

// GetOrderbook fetches the orderbook for a market. depth <= 0 requests
// all levels.
func (c *Client) GetOrderbook(ctx context.Context, ticker string, depth int) (*OrderbookResponse, error) {
	query := url.Values{}
	if depth > 0 {
		query.Set("depth", strconv.Itoa(depth))
	}

	var resp OrderbookResponse
	body, err := c.getBody(ctx, "/markets/"+url.PathEscape(ticker)+"/orderbook", query, &resp)
	if err != nil {
		return nil, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}

	if c.keepRaw {
		resp.Raw = body
	}

	return &resp, nil
}

// attachRawMarkets splits a listing body into per-market JSON objects.
func attachRawMarkets(body []byte, markets []APIMarket) error {
	var page struct {
		Markets []json.RawMessage `json:"markets"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return fmt.Errorf("split raw markets: %w", err)
	}
	for i := range markets {
		if i < len(page.Markets) {
			markets[i].Raw = page.Markets[i]
		}
	}
	return nil
}
