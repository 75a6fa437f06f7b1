package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetBalance fetches the account balance.
func (c *Client) GetBalance(ctx context.Context) (*BalanceResponse, error) {
	var resp BalanceResponse
	if err := c.get(ctx, "/portfolio/balance", nil, &resp); err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &resp, nil
}

// GetOrders fetches a page of the account's orders.
func (c *Client) GetOrders(ctx context.Context, opts GetOrdersOptions) (*OrdersResponse, error) {
	query := url.Values{}
	if opts.Ticker != "" {
		query.Set("ticker", opts.Ticker)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp OrdersResponse
	if err := c.get(ctx, "/portfolio/orders", query, &resp); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return &resp, nil
}

// CancelOrder cancels a resting order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*CancelOrderResponse, error) {
	var resp CancelOrderResponse
	if err := c.delete(ctx, "/portfolio/orders/"+url.PathEscape(orderID), &resp); err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return &resp, nil
}

// GetPositions fetches a page of the account's positions.
func (c *Client) GetPositions(ctx context.Context, opts GetPositionsOptions) (*PositionsResponse, error) {
	query := url.Values{}
	if opts.Ticker != "" {
		query.Set("ticker", opts.Ticker)
	}
	if opts.EventTicker != "" {
		query.Set("event_ticker", opts.EventTicker)
	}
	if opts.CountFilter != "" {
		query.Set("count_filter", opts.CountFilter)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp PositionsResponse
	if err := c.get(ctx, "/portfolio/positions", query, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}
	return &resp, nil
}
