package api

import (
	"context"
	"fmt"
)

// CreateOrder submits an order. It fails with ErrOrderPlacementDisabled
// unless the client was built with WithOrderPlacement(true).
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if !c.placeOrders {
		return nil, fmt.Errorf("create order %s: %w", req.Ticker, ErrOrderPlacementDisabled)
	}

	var resp OrderResponse
	if err := c.post(ctx, "/portfolio/orders", req, &resp); err != nil {
		return nil, fmt.Errorf("create order %s: %w", req.Ticker, err)
	}
	return &resp.Order, nil
}

// BuyPosition places a limit buy for count contracts at price cents.
func (c *Client) BuyPosition(ctx context.Context, ticker string, count, price int, side Side) (*Order, error) {
	return c.limitOrder(ctx, "buy", ticker, count, price, side)
}

// SellPosition places a limit sell for count contracts at price cents.
func (c *Client) SellPosition(ctx context.Context, ticker string, count, price int, side Side) (*Order, error) {
	return c.limitOrder(ctx, "sell", ticker, count, price, side)
}

func (c *Client) limitOrder(ctx context.Context, action, ticker string, count, price int, side Side) (*Order, error) {
	req, err := c.NewLimitOrder(action, ticker, count, price, side)
	if err != nil {
		return nil, err
	}

	c.logger.Info("creating limit order",
		"action", action,
		"ticker", ticker,
		"side", side,
		"count", count,
		"price_cents", price,
	)

	return c.CreateOrder(ctx, req)
}

// NewLimitOrder builds the payload used by BuyPosition and SellPosition.
// The client order ID is derived from the current time.
func (c *Client) NewLimitOrder(action, ticker string, count, price int, side Side) (CreateOrderRequest, error) {
	if !side.Valid() {
		return CreateOrderRequest{}, fmt.Errorf("invalid side %q", side)
	}
	if count < 1 {
		return CreateOrderRequest{}, fmt.Errorf("count must be >= 1, got %d", count)
	}
	if price < 1 || price > 99 {
		return CreateOrderRequest{}, fmt.Errorf("price must be between 1 and 99 cents, got %d", price)
	}

	req := CreateOrderRequest{
		Action:        action,
		ClientOrderID: fmt.Sprintf("%s_%d", action, c.now().UnixMilli()),
		Count:         count,
		Side:          side,
		Ticker:        ticker,
		Type:          "limit",
	}

	p := price
	if side == SideYes {
		req.YesPrice = &p
	} else {
		req.NoPrice = &p
	}

	return req, nil
}
