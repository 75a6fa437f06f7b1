package api

import (
	"context"
	"fmt"
)

// GetExchangeStatus fetches the current exchange status. It is public and
// works on an unauthenticated client.
func (c *Client) GetExchangeStatus(ctx context.Context) (*ExchangeStatusResponse, error) {
	var resp ExchangeStatusResponse
	if err := c.get(ctx, "/exchange/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get exchange status: %w", err)
	}
	if !resp.TradingActive {
		c.logger.Warn("exchange trading is not active",
			"exchange_active", resp.ExchangeActive,
			"estimated_resume", resp.EstimatedResumeTime,
		)
	}
	return &resp, nil
}
