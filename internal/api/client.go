package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Signer produces authentication headers for a request.
// *auth.Credentials satisfies it.
type Signer interface {
	SignRequest(method, path string) (map[string]string, error)
}

// Client provides access to the Kalshi REST API.
type Client struct {
	baseURL    string
	basePath   string // path prefix of baseURL, part of every signed path
	signer     Signer
	httpClient *http.Client
	logger     *slog.Logger

	placeOrders bool
	keepRaw     bool
	now         func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. baseURL includes the API prefix,
// e.g. https://api.elections.kalshi.com/trade-api/v2. A nil signer sends
// unauthenticated requests, which only public market endpoints accept.
func NewClient(baseURL string, signer Signer, opts ...ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	basePath := ""
	if u, err := url.Parse(baseURL); err == nil {
		basePath = u.Path
	}

	c := &Client{
		baseURL:  baseURL,
		basePath: basePath,
		signer:   signer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOrderPlacement enables CreateOrder, BuyPosition and SellPosition.
// Order placement is off by default; those calls then fail with
// ErrOrderPlacementDisabled without touching the network.
func WithOrderPlacement(enabled bool) ClientOption {
	return func(c *Client) {
		c.placeOrders = enabled
	}
}

// WithRawPayloads keeps the source JSON on listed markets and order books.
func WithRawPayloads(enabled bool) ClientOption {
	return func(c *Client) {
		c.keepRaw = enabled
	}
}

// OrderPlacementEnabled reports whether the client may place orders.
func (c *Client) OrderPlacementEnabled() bool {
	return c.placeOrders
}
