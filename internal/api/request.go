package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var (
	// ErrAuthentication is returned when a request could not be signed.
	ErrAuthentication = errors.New("kalshi authentication failed")

	// ErrTransport is returned when the request never produced a response.
	ErrTransport = errors.New("kalshi transport failure")

	// ErrOrderPlacementDisabled is returned by order calls on a client
	// built without WithOrderPlacement(true).
	ErrOrderPlacementDisabled = errors.New("order placement is disabled")
)

// APIError represents a non-2xx response from the Kalshi API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalshi api error %d: %s", e.StatusCode, e.Message)
}

// errorBody is the envelope Kalshi uses for error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(status int, body []byte) *APIError {
	msg := http.StatusText(status)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		msg = eb.Error.Message
		if eb.Error.Code != "" {
			msg = eb.Error.Code + ": " + msg
		}
	}

	return &APIError{
		StatusCode: status,
		Message:    msg,
		Body:       body,
	}
}

// doRequest signs and performs a single HTTP request. There is no retry:
// every failure is logged and returned to the caller.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	signedPath := c.basePath + path

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.signer != nil {
		headers, err := c.signer.SignRequest(method, signedPath)
		if err != nil {
			c.logger.Error("failed to sign request",
				"method", method,
				"path", signedPath,
				"error", err,
			)
			return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	c.logger.Debug("kalshi request", "method", method, "path", signedPath)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			"method", method,
			"path", signedPath,
			"error", err,
		)
		return nil, fmt.Errorf("%w: do request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, respBody)
		c.logger.Error("request returned error status",
			"method", method,
			"path", signedPath,
			"status", resp.StatusCode,
			"message", apiErr.Message,
			"body", string(respBody),
		)
		return nil, apiErr
	}

	return respBody, nil
}

// call performs a request and decodes the JSON response into result.
// A nil result discards the body.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	_, err := c.callBody(ctx, method, path, query, payload, result)
	return err
}

// callBody is call that also returns the undecoded response body.
func (c *Client) callBody(ctx context.Context, method, path string, query url.Values, payload, result any) ([]byte, error) {
	body, err := c.doRequest(ctx, method, path, query, payload)
	if err != nil {
		return nil, err
	}

	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return body, nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return body, nil
}

// get performs a signed GET request.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, result)
}

// getBody performs a signed GET request and returns the raw body as well.
func (c *Client) getBody(ctx context.Context, path string, query url.Values, result any) ([]byte, error) {
	return c.callBody(ctx, http.MethodGet, path, query, nil, result)
}

// post performs a signed POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	return c.call(ctx, http.MethodPost, path, nil, payload, result)
}

// delete performs a signed DELETE request.
func (c *Client) delete(ctx context.Context, path string, result any) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, result)
}
