package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty.Client with optional retries and request logging
type Client struct {
	resty      *resty.Client
	maxRetries int
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientConfig holds configuration for the HTTP client.
// A zero Timeout means no timeout and zero MaxRetries means a single attempt.
type ClientConfig struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	Debug      bool
	Logger     *slog.Logger
}

// StatusError is returned for responses with status >= 400
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d for %s %s", e.StatusCode, e.Method, e.URL)
}

// RequestError is returned when a request never produced a response
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed for %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DefaultClientConfig returns the defaults used by the anime-list loader
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		UserAgent: "watchlist/1.0",
	}
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.UserAgent == "" {
		config.UserAgent = "watchlist/1.0"
	}

	restyClient := resty.New().
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json, */*")

	if config.Timeout > 0 {
		restyClient.SetTimeout(config.Timeout)
	}

	if config.MaxRetries > 0 {
		restyClient.
			SetRetryCount(config.MaxRetries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() >= 500 || r.StatusCode() == 429
			})
	}

	client := &Client{
		resty:      restyClient,
		maxRetries: config.MaxRetries,
		timeout:    config.Timeout,
		logger:     config.Logger,
	}

	if config.Debug && config.Logger != nil {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request. On status >= 400 the response is returned together with a *StatusError.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	resp, err := c.request(ctx, headers).Get(url)
	if err != nil {
		return nil, &RequestError{Method: "GET", URL: url, Err: err}
	}

	if resp.StatusCode() >= 400 {
		return resp, &StatusError{Method: "GET", URL: url, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return resp, nil
}

// Probe issues a GET without reading the body and reports status and content type.
// Used to check that a resource is reachable without downloading it.
func (c *Client) Probe(ctx context.Context, url string) (int, string, error) {
	resp, err := c.request(ctx, nil).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return 0, "", &RequestError{Method: "GET", URL: url, Err: err}
	}
	if body := resp.RawBody(); body != nil {
		_ = body.Close()
	}

	return resp.StatusCode(), resp.Header().Get("Content-Type"), nil
}

func (c *Client) request(ctx context.Context, headers map[string]string) *resty.Request {
	req := c.resty.R().SetContext(ctx)
	for key, value := range headers {
		req.SetHeader(key, value)
	}
	return req
}

// SetHeader sets a default header for all requests
func (c *Client) SetHeader(key, value string) {
	c.resty.SetHeader(key, value)
}

// GetTimeout returns the configured timeout
func (c *Client) GetTimeout() time.Duration {
	return c.timeout
}

// GetMaxRetries returns the configured max retries
func (c *Client) GetMaxRetries() int {
	return c.maxRetries
}

func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP Request",
		"method", r.Method,
		"url", r.URL,
		"headers", r.Header,
	)
}

func (c *Client) logResponse(r *resty.Response) {
	c.logger.Debug("HTTP Response",
		"status", r.StatusCode(),
		"url", r.Request.URL,
		"time", r.Time(),
	)

	bodyStr := r.String()
	if len(bodyStr) > 1000 {
		bodyStr = bodyStr[:1000] + "... (truncated)"
	}
	c.logger.Debug("Response Body", "body", bodyStr)
}
