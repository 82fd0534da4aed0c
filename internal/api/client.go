package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/config"
	apphttp "github.com/justchokingaround/watchlist/internal/http"
)

// FetchFailedMessage is the user-facing text for a non-success response
const FetchFailedMessage = "Failed to fetch anime list"

// HTTPError reports a non-success response from the anime-list endpoint
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return FetchFailedMessage
}

// NetworkError reports a request that failed to complete or a body that failed to parse.
// Its message is the underlying error's message.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the anime-list API
type Client struct {
	url    string
	http   *apphttp.Client
	probe  *apphttp.Client
	logger *slog.Logger
}

// NewClient creates a client for the endpoint configured in cfg
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url: cfg.API.URL(),
		http: apphttp.NewClient(apphttp.ClientConfig{
			Timeout:    cfg.API.Timeout,
			MaxRetries: cfg.API.MaxRetries,
			UserAgent:  cfg.API.UserAgent,
			Debug:      cfg.Advanced.Debug,
			Logger:     logger,
		}),
		probe: apphttp.NewClient(apphttp.ClientConfig{
			Timeout:   cfg.TUI.ProbeTimeout,
			UserAgent: cfg.API.UserAgent,
			Logger:    logger,
		}),
		logger: logger,
	}
}

// URL returns the anime-list URL this client fetches
func (c *Client) URL() string {
	return c.url
}

// FetchAnimeList performs one GET of the anime list
func (c *Client) FetchAnimeList(ctx context.Context) ([]anime.Record, error) {
	requestID := uuid.NewString()
	log := c.logger.With("request_id", requestID, "url", c.url)
	log.Info("fetching anime list")

	resp, err := c.http.Get(ctx, c.url, map[string]string{"X-Request-ID": requestID})

	var statusErr *apphttp.StatusError
	var reqErr *apphttp.RequestError
	switch {
	case errors.As(err, &statusErr):
		log.Warn("anime list request rejected", "status", statusErr.StatusCode)
		return nil, &HTTPError{StatusCode: statusErr.StatusCode, URL: c.url}
	case errors.As(err, &reqErr):
		log.Error("anime list request failed", "error", reqErr.Err)
		return nil, &NetworkError{Err: reqErr.Err}
	case err != nil:
		return nil, &NetworkError{Err: err}
	}

	if !resp.IsSuccess() {
		log.Warn("anime list request rejected", "status", resp.StatusCode())
		return nil, &HTTPError{StatusCode: resp.StatusCode(), URL: c.url}
	}

	var records []anime.Record
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		log.Error("anime list body did not parse", "error", err)
		return nil, &NetworkError{Err: err}
	}

	log.Info("fetched anime list", "count", len(records))
	return records, nil
}

// CheckImage reports whether imageURL serves an image. A nil error means the
// card can show it; anything else means the fallback image should be used.
func (c *Client) CheckImage(ctx context.Context, imageURL string) error {
	if imageURL == "" {
		return errors.New("no image url")
	}

	status, contentType, err := c.probe.Probe(ctx, imageURL)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("image responded with status %d", status)
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unexpected content type %q", contentType)
	}
	return nil
}
