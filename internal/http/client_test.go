package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults leave timeout and retries off", func(t *testing.T) {
		client := NewClient(DefaultClientConfig())

		assert.NotNil(t, client)
		assert.Equal(t, time.Duration(0), client.GetTimeout())
		assert.Equal(t, 0, client.GetMaxRetries())
	})

	t.Run("creates client with custom config", func(t *testing.T) {
		client := NewClient(ClientConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 5,
			UserAgent:  "test-agent/1.0",
		})

		assert.Equal(t, 10*time.Second, client.GetTimeout())
		assert.Equal(t, 5, client.GetMaxRetries())
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("successful GET request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/api/anime", r.URL.Path)
			assert.Equal(t, "watchlist/1.0", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		resp, err := client.Get(context.Background(), server.URL+"/api/anime", nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "[]", resp.String())
	})

	t.Run("GET request with custom headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "abc", r.Header.Get("X-Request-ID"))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		_, err := client.Get(context.Background(), server.URL, map[string]string{"X-Request-ID": "abc"})

		require.NoError(t, err)
	})

	t.Run("status errors carry the response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		}))
		defer server.Close()

		client := NewClient(DefaultClientConfig())
		resp, err := client.Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, "not found", statusErr.Body)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("transport failures are request errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client := NewClient(DefaultClientConfig())
		resp, err := client.Get(context.Background(), url, nil)

		require.Error(t, err)
		assert.Nil(t, resp)
		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.NotNil(t, reqErr.Unwrap())
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient(DefaultClientConfig()).Get(ctx, server.URL, nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("no retry by default", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewClient(DefaultClientConfig()).Get(context.Background(), server.URL, nil)

		require.Error(t, err)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries server errors when enabled", func(t *testing.T) {
		var attempts atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{MaxRetries: 3})
		resp, err := client.Get(context.Background(), server.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, int32(3), attempts.Load())
	})
}

func TestClient_Probe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(DefaultClientConfig())

	status, contentType, err := client.Probe(context.Background(), server.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/jpeg", contentType)

	status, _, err = client.Probe(context.Background(), server.URL+"/missing.jpg")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestClient_DebugLogging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cover.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
			return
		}
		_, _ = w.Write([]byte(`[{"mal_id":1}]`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient(ClientConfig{Debug: true, Logger: logger})

	resp, err := client.Get(context.Background(), server.URL+"/list", nil)
	require.NoError(t, err)
	assert.Equal(t, `[{"mal_id":1}]`, resp.String())
	assert.Contains(t, buf.String(), "HTTP Request")
	assert.Contains(t, buf.String(), "mal_id")

	buf.Reset()
	status, contentType, err := client.Probe(context.Background(), server.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Contains(t, buf.String(), "HTTP Response")
}
