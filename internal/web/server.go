// Package web serves the watchlist as an HTML page and a JSON document.
package web

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/justchokingaround/watchlist/internal/report"
	"github.com/justchokingaround/watchlist/internal/view"
)

// Options configures the page and the API surface.
type Options struct {
	// FallbackImage is the path cards switch to when a cover fails to load.
	// The embedded placeholder is served there.
	FallbackImage string
	// RefreshSeconds is how often the Loading page reloads itself.
	RefreshSeconds int
	CORSOrigins    []string
}

// Server renders whatever state the holder has settled on.
type Server struct {
	holder *view.Holder
	page   *template.Template
	opts   Options
	router *chi.Mux
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(holder *view.Holder, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FallbackImage == "" {
		opts.FallbackImage = "/fallback.png"
	}
	if opts.RefreshSeconds <= 0 {
		opts.RefreshSeconds = 2
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		holder: holder,
		page:   page,
		opts:   opts,
		router: chi.NewRouter(),
		logger: logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Get("/", s.handleWatchlist)
	s.router.Get(s.opts.FallbackImage, s.handleFallbackImage)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Get("/watchlist", s.handleWatchlistJSON)
	})
}

// requestLogger logs each request through slog instead of chi's stdlib logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GET /health
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  s.holder.State().Status.String(),
	})
}

// handleWatchlistJSON returns the current state as a report document.
// GET /api/watchlist
func (s *Server) handleWatchlistJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, report.NewDocument(s.holder.State()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
