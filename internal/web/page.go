package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/view"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static/fallback.png
var fallbackPNG []byte

// pageData feeds templates/watchlist.html
type pageData struct {
	Loading        bool
	RefreshSeconds int
	Error          string
	Total          int
	Sections       []anime.Section
	FallbackImage  string
}

func parsePage() (*template.Template, error) {
	tmpl, err := template.New("watchlist.html").Funcs(template.FuncMap{
		"comma": func(n int) string { return humanize.Comma(int64(n)) },
	}).ParseFS(templates, "templates/watchlist.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse watchlist template: %w", err)
	}
	return tmpl, nil
}

func (s *Server) newPageData(state view.State) pageData {
	data := pageData{
		RefreshSeconds: s.opts.RefreshSeconds,
		FallbackImage:  s.opts.FallbackImage,
	}
	switch state.Status {
	case view.StatusLoading:
		data.Loading = true
	case view.StatusError:
		data.Error = state.Message
	case view.StatusReady:
		data.Total = state.Total()
		data.Sections = state.Grouping().Sections()
	}
	return data
}

// handleWatchlist renders the page for the current state.
// GET /
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, s.newPageData(s.holder.State())); err != nil {
		s.logger.Error("Failed to execute watchlist template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleFallbackImage serves the image cards fall back to when a cover fails to load.
// GET <assets.fallback_image>
func (s *Server) handleFallbackImage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fallbackPNG)
}
