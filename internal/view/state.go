// Package view holds the watchlist view model: a tri-state that starts
// Loading and settles exactly once into Error or Ready.
package view

import (
	"context"
	"sync"

	"github.com/justchokingaround/watchlist/internal/anime"
)

// Status is the phase of the view
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the view model. Message is set only for StatusError and Records only for StatusReady.
type State struct {
	Status  Status
	Message string
	Records []anime.Record
}

// Loading is the initial state
func Loading() State {
	return State{Status: StatusLoading}
}

// Failed is the settled error state carrying a user-visible message
func Failed(message string) State {
	return State{Status: StatusError, Message: message}
}

// Ready is the settled success state
func Ready(records []anime.Record) State {
	if records == nil {
		records = []anime.Record{}
	}
	return State{Status: StatusReady, Records: records}
}

// Total is the number of fetched records, independent of genre fan-out
func (s State) Total() int {
	return len(s.Records)
}

// Grouping groups the ready records by genre. It is recomputed on every call.
func (s State) Grouping() anime.Grouping {
	return anime.Group(s.Records)
}

// Settled reports whether the state left Loading
func (s State) Settled() bool {
	return s.Status != StatusLoading
}

// Fetcher performs the single anime-list read
type Fetcher interface {
	FetchAnimeList(ctx context.Context) ([]anime.Record, error)
}

// Load runs one fetch and maps its outcome to a settled state
func Load(ctx context.Context, f Fetcher) State {
	records, err := f.FetchAnimeList(ctx)
	if err != nil {
		return Failed(err.Error())
	}
	return Ready(records)
}

// Holder publishes a State to concurrent readers. It has a single writer that
// may settle it once.
type Holder struct {
	mu    sync.RWMutex
	state State
}

// NewHolder returns a holder in the Loading state
func NewHolder() *Holder {
	return &Holder{state: Loading()}
}

// State returns the current state
func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Settle moves the holder from Loading to s. It returns false, leaving the
// holder untouched, when the holder already settled or s is Loading.
func (h *Holder) Settle(s State) bool {
	if !s.Settled() {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state.Settled() {
		return false
	}
	h.state = s
	return true
}
