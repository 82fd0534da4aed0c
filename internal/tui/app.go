// Package tui runs the terminal watchlist view.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/watchlist/internal/tui/watchlist"
	"github.com/justchokingaround/watchlist/internal/view"
)

// Run shows the watchlist until the user quits or ctx is cancelled.
// It returns the state the view settled in.
func Run(ctx context.Context, opts watchlist.Options) (view.State, error) {
	p := tea.NewProgram(
		watchlist.New(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return view.Loading(), fmt.Errorf("watchlist UI failed: %w", err)
	}

	if m, ok := final.(watchlist.Model); ok {
		return m.State(), nil
	}
	return view.Loading(), nil
}
