package watchlist

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/clipboard"
	"github.com/justchokingaround/watchlist/internal/tui/common"
	"github.com/justchokingaround/watchlist/internal/tui/styles"
	"github.com/justchokingaround/watchlist/internal/view"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	// chromeHeight is the number of lines around the grid viewport
	chromeHeight = 9
	maxProbes    = 8
)

// ImageChecker reports whether an image URL can be displayed
type ImageChecker interface {
	CheckImage(ctx context.Context, imageURL string) error
}

// Options wires the model to its collaborators
type Options struct {
	Fetcher view.Fetcher
	// Images is optional; without it every non-empty image URL is shown as is.
	Images        ImageChecker
	FallbackImage string
	CardWidth     int
	Clipboard     clipboard.Service
	OpenURL       func(url string) error
	Logger        *slog.Logger
}

type imageState int

const (
	imagePending imageState = iota
	imageOK
	imageFailed
)

// card is one record placed in one genre section
type card struct {
	genre  string
	record anime.Record
}

// Model is the watchlist view: it fetches once, groups by genre and renders card sections
type Model struct {
	ctx  context.Context
	opts Options
	keys KeyMap

	state view.State

	spinner  spinner.Model
	viewport viewport.Model
	fuzzy    *common.FuzzySearch

	images map[string]imageState
	probes chan struct{}

	sections []anime.Section
	cards    []card
	rows     [][]int // card indices per grid row, top to bottom
	cursor   int

	width  int
	height int
	status string
}

// New creates the watchlist model in the Loading state
func New(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CardWidth < 12 {
		opts.CardWidth = 28
	}
	if opts.FallbackImage == "" {
		opts.FallbackImage = "/fallback.png"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.TotalStyle

	m := Model{
		ctx:      ctx,
		opts:     opts,
		keys:     DefaultKeyMap(),
		state:    view.Loading(),
		spinner:  s,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		fuzzy:    common.NewFuzzySearch(),
		images:   make(map[string]imageState),
		probes:   make(chan struct{}, maxProbes),
	}
	m.setSize(defaultWidth, defaultHeight)
	return m
}

// State returns the current view state
func (m Model) State() view.State {
	return m.state
}

// Init starts the single anime-list fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchAnime())
}

func (m Model) fetchAnime() tea.Cmd {
	ctx, fetcher := m.ctx, m.opts.Fetcher
	return func() tea.Msg {
		records, err := fetcher.FetchAnimeList(ctx)
		if err != nil {
			return AnimeLoadErrorMsg{Err: err}
		}
		return AnimeLoadedMsg{Records: records}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		m.rebuild()
		return m, nil

	case spinner.TickMsg:
		if m.state.Settled() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AnimeLoadedMsg:
		if m.state.Settled() {
			return m, nil
		}
		m.state = view.Ready(msg.Records)
		m.opts.Logger.Info("watchlist ready", "total", m.state.Total())
		m.rebuild()
		return m, m.probeImages()

	case AnimeLoadErrorMsg:
		if m.state.Settled() {
			return m, nil
		}
		m.state = view.Failed(msg.Err.Error())
		m.opts.Logger.Error("watchlist failed to load", "error", msg.Err)
		return m, nil

	case ImageCheckedMsg:
		if msg.Err != nil {
			m.opts.Logger.Debug("image unavailable, using fallback", "url", msg.URL, "error", msg.Err)
			m.images[msg.URL] = imageFailed
		} else {
			m.images[msg.URL] = imageOK
		}
		m.render()
		return m, nil

	case LinkOpenedMsg:
		if msg.Err != nil {
			m.status = "Could not open browser: " + msg.Err.Error()
		} else {
			m.status = "Opened " + msg.URL
		}
		return m, nil

	case clipboard.CopiedMsg:
		if msg.Err != nil {
			m.status = "Copy failed: " + msg.Err.Error()
		} else {
			m.status = "Copied " + msg.Text
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.fuzzy.IsEditing() {
		switch msg.Type {
		case tea.KeyEsc:
			m.fuzzy.Deactivate()
			m.cursor = 0
			m.rebuild()
			return m, nil
		case tea.KeyEnter:
			m.fuzzy.Lock()
			return m, nil
		}
		cmd := m.fuzzy.Update(msg)
		m.cursor = 0
		m.rebuild()
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.state.Status != view.StatusReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Filter):
		if m.fuzzy.IsActive() {
			return m, m.fuzzy.Unlock()
		}
		return m, m.fuzzy.Activate()

	case key.Matches(msg, m.keys.ClearFilter):
		if m.fuzzy.IsActive() {
			m.fuzzy.Deactivate()
			m.cursor = 0
			m.rebuild()
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)

	case key.Matches(msg, m.keys.Open):
		if c, ok := m.selected(); ok && c.record.PageURL != "" {
			return m, m.openLink(c.record.PageURL)
		}
	case key.Matches(msg, m.keys.Copy):
		if c, ok := m.selected(); ok && c.record.PageURL != "" && m.opts.Clipboard != nil {
			return m, m.opts.Clipboard.Write(c.record.PageURL)
		}
	}

	return m, nil
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 10)
	m.viewport.Height = max(height-chromeHeight, 3)
	m.fuzzy.SetWidth(width)
}

func (m Model) selected() (card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return card{}, false
	}
	return m.cards[m.cursor], true
}

// moveCursor moves by whole grid rows or by single cards within the flattened order
func (m *Model) moveCursor(dRow, dCol int) {
	if len(m.cards) == 0 {
		return
	}

	if dCol != 0 {
		m.cursor = min(max(m.cursor+dCol, 0), len(m.cards)-1)
		m.render()
		return
	}

	row, col := m.position(m.cursor)
	target := min(max(row+dRow, 0), len(m.rows)-1)
	if target != row {
		m.cursor = m.rows[target][min(col, len(m.rows[target])-1)]
	}
	m.render()
}

func (m Model) position(cardIndex int) (int, int) {
	for r, row := range m.rows {
		for c, idx := range row {
			if idx == cardIndex {
				return r, c
			}
		}
	}
	return 0, 0
}

func (m Model) openLink(url string) tea.Cmd {
	open := m.opts.OpenURL
	return func() tea.Msg {
		if open == nil {
			return LinkOpenedMsg{URL: url, Err: errNoOpener}
		}
		return LinkOpenedMsg{URL: url, Err: open(url)}
	}
}

// probeImages checks every distinct image URL once, at most maxProbes at a time.
// Empty URLs fail without a request.
func (m Model) probeImages() tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range m.state.Records {
		url := r.ImageURL
		if url == "" {
			continue
		}
		if _, seen := m.images[url]; seen {
			continue
		}
		m.images[url] = imagePending
		if m.opts.Images == nil {
			continue
		}
		cmds = append(cmds, m.probeImage(url))
	}
	return tea.Batch(cmds...)
}

func (m Model) probeImage(url string) tea.Cmd {
	ctx, checker, sem := m.ctx, m.opts.Images, m.probes
	return func() tea.Msg {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ImageCheckedMsg{URL: url, Err: ctx.Err()}
		}
		defer func() { <-sem }()
		return ImageCheckedMsg{URL: url, Err: checker.CheckImage(ctx, url)}
	}
}
