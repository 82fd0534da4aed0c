package watchlist

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/clipboard"
	"github.com/justchokingaround/watchlist/internal/view"
)

type fakeFetcher struct {
	records []anime.Record
	err     error
	calls   atomic.Int32
}

func (f *fakeFetcher) FetchAnimeList(ctx context.Context) ([]anime.Record, error) {
	f.calls.Add(1)
	return f.records, f.err
}

type fakeImages struct {
	broken map[string]bool
}

func (f fakeImages) CheckImage(ctx context.Context, url string) error {
	if f.broken[url] {
		return errors.New("404")
	}
	return nil
}

type fakeClipboard struct {
	copied []string
}

func (f *fakeClipboard) Write(text string) tea.Cmd {
	f.copied = append(f.copied, text)
	return func() tea.Msg { return clipboard.CopiedMsg{Text: text} }
}

func sampleRecords() []anime.Record {
	return []anime.Record{
		{ID: "1", Title: "Cowboy Bebop", ImageURL: "https://img/cb.jpg", PageURL: "https://mal/1", Genres: []string{"Sci-Fi", "Action"}},
		{ID: "2", Title: "Aria", ImageURL: "https://img/aria.jpg", PageURL: "https://mal/2"},
		{ID: "3", Title: "Trigun", ImageURL: "https://img/trigun.jpg", PageURL: "https://mal/3", Genres: []string{"Action"}},
	}
}

func newTestModel(t *testing.T, f *fakeFetcher, opts Options) Model {
	t.Helper()
	opts.Fetcher = f
	m := New(context.Background(), opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 200})
	return updated.(Model)
}

// load runs the fetch command the way the runtime would and feeds its result back
func load(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	msg := m.fetchAnime()()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_StartsLoading(t *testing.T) {
	f := &fakeFetcher{}
	m := newTestModel(t, f, Options{})

	assert.Equal(t, view.StatusLoading, m.State().Status)
	assert.Contains(t, m.View(), "Loading your anime watchlist...")
	assert.NotNil(t, m.Init())
	assert.Equal(t, int32(0), f.calls.Load(), "fetch runs only when the runtime executes the command")
}

func TestModel_Ready(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	m, _ := load(t, newTestModel(t, f, Options{}))

	require.Equal(t, view.StatusReady, m.State().Status)
	out := m.View()
	assert.Contains(t, out, "Anime Watchlist")
	assert.Contains(t, out, "Total Anime: 3")

	action := strings.Index(out, "Action")
	scifi := strings.Index(out, "Sci-Fi")
	unknown := strings.Index(out, "Unknown")
	assert.True(t, action >= 0 && action < scifi && scifi < unknown, "sections out of order:\n%s", out)

	// Cowboy Bebop fans out into Action and Sci-Fi
	assert.Equal(t, 2, strings.Count(out, "Cowboy Bebop"))
	assert.Len(t, m.cards, 4)
	assert.Equal(t, "Action", m.cards[0].genre)
	assert.Equal(t, "Cowboy Bebop", m.cards[0].record.Title)
	assert.Equal(t, "Trigun", m.cards[1].record.Title)
}

func TestModel_EmptyList(t *testing.T) {
	m, _ := load(t, newTestModel(t, &fakeFetcher{records: []anime.Record{}}, Options{}))

	assert.Equal(t, view.StatusReady, m.State().Status)
	assert.Contains(t, m.View(), "Total Anime: 0")
	assert.Empty(t, m.sections)
	assert.Empty(t, m.cards)
}

func TestModel_Error(t *testing.T) {
	f := &fakeFetcher{err: errors.New("Failed to fetch anime list")}
	m, _ := load(t, newTestModel(t, f, Options{}))

	assert.Equal(t, view.StatusError, m.State().Status)
	out := m.View()
	assert.Contains(t, out, "Error: Failed to fetch anime list")
	assert.NotContains(t, out, "Total Anime")
}

func TestModel_SettlesOnce(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	m, _ := load(t, newTestModel(t, f, Options{}))

	updated, _ := m.Update(AnimeLoadErrorMsg{Err: errors.New("late failure")})
	m = updated.(Model)
	assert.Equal(t, view.StatusReady, m.State().Status)

	updated, _ = m.Update(AnimeLoadedMsg{Records: nil})
	m = updated.(Model)
	assert.Equal(t, 3, m.State().Total())
}

func TestModel_ImageFallback(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	images := fakeImages{broken: map[string]bool{"https://img/aria.jpg": true}}
	m, cmd := load(t, newTestModel(t, f, Options{Images: images, FallbackImage: "/fallback.png"}))
	require.NotNil(t, cmd, "probes start once the list is ready")

	for _, url := range []string{"https://img/cb.jpg", "https://img/aria.jpg", "https://img/trigun.jpg"} {
		msg := m.probeImage(url)()
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}

	assert.Equal(t, view.StatusReady, m.State().Status)
	out := m.View()
	assert.Contains(t, out, "/fallback.png")
	assert.Contains(t, out, "Aria")
	assert.Equal(t, imageFailed, m.images["https://img/aria.jpg"])
	assert.Equal(t, imageOK, m.images["https://img/cb.jpg"])
}

func TestModel_MissingImageUsesFallback(t *testing.T) {
	f := &fakeFetcher{records: []anime.Record{{ID: "9", Title: "Kaiba"}}}
	m, _ := load(t, newTestModel(t, f, Options{FallbackImage: "/fallback.png"}))

	assert.Contains(t, m.View(), "/fallback.png")
}

func TestModel_Navigation(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	m, _ := load(t, newTestModel(t, f, Options{}))

	press := func(k tea.KeyMsg) {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}

	// Action row: [Cowboy Bebop, Trigun]; Sci-Fi row: [Cowboy Bebop]; Unknown row: [Aria]
	assert.Equal(t, 0, m.cursor)
	press(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cursor)
	press(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor, "down clamps to the shorter row")
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 3, m.cursor)
	press(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.cursor)
	press(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor)
	press(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.cursor)
}

func TestModel_OpenAndCopy(t *testing.T) {
	var opened []string
	clip := &fakeClipboard{}
	f := &fakeFetcher{records: sampleRecords()}
	m, _ := load(t, newTestModel(t, f, Options{
		Clipboard: clip,
		OpenURL: func(url string) error {
			opened = append(opened, url)
			return nil
		},
	}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, LinkOpenedMsg{URL: "https://mal/1"}, msg)
	assert.Equal(t, []string{"https://mal/1"}, opened)

	updated, _ := m.Update(msg)
	m = updated.(Model)
	assert.Contains(t, m.View(), "Opened https://mal/1")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.Equal(t, clipboard.CopiedMsg{Text: "https://mal/1"}, cmd())
	assert.Equal(t, []string{"https://mal/1"}, clip.copied)
}

func TestModel_Filter(t *testing.T) {
	f := &fakeFetcher{records: sampleRecords()}
	m, _ := load(t, newTestModel(t, f, Options{}))

	press := func(k tea.KeyMsg) {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("trigun")})
	press(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, m.cards, 1)
	assert.Equal(t, "Trigun", m.cards[0].record.Title)
	out := m.View()
	assert.Contains(t, out, "Total Anime: 3", "total ignores the filter")
	assert.Contains(t, out, "(1 shown)")
	assert.NotContains(t, out, "Aria")

	press(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.cards, 4)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
