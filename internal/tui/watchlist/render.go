package watchlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/tui/styles"
	"github.com/justchokingaround/watchlist/internal/tui/utils"
	"github.com/justchokingaround/watchlist/internal/view"
)

var errNoOpener = errors.New("no browser configured")

const titleLines = 2

// View renders the model
func (m Model) View() string {
	switch m.state.Status {
	case view.StatusLoading:
		return styles.LoadingStyle.Render(m.spinner.View() + " Loading your anime watchlist...")
	case view.StatusError:
		return styles.ErrorStyle.Render("❌ Error: " + m.state.Message)
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("📺 Anime Watchlist"))
	b.WriteString("\n\n")

	b.WriteString(styles.TotalStyle.Render("Total Anime: " + humanize.Comma(int64(m.state.Total()))))
	if m.fuzzy.IsActive() && m.fuzzy.Query() != "" {
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("  (%d shown)", len(m.cards))))
	}
	b.WriteString("\n")
	b.WriteString(m.fuzzy.View())
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	b.WriteString(styles.HelpStyle.Render(m.keys.ShortHelp()))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusStyle.Render(utils.Fit(m.status, max(m.width-4, 10))))
	}

	return styles.AppStyle.Render(b.String())
}

// rebuild regroups the (filtered) records, lays out the grid and renders it
func (m *Model) rebuild() {
	if m.state.Status != view.StatusReady {
		return
	}

	if m.fuzzy.IsActive() && m.fuzzy.Query() != "" {
		titles := make([]string, len(m.state.Records))
		for i, r := range m.state.Records {
			titles[i] = r.Title
		}
		matched := m.fuzzy.Filter(titles)
		records := make([]anime.Record, len(matched))
		for i, idx := range matched {
			records[i] = m.state.Records[idx]
		}
		m.sections = anime.Group(records).Sections()
	} else {
		m.sections = m.state.Grouping().Sections()
	}

	cols := m.columns()
	m.cards = nil
	m.rows = nil
	for _, section := range m.sections {
		for start := 0; start < len(section.Records); start += cols {
			end := min(start+cols, len(section.Records))
			row := make([]int, 0, end-start)
			for _, r := range section.Records[start:end] {
				row = append(row, len(m.cards))
				m.cards = append(m.cards, card{genre: section.Genre, record: r})
			}
			m.rows = append(m.rows, row)
		}
	}
	if m.cursor >= len(m.cards) {
		m.cursor = max(len(m.cards)-1, 0)
	}

	m.render()
}

// columns is the number of cards that fit across the viewport
func (m Model) columns() int {
	outer := m.opts.CardWidth + 1 // card margin
	return max(m.viewport.Width/outer, 1)
}

// render draws the grid into the viewport and keeps the selected card visible
func (m *Model) render() {
	if m.state.Status != view.StatusReady {
		return
	}

	if len(m.sections) == 0 {
		empty := ""
		if m.fuzzy.IsActive() && m.fuzzy.Query() != "" {
			empty = styles.HelpStyle.Render("No titles match the filter")
		}
		m.viewport.SetContent(empty)
		m.viewport.SetYOffset(0)
		return
	}

	var lines []string
	selectedTop, selectedBottom := -1, -1
	rowIndex := 0
	for _, section := range m.sections {
		lines = append(lines, strings.Split(styles.SectionHeaderStyle.Render(section.Genre), "\n")...)

		sectionRows := (len(section.Records) + m.columns() - 1) / m.columns()
		for i := 0; i < sectionRows; i++ {
			row := m.rows[rowIndex]
			rowIndex++

			rendered := make([]string, len(row))
			for j, idx := range row {
				rendered[j] = m.renderCard(m.cards[idx], idx == m.cursor)
			}
			block := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

			for _, idx := range row {
				if idx == m.cursor {
					selectedTop = len(lines)
					selectedBottom = selectedTop + lipgloss.Height(block)
				}
			}
			lines = append(lines, strings.Split(block, "\n")...)
		}
	}

	m.viewport.SetContent(strings.Join(lines, "\n"))

	if selectedTop >= 0 {
		if selectedTop < m.viewport.YOffset {
			m.viewport.SetYOffset(selectedTop)
		} else if selectedBottom > m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(selectedBottom - m.viewport.Height)
		}
	}
}

// renderCard draws one card: image reference, title, page link
func (m Model) renderCard(c card, selected bool) string {
	inner := m.opts.CardWidth - 4 // border and padding

	image := styles.CardImageStyle.Render("img " + utils.Fit(c.record.ImageURL, inner-4))
	if m.imageFailed(c.record.ImageURL) {
		image = styles.CardFallbackStyle.Render("img " + utils.Fit(m.opts.FallbackImage, inner-4))
	}

	title := utils.Wrap(c.record.Title, inner, titleLines)
	for len(title) < titleLines {
		title = append(title, "")
	}
	for i, line := range title {
		title[i] = styles.CardTitleStyle.Render(utils.Fit(line, inner))
	}

	link := styles.URLStyle.Render(utils.Fit(c.record.PageURL, inner))

	body := lipgloss.JoinVertical(lipgloss.Left, append(append([]string{image}, title...), link)...)

	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}
	return style.Width(inner + 2).Render(body)
}

func (m Model) imageFailed(url string) bool {
	if url == "" {
		return true
	}
	return m.images[url] == imageFailed
}
