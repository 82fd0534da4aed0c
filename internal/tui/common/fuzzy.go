package common

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/justchokingaround/watchlist/internal/tui/styles"
)

// FuzzySearch is a title filter for the watchlist grid
type FuzzySearch struct {
	input  textinput.Model
	active bool
	locked bool // filter applied but not editable, so navigation keys work
	query  string
}

// NewFuzzySearch creates a new fuzzy search component
func NewFuzzySearch() *FuzzySearch {
	ti := textinput.New()
	ti.Placeholder = "Type to filter titles..."
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.TextStyle = styles.FilterQueryStyle
	ti.PlaceholderStyle = styles.HelpStyle

	return &FuzzySearch{input: ti}
}

// Activate starts editing a new filter
func (f *FuzzySearch) Activate() tea.Cmd {
	f.active = true
	f.locked = false
	f.input.SetValue("")
	f.query = ""
	f.input.Focus()
	return textinput.Blink
}

// Deactivate drops the filter
func (f *FuzzySearch) Deactivate() {
	f.active = false
	f.locked = false
	f.input.Blur()
	f.input.SetValue("")
	f.query = ""
}

// Lock keeps the filter applied and returns keys to the grid
func (f *FuzzySearch) Lock() {
	if f.active {
		f.locked = true
		f.input.Blur()
	}
}

// Unlock resumes editing the current filter
func (f *FuzzySearch) Unlock() tea.Cmd {
	if !f.active {
		return nil
	}
	f.locked = false
	f.input.Focus()
	return textinput.Blink
}

// IsActive returns whether a filter is applied
func (f *FuzzySearch) IsActive() bool {
	return f.active
}

// IsEditing returns whether keystrokes go to the filter input
func (f *FuzzySearch) IsEditing() bool {
	return f.active && !f.locked
}

// Query returns the current filter text
func (f *FuzzySearch) Query() string {
	return f.query
}

// SetWidth sets the width of the filter input
func (f *FuzzySearch) SetWidth(width int) {
	f.input.Width = max(width-30, 10)
}

// Update forwards input while editing
func (f *FuzzySearch) Update(msg tea.Msg) tea.Cmd {
	if !f.IsEditing() {
		return nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.query = f.input.Value()
	return cmd
}

// View renders the filter line, empty when inactive
func (f *FuzzySearch) View() string {
	if !f.active {
		return ""
	}

	label := styles.FilterLabelStyle.Render("Filter: ")
	if f.locked {
		return label + styles.FilterQueryStyle.Render(f.query) +
			styles.HelpStyle.Render("  (/ to edit • esc to clear)")
	}
	return label + f.input.View() + styles.HelpStyle.Render("  (enter to apply • esc to clear)")
}

// Filter returns the indices of items matching the query, in their original order.
// With no query every index is returned.
func (f *FuzzySearch) Filter(items []string) []int {
	if !f.active || f.query == "" {
		indices := make([]int, len(items))
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	matches := fuzzy.Find(f.query, items)
	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	sort.Ints(indices)
	return indices
}
