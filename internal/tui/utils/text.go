package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fit truncates text to maxWidth display cells, ending with "…" when cut,
// and pads it with spaces to exactly maxWidth.
func Fit(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	text = runewidth.Truncate(text, maxWidth, "…")
	return runewidth.FillRight(text, maxWidth)
}

// Wrap breaks text at word boundaries into at most maxLines lines of maxWidth cells.
// Words wider than a line are cut. The last kept line ends with "…" if text remains.
func Wrap(text string, maxWidth, maxLines int) []string {
	if maxWidth <= 0 || maxLines <= 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		currentWidth = 0
	}

	words := strings.Fields(text)
	for i, word := range words {
		word = runewidth.Truncate(word, maxWidth, "…")
		w := runewidth.StringWidth(word)

		if currentWidth > 0 && currentWidth+1+w > maxWidth {
			flush()
			if len(lines) == maxLines {
				rest := lines[maxLines-1] + " " + strings.Join(words[i:], " ")
				cut := strings.TrimRight(runewidth.Truncate(rest, maxWidth-1, ""), " ")
				lines[maxLines-1] = cut + "…"
				return lines
			}
		}
		if currentWidth > 0 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += w
	}
	if currentWidth > 0 {
		flush()
	}

	return lines
}
