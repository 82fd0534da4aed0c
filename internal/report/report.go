// Package report writes a settled watchlist state in machine or human readable form.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/view"
)

// Format names an output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Document is the serialized projection of a view state
type Document struct {
	Status   string          `json:"status" yaml:"status"`
	Message  string          `json:"message,omitempty" yaml:"message,omitempty"`
	Total    int             `json:"total" yaml:"total"`
	Sections []anime.Section `json:"sections" yaml:"sections"`
}

// NewDocument projects s. Sections are empty unless s is ready.
func NewDocument(s view.State) Document {
	doc := Document{
		Status:   s.Status.String(),
		Message:  s.Message,
		Total:    s.Total(),
		Sections: []anime.Section{},
	}
	if s.Status == view.StatusReady {
		doc.Sections = s.Grouping().Sections()
	}
	return doc
}

// ErrNotReady is returned by Write for a state that holds an error
var ErrNotReady = errors.New("watchlist is not ready")

// Write renders s to w in the given format. For an error state the document
// is still written and ErrNotReady is returned wrapped with the message.
func Write(w io.Writer, s view.State, format Format) error {
	doc := NewDocument(s)

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if closeErr := enc.Close(); err == nil {
			err = closeErr
		}
	default:
		err = writeText(w, doc)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if s.Status == view.StatusError {
		return fmt.Errorf("%w: %s", ErrNotReady, s.Message)
	}
	return nil
}

func writeText(w io.Writer, doc Document) error {
	if doc.Status == view.StatusError.String() {
		_, err := fmt.Fprintf(w, "Error: %s\n", doc.Message)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total Anime: %s\n", humanize.Comma(int64(doc.Total)))
	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "\n%s (%d)\n", section.Genre, len(section.Records))
		for _, r := range section.Records {
			fmt.Fprintf(&b, "  - %s  %s\n", r.Title, r.PageURL)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
