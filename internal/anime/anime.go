// Package anime holds the anime record model and the genre grouping.
package anime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one catalog entry as served by the anime-list API
type Record struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	ImageURL string   `json:"imageUrl" yaml:"imageUrl"`
	PageURL  string   `json:"pageUrl" yaml:"pageUrl"`
	Genres   []string `json:"genres" yaml:"genres"`
}

// wireRecord accepts both the upstream field names (mal_id, image, url)
// and the canonical ones.
type wireRecord struct {
	ID       json.RawMessage `json:"id"`
	MalID    json.RawMessage `json:"mal_id"`
	Title    string          `json:"title"`
	ImageURL string          `json:"imageUrl"`
	Image    string          `json:"image"`
	PageURL  string          `json:"pageUrl"`
	URL      string          `json:"url"`
	Genres   []*wireGenre    `json:"genres"`
}

// wireGenre is either a bare string or an object with a name field.
// A null entry decodes to a nil *wireGenre.
type wireGenre string

func (g *wireGenre) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*g = wireGenre(obj.Name)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("genre must be a string or an object with a name: %w", err)
	}
	*g = wireGenre(s)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	if id == "" {
		if id, err = decodeID(w.MalID); err != nil {
			return err
		}
	}

	*r = Record{
		ID:       id,
		Title:    w.Title,
		ImageURL: firstNonEmpty(w.ImageURL, w.Image),
		PageURL:  firstNonEmpty(w.PageURL, w.URL),
	}
	// null genre entries are dropped; a record left with none goes to Unknown
	for _, g := range w.Genres {
		if g != nil {
			r.Genres = append(r.Genres, string(*g))
		}
	}
	return nil
}

// decodeID keeps the identifier opaque: numbers keep their literal text
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or a number: %w", err)
	}
	return n.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
