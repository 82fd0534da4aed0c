package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/justchokingaround/watchlist/internal/anime"
	"github.com/justchokingaround/watchlist/internal/view"
)

func sampleState() view.State {
	return view.Ready([]anime.Record{
		{ID: "1", Title: "Trigun", PageURL: "https://mal/6", Genres: []string{"Sci-Fi", "Action"}},
		{ID: "2", Title: "Haibane Renmei", PageURL: "https://mal/387"},
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatText))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Total Anime: 2\n"))
	action := strings.Index(out, "Action (1)")
	scifi := strings.Index(out, "Sci-Fi (1)")
	unknown := strings.Index(out, "Unknown (1)")
	assert.True(t, action >= 0 && action < scifi && scifi < unknown, out)
}

func TestWrite_TextLargeTotal(t *testing.T) {
	records := make([]anime.Record, 1500)
	for i := range records {
		records[i] = anime.Record{Title: "x"}
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, view.Ready(records), FormatText))
	assert.Contains(t, buf.String(), "Total Anime: 1,500")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatJSON))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "ready", doc.Status)
	assert.Equal(t, 2, doc.Total)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "Action", doc.Sections[0].Genre)
	assert.Equal(t, "Trigun", doc.Sections[0].Records[0].Title)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), FormatYAML))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, []string{"Action", "Sci-Fi", "Unknown"}, []string{
		doc.Sections[0].Genre, doc.Sections[1].Genre, doc.Sections[2].Genre,
	})
}

func TestWrite_ErrorState(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, view.Failed("Failed to fetch anime list"), FormatText)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotReady))
	assert.Equal(t, "Error: Failed to fetch anime list\n", buf.String())
}
