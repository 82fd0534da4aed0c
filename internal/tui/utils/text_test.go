package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	assert.Equal(t, "Aria      ", Fit("Aria", 10))
	assert.Equal(t, "Neon Gene…", Fit("Neon Genesis Evangelion", 10))
	assert.Equal(t, 10, runewidth.StringWidth(Fit("進撃の巨人 The Final Season", 10)))
	assert.Equal(t, "", Fit("anything", 0))
}

func TestWrap(t *testing.T) {
	t.Run("fits on one line", func(t *testing.T) {
		assert.Equal(t, []string{"Mushishi"}, Wrap("Mushishi", 20, 2))
	})

	t.Run("wraps on word boundaries", func(t *testing.T) {
		assert.Equal(t, []string{"Cowboy", "Bebop"}, Wrap("Cowboy Bebop", 8, 2))
	})

	t.Run("truncates the last line", func(t *testing.T) {
		lines := Wrap("The Melancholy of Haruhi Suzumiya", 12, 2)
		assert.Len(t, lines, 2)
		assert.Equal(t, "The", lines[0])
		assert.Equal(t, "Melancholy…", lines[1])
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Wrap("", 10, 2))
	})
}
