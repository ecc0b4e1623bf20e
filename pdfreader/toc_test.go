package pdfreader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActiveSectionFindsDeepestMatch(t *testing.T) {
	entries := []TocEntry{
		{Title: "Part One", Page: 0, Children: []TocEntry{
			{Title: "Chapter 1", Page: 0},
			{Title: "Chapter 2", Page: 10},
		}},
		{Title: "Part Two", Page: 20},
	}

	title, ok := ActiveSection(entries, 12)
	require.True(t, ok)
	require.Equal(t, "Chapter 2", title)

	title, ok = ActiveSection(entries, 25)
	require.True(t, ok)
	require.Equal(t, "Part Two", title)
}

func TestActiveSectionBeforeFirstEntry(t *testing.T) {
	entries := []TocEntry{{Title: "Introduction", Page: 5}}
	_, ok := ActiveSection(entries, 0)
	require.False(t, ok)
}
