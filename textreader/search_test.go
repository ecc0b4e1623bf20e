package textreader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/search"
)

func TestChapterSearchOpenCancelRestoresScroll(t *testing.T) {
	var s ChapterSearchState
	s.Open(7)
	require.True(t, s.Active)
	restored := s.Cancel()
	require.False(t, s.Active)
	require.Equal(t, 7, restored)
}

func TestChapterSearchCommitAndNavigate(t *testing.T) {
	var s ChapterSearchState
	engine := search.NewEngine(nil)
	lines := []search.Line{
		{Kind: search.LineEpub, Text: "the quick fox"},
		{Kind: search.LineEpub, Text: "jumps over the fence"},
		{Kind: search.LineEpub, Text: "the end"},
	}
	s.Commit(engine, lines, "the")
	require.False(t, s.Active)
	require.True(t, s.HasMatches())
	require.Len(t, s.Matches, 3)

	first, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, 0, first.LineIndex)

	next, ok := s.NextMatch()
	require.True(t, ok)
	require.Equal(t, 1, next.LineIndex)

	next, ok = s.NextMatch()
	require.True(t, ok)
	require.Equal(t, 2, next.LineIndex)

	wrapped, ok := s.NextMatch()
	require.True(t, ok)
	require.Equal(t, 0, wrapped.LineIndex)

	prev, ok := s.PrevMatch()
	require.True(t, ok)
	require.Equal(t, 2, prev.LineIndex)
}

func TestChapterSearchNoMatches(t *testing.T) {
	var s ChapterSearchState
	engine := search.NewEngine(nil)
	lines := []search.Line{{Kind: search.LineEpub, Text: "hello"}}
	s.Commit(engine, lines, "zzz")
	require.False(t, s.HasMatches())
	_, ok := s.Current()
	require.False(t, ok)
}

func TestChapterSearchClear(t *testing.T) {
	var s ChapterSearchState
	s.Open(3)
	s.Query = "x"
	s.Clear()
	require.False(t, s.Active)
	require.Equal(t, "", s.Query)
	require.Nil(t, s.Matches)
}

func TestNormalizeGlobalQuery(t *testing.T) {
	require.Equal(t, "hello world", NormalizeGlobalQuery(`"hello world"`))
	require.Equal(t, "bare", NormalizeGlobalQuery("bare"))
	require.Equal(t, `"`, NormalizeGlobalQuery(`"`))
}

func TestJumpToMatchActivatesNormalMode(t *testing.T) {
	r := newTestReader(StringLines{"one", "two", "three", "four", "five"}, 3)
	m := ChapterSearchMatch{LineIndex: 3, CharStart: 1, CharEnd: 3}
	r.JumpToMatch(m)
	require.True(t, r.NormalMode.Active)
	require.Equal(t, 3, r.NormalMode.Cursor.Line)
	require.Equal(t, 1, r.NormalMode.Cursor.Column)
}
