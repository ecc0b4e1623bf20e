package textreader

import (
	"strings"

	"github.com/bugzmanov/bookokrat/search"
)

// ChapterSearchMatch is one in-chapter search hit, addressed by wrapped
// line index plus a half-open rune column range within that line.
type ChapterSearchMatch struct {
	LineIndex int
	CharStart int
	CharEnd   int
}

// ChapterSearchState is the in-chapter ('/') search popup: the query being
// typed, the committed matches and which one is current. It wraps
// search.Engine's narrow "scope" search rather than the book-wide index,
// since a chapter search only ever looks at the currently rendered chapter.
type ChapterSearchState struct {
	Active bool
	Query  string

	Matches    []ChapterSearchMatch
	CurrentIdx int

	preSearchScroll int
}

// Open begins typing a query, remembering scrollOffset so Cancel can
// restore the pre-search viewport.
func (s *ChapterSearchState) Open(scrollOffset int) {
	s.Active = true
	s.preSearchScroll = scrollOffset
}

// Cancel aborts input without committing a query, returning the scroll
// offset to restore.
func (s *ChapterSearchState) Cancel() int {
	s.Active = false
	return s.preSearchScroll
}

// Commit runs query against lines using engine's scope search and stores
// the results, closing the input popup.
func (s *ChapterSearchState) Commit(engine *search.Engine, lines []search.Line, query string) {
	s.Query = query
	engine.SetScope(lines)
	matches := engine.SearchScope(query)
	s.Matches = make([]ChapterSearchMatch, len(matches))
	for i, m := range matches {
		s.Matches[i] = ChapterSearchMatch{LineIndex: m.LineIndex, CharStart: m.Start, CharEnd: m.End}
	}
	s.CurrentIdx = 0
	s.Active = false
}

// Clear resets all search state, e.g. on chapter change.
func (s *ChapterSearchState) Clear() {
	*s = ChapterSearchState{}
}

func (s *ChapterSearchState) HasMatches() bool {
	return len(s.Matches) > 0
}

func (s *ChapterSearchState) Current() (ChapterSearchMatch, bool) {
	if !s.HasMatches() {
		return ChapterSearchMatch{}, false
	}
	return s.Matches[s.CurrentIdx], true
}

// NextMatch advances to the next match, wrapping around.
func (s *ChapterSearchState) NextMatch() (ChapterSearchMatch, bool) {
	if !s.HasMatches() {
		return ChapterSearchMatch{}, false
	}
	s.CurrentIdx = (s.CurrentIdx + 1) % len(s.Matches)
	return s.Matches[s.CurrentIdx], true
}

// PrevMatch steps back to the previous match, wrapping around.
func (s *ChapterSearchState) PrevMatch() (ChapterSearchMatch, bool) {
	if !s.HasMatches() {
		return ChapterSearchMatch{}, false
	}
	s.CurrentIdx = (s.CurrentIdx - 1 + len(s.Matches)) % len(s.Matches)
	return s.Matches[s.CurrentIdx], true
}

// NormalizeGlobalQuery strips a surrounding pair of double quotes a
// book-wide search result hands off to in-chapter search (the book index
// quotes exact phrases; the in-chapter search takes the bare phrase).
func NormalizeGlobalQuery(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}

// JumpToMatch moves the cursor to m and scrolls it into view, entering
// normal mode if it is not already active.
func (r *Reader) JumpToMatch(m ChapterSearchMatch) {
	if !r.NormalMode.Active {
		r.NormalMode.Activate(m.LineIndex, m.CharStart)
	} else {
		r.NormalMode.Cursor = CursorPosition{Line: m.LineIndex, Column: m.CharStart}
	}
	r.ensureCursorVisible()
}
