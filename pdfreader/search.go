package pdfreader

import "github.com/bugzmanov/bookokrat/search"

// PageSearchMatch is one occurrence of a query on the current page, located
// by line index into that page's line_bounds and a character range within it.
type PageSearchMatch struct {
	LineIndex int
	CharStart int
	CharEnd   int
}

// PageSearchState is the in-page search state for `/`, `n`/`N` in PDF normal
// mode: invalidated whenever the current page changes.
type PageSearchState struct {
	Active      bool
	Query       string
	Matches     []PageSearchMatch
	CurrentIdx  int
	MatchesPage int
}

// Open activates the search input.
func (p *PageSearchState) Open() {
	p.Active = true
}

// CloseInput closes the input box without clearing an already-committed query.
func (p *PageSearchState) CloseInput() {
	p.Active = false
}

// Commit runs query against lines (already scoped to the current page) via
// engine, recording the match set for page.
func (p *PageSearchState) Commit(engine *search.Engine, lines []search.Line, query string, page int) {
	engine.SetScope(lines)
	matches := engine.SearchScope(query)
	p.Query = query
	p.MatchesPage = page
	p.CurrentIdx = 0
	p.Matches = make([]PageSearchMatch, len(matches))
	for i, m := range matches {
		p.Matches[i] = PageSearchMatch{LineIndex: m.LineIndex, CharStart: m.Start, CharEnd: m.End}
	}
	p.Active = false
}

// Clear drops the query and matches, e.g. because the page changed.
func (p *PageSearchState) Clear() {
	*p = PageSearchState{}
}

// HasMatches reports whether the current page has any match.
func (p *PageSearchState) HasMatches() bool {
	return len(p.Matches) > 0
}

// Current returns the selected match.
func (p *PageSearchState) Current() (PageSearchMatch, bool) {
	if len(p.Matches) == 0 {
		return PageSearchMatch{}, false
	}
	return p.Matches[p.CurrentIdx], true
}

// NextMatch and PrevMatch cycle the selected match, wrapping.
func (p *PageSearchState) NextMatch() {
	if len(p.Matches) == 0 {
		return
	}
	p.CurrentIdx = (p.CurrentIdx + 1) % len(p.Matches)
}

func (p *PageSearchState) PrevMatch() {
	if len(p.Matches) == 0 {
		return
	}
	p.CurrentIdx = (p.CurrentIdx - 1 + len(p.Matches)) % len(p.Matches)
}
