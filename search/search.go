// Package search implements a two-scope search engine: an in-chapter/in-page
// scope built once per reflow, and a book-wide index set by the caller, both
// searched case-insensitively as plain substrings; matches are not limited
// to word or sentence boundaries.
package search

import (
	"strings"
	"unicode"

	"github.com/bugzmanov/bookokrat/content/text"
)

// LineKind discriminates which document kind a Line was extracted from.
type LineKind int

const (
	LineEpub LineKind = iota
	LinePdf
)

// YBounds is a PDF line's vertical extent in page pixels.
type YBounds struct {
	Y0, Y1 float64
}

// Line is one searchable line of text, keyed either by EPUB node index or
// by PDF (page, line) coordinates.
type Line struct {
	Kind LineKind
	Text string

	NodeIndex int // meaningful when Kind == LineEpub

	PageIndex int // meaningful when Kind == LinePdf
	LineIndex int
	YBounds   YBounds
}

// Match is one occurrence of a query within a Line, addressed by column
// range (half-open, in runes) within Line.Text.
type Match struct {
	LineIndex int // index into the Lines slice that was searched
	Start     int
	End        int
}

// Engine holds the two search scopes: the narrow "current chapter/page"
// scope rebuilt on every reflow or page change, and the book-wide index
// built lazily on first book-wide search.
type Engine struct {
	splitter *text.Splitter

	scope []Line
	book  []Line
}

// NewEngine returns an Engine using splitter for sentence/word tokenization.
// A nil splitter is valid: callers that only need substring search can pass
// nil, and Words then falls back to a plain unicode-space split.
func NewEngine(splitter *text.Splitter) *Engine {
	return &Engine{splitter: splitter}
}

// SetScope replaces the narrow search scope (in-chapter for EPUB, in-page
// for PDF). Built once per reflow/page.
func (e *Engine) SetScope(lines []Line) {
	e.scope = lines
}

// SetBookIndex replaces the book-wide index. Nothing in the reader shell
// calls it: neither the EPUB nor the PDF reader builds a book-wide index,
// so SearchBook returns no matches unless a caller sets one here.
func (e *Engine) SetBookIndex(lines []Line) {
	e.book = lines
}

// BookIndexed reports whether a book-wide index has been built yet, so
// callers can decide whether to trigger the lazy PDF build.
func (e *Engine) BookIndexed() bool {
	return e.book != nil
}

// SearchScope searches the narrow scope. An empty query yields no matches.
func (e *Engine) SearchScope(query string) []Match {
	return search(e.scope, query)
}

// SearchBook searches the book-wide index.
func (e *Engine) SearchBook(query string) []Match {
	return search(e.book, query)
}

func search(lines []Line, query string) []Match {
	if query == "" {
		return nil
	}
	needle := []rune(strings.ToLower(query))
	var matches []Match
	for i, l := range lines {
		haystack := []rune(strings.ToLower(l.Text))
		for start := 0; start+len(needle) <= len(haystack); start++ {
			if runesEqual(haystack[start:start+len(needle)], needle) {
				matches = append(matches, Match{LineIndex: i, Start: start, End: start + len(needle)})
			}
		}
	}
	return matches
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Words returns the whitespace-delimited words of text, using the engine's
// splitter if one was supplied, otherwise a simple unicode-space split.
// Used by callers needing word-granular match boundaries (e.g. whole-word
// search modes) rather than raw substring matches.
func (e *Engine) Words(text string) []string {
	if e.splitter != nil {
		return e.splitter.SplitWords(text, true)
	}
	return strings.FieldsFunc(text, unicode.IsSpace)
}
