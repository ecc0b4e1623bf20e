package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/bugzmanov/bookokrat/content/text"
	"github.com/bugzmanov/bookokrat/document"
)

// tokenKind distinguishes a wrappable word from a forced line break.
type tokenKind int

const (
	tokWord tokenKind = iota
	tokHardBreak
)

// token is one wrappable unit pulled out of a run of document.Inline values.
// linkIdx indexes into the links slice returned alongside the tokens, or -1
// when the word is not part of a link.
type token struct {
	kind    tokenKind
	text    string
	style   document.Style
	linkIdx int
}

type linkInfo struct {
	url      string
	linkType document.LinkType
}

// tokenize flattens a run of inlines into words and hard breaks. InlineImage
// is split out by the caller before tokenize sees it; InlineAnchor and
// InlineSoftBreak carry no wrappable text and are skipped here.
func tokenize(inlines []document.Inline) ([]token, []linkInfo) {
	var tokens []token
	var links []linkInfo
	for _, in := range inlines {
		switch in.Kind {
		case document.InlineText:
			for _, w := range splitWords(in.Text) {
				tokens = append(tokens, token{kind: tokWord, text: w, style: in.Style, linkIdx: -1})
			}
		case document.InlineLink:
			idx := len(links)
			links = append(links, linkInfo{url: in.LinkURL, linkType: in.LinkType})
			for _, w := range splitWords(in.LinkText) {
				tokens = append(tokens, token{kind: tokWord, text: w, style: document.StyleNone, linkIdx: idx})
			}
		case document.InlineHardBreak:
			tokens = append(tokens, token{kind: tokHardBreak})
		}
	}
	return tokens, links
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, unicode.IsSpace)
}

// wrappedLine is one physical line produced by wrapTokens, still missing its
// block-relative indent/prefix and link URLs (resolved by the caller).
type wrappedLine struct {
	raw   string
	spans []document.Span
	links []linkRangeIdx
}

type linkRangeIdx struct {
	start, end int
	linkIdx    int
}

type wordEntry struct {
	style      document.Style
	linkIdx    int
	start, end int // rune offsets into the line's raw text
}

type lineBuilder struct {
	raw       strings.Builder
	cellWidth int
	runeLen   int
	entries   []wordEntry
}

func (lb *lineBuilder) addWord(word string, style document.Style, linkIdx int) {
	if lb.cellWidth > 0 {
		lb.raw.WriteByte(' ')
		lb.cellWidth++
		lb.runeLen++
	}
	start := lb.runeLen
	lb.raw.WriteString(word)
	lb.runeLen += utf8.RuneCountInString(word)
	lb.cellWidth += runewidth.StringWidth(word)
	lb.entries = append(lb.entries, wordEntry{style: style, linkIdx: linkIdx, start: start, end: lb.runeLen})
}

func (lb *lineBuilder) build() wrappedLine {
	runes := []rune(lb.raw.String())
	var spans []document.Span
	i := 0
	for i < len(lb.entries) {
		j := i
		style := lb.entries[i].style
		for j+1 < len(lb.entries) && lb.entries[j+1].style == style {
			j++
		}
		start, end := lb.entries[i].start, lb.entries[j].end
		spans = append(spans, document.Span{Text: string(runes[start:end]), Style: style})
		i = j + 1
	}

	var links []linkRangeIdx
	i = 0
	for i < len(lb.entries) {
		if lb.entries[i].linkIdx < 0 {
			i++
			continue
		}
		j := i
		for j+1 < len(lb.entries) && lb.entries[j+1].linkIdx == lb.entries[i].linkIdx {
			j++
		}
		links = append(links, linkRangeIdx{start: lb.entries[i].start, end: lb.entries[j].end, linkIdx: lb.entries[i].linkIdx})
		i = j + 1
	}

	return wrappedLine{raw: string(runes), spans: spans, links: links}
}

// wrapTokens greedily packs tokens into lines no wider than width display
// cells, hyphenating (or, failing that, hard-splitting) any single word that
// cannot fit on an empty line by itself.
func wrapTokens(tokens []token, width int, hyph *text.Hyphenator) []wrappedLine {
	if width < 1 {
		width = 1
	}
	var lines []wrappedLine
	cur := &lineBuilder{}
	flush := func() {
		lines = append(lines, cur.build())
		cur = &lineBuilder{}
	}

	for _, tok := range tokens {
		if tok.kind == tokHardBreak {
			flush()
			continue
		}
		wordWidth := runewidth.StringWidth(tok.text)
		spaceNeeded := 0
		if cur.cellWidth > 0 {
			spaceNeeded = 1
		}
		if cur.cellWidth > 0 && cur.cellWidth+spaceNeeded+wordWidth > width {
			flush()
		}
		if cur.cellWidth == 0 && wordWidth > width {
			pieces := packSyllables(syllables(tok.text, hyph), width)
			for i, piece := range pieces {
				if i > 0 {
					flush()
				}
				cur.addWord(piece, tok.style, tok.linkIdx)
			}
			continue
		}
		cur.addWord(tok.text, tok.style, tok.linkIdx)
	}
	if cur.cellWidth > 0 || len(lines) == 0 && len(tokens) > 0 {
		flush()
	}
	return lines
}

// syllables splits word at its soft-hyphen break points, falling back to the
// whole word as a single unbreakable syllable when no hyphenator is given.
// Every boundary between the returned pieces is a valid break point.
func syllables(word string, hyph *text.Hyphenator) []string {
	hyphenated := word
	if hyph != nil {
		hyphenated = hyph.Hyphenate(word)
	}
	return strings.Split(hyphenated, text.SOFTHYPHEN)
}

// packSyllables greedily fills lines up to width cells, inserting a visible
// "-" at any break it actually uses. A syllable wider than width on its own
// is hard-split by display width as a last resort.
func packSyllables(sylls []string, width int) []string {
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, s := range sylls {
		sw := runewidth.StringWidth(s)
		if curWidth > 0 && curWidth+sw > width {
			lines = append(lines, cur.String()+"-")
			cur.Reset()
			curWidth = 0
		}
		if sw > width {
			for _, chunk := range chunkByWidth(s, width) {
				lines = append(lines, chunk)
			}
			continue
		}
		cur.WriteString(s)
		curWidth += sw
	}
	if cur.Len() > 0 || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// chunkByWidth hard-splits s into pieces no wider than width display cells,
// used only when a single syllable still doesn't fit an empty line.
func chunkByWidth(s string, width int) []string {
	if width < 1 {
		return []string{s}
	}
	var out []string
	var cur []rune
	curWidth := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if curWidth+rw > width && curWidth > 0 {
			out = append(out, string(cur))
			cur = nil
			curWidth = 0
		}
		cur = append(cur, r)
		curWidth += rw
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// wrapPlainText wraps s (already plain, unstyled text, as found in table
// cells) into lines no wider than width display cells.
func wrapPlainText(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	words := splitWords(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}
	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if ww > width {
			if curWidth > 0 {
				flush()
			}
			lines = append(lines, chunkByWidth(w, width)...)
			continue
		}
		if curWidth > 0 && curWidth+1+ww > width {
			flush()
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(w)
		curWidth += ww
	}
	if cur.Len() > 0 {
		flush()
	}
	return lines
}
