package app

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"

	"github.com/bugzmanov/bookokrat/bookmark"
	"github.com/bugzmanov/bookokrat/content/text"
	"github.com/bugzmanov/bookokrat/document"
	"github.com/bugzmanov/bookokrat/epub"
	"github.com/bugzmanov/bookokrat/reflow/layout"
	"github.com/bugzmanov/bookokrat/reflow/parse"
	"github.com/bugzmanov/bookokrat/search"
	"github.com/bugzmanov/bookokrat/textreader"
)

func (m *Model) openEPUB(path string) error {
	book, err := epub.Open(path, m.env.Log)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	m.book = book
	m.searchEng = search.NewEngine(text.NewSplitter(m.env.Log))
	m.textReader = textreader.New(m.readerConfig(), m.readerConfig().JumpListCapacity)

	idx := 0
	if bm, ok := m.bookmarks.Get(path); ok && bm.ChapterHref != "" {
		for i, sp := range book.Spine() {
			if sp.Href == bm.ChapterHref {
				idx = i
				break
			}
		}
	}
	return m.loadChapter(idx, false)
}

func (m *Model) hyphenator() *text.Hyphenator {
	lang := language.English
	if m.book != nil {
		if l, err := language.Parse(m.book.Metadata().Language); err == nil {
			lang = l
		}
	}
	return text.NewHyphenator(lang, m.env.Log)
}

// loadChapter parses and lays out the spine item at idx, swapping it into
// the live textreader.Reader. When recordJump is true and a chapter is
// already loaded, the current position is recorded in the jump list first.
// The new position is then saved as an unforced bookmark.
func (m *Model) loadChapter(idx int, recordJump bool) error {
	spine := m.book.Spine()
	if idx < 0 || idx >= len(spine) {
		return fmt.Errorf("chapter index %d out of range", idx)
	}
	href := spine[idx].Href

	if recordJump && m.textReader.ChapterHref != "" {
		m.textReader.RecordJump()
	}

	raw, err := m.book.Chapter(href)
	if err != nil {
		return fmt.Errorf("reading chapter %s: %w", href, err)
	}

	isSpine := func(h string) bool {
		for _, sp := range spine {
			if sp.Href == h {
				return true
			}
		}
		return false
	}
	doc, err := parse.Parse(raw, parse.Context{ChapterHref: href, IsSpineHref: isSpine, ExternalCSS: m.loadLinkedStylesheets(raw, href)})
	if err != nil {
		return fmt.Errorf("parsing chapter %s: %w", href, err)
	}
	if m.env.Rpt != nil && !m.dumpedChapters[href] {
		m.dumpedChapters[href] = true
		m.env.Rpt.StoreData(fmt.Sprintf("chapters/%s.tree.txt", href), []byte(doc.String()))
	}

	comments := m.annotations.ForChapter(m.path, href)
	width := m.textWidth()
	result := layout.Layout(doc, layout.Config{Width: width, Hyphenator: m.hyphenator()}, comments)

	m.chapterIdx = idx
	m.chapterDoc = newReflowedLines(result.Lines)
	m.searchEng.SetScope(toSearchLines(result.Lines))
	m.textReader.SetChapter(href, m.chapterDoc, m.visibleHeight())

	m.saveEpubBookmark(false)
	return nil
}

// textWidth is the reflow column width: terminal width minus the reading
// margin on both sides, clamped to a sane minimum.
func (m *Model) textWidth() int {
	margin := m.readerConfig().DefaultMargin
	w := m.width - margin*2
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) visibleHeight() int {
	h := m.height - 2 // status + hud line
	if h < 1 {
		h = 1
	}
	return h
}

func toSearchLines(lines []document.RenderedLine) []search.Line {
	out := make([]search.Line, len(lines))
	for i, ln := range lines {
		node := -1
		if ln.NodeIndex != nil {
			node = int(*ln.NodeIndex)
		}
		out[i] = search.Line{Kind: search.LineEpub, Text: ln.Raw, NodeIndex: node}
	}
	return out
}

// saveEpubBookmark records the reader's current chapter/position. force
// bypasses the store's write throttle.
func (m *Model) saveEpubBookmark(force bool) {
	chapters := len(m.book.Spine())
	node := m.textReader.NormalMode.Cursor.Line
	bm := bookmark.Bookmark{
		ChapterHref:   m.textReader.ChapterHref,
		NodeIndex:     &node,
		ChapterIndex:  &m.chapterIdx,
		TotalChapters: &chapters,
	}
	if err := m.bookmarks.Save(m.path, bm, force); err != nil && m.env.Log != nil {
		m.env.Log.Warn("saving bookmark", zap.Error(err))
	}
}

// nextChapter and prevChapter wrap to the adjacent spine item, returning
// false at the document's edges.
func (m *Model) nextChapter() bool {
	if m.chapterIdx+1 >= len(m.book.Spine()) {
		return false
	}
	return m.loadChapter(m.chapterIdx+1, true) == nil
}

func (m *Model) prevChapter() bool {
	if m.chapterIdx == 0 {
		return false
	}
	return m.loadChapter(m.chapterIdx-1, true) == nil
}

// openInternalLink resolves href (possibly chapter-relative, possibly with
// a #fragment) against the spine and jumps to it, scrolling to the anchored
// line within the destination chapter when a fragment is present.
func (m *Model) openInternalLink(href string) error {
	u, err := url.Parse(href)
	if err != nil {
		return err
	}
	base := u.Path
	if base == "" {
		base = m.textReader.ChapterHref
	}
	for i, sp := range m.book.Spine() {
		if sp.Href != base {
			continue
		}
		if i != m.chapterIdx {
			if err := m.loadChapter(i, true); err != nil {
				return err
			}
		}
		if u.Fragment != "" {
			m.jumpToAnchor(u.Fragment)
		}
		return nil
	}
	return fmt.Errorf("no chapter for link %q", href)
}

// jumpToAnchor scrolls the cursor to the rendered line carrying the given
// HTML id, if the current chapter has one.
func (m *Model) jumpToAnchor(id string) {
	for i := 0; i < m.chapterDoc.LineCount(); i++ {
		rl, ok := m.chapterDoc.at(i)
		if ok && rl.AnchorID == id {
			m.textReader.JumpToMatch(textreader.ChapterSearchMatch{LineIndex: i, CharStart: 0})
			return
		}
	}
}

// loadLinkedStylesheets scans raw for <link rel="stylesheet" href="..."> and
// returns the fetched bytes of each, resolved relative to chapterHref the same
// way the archive resolves manifest/TOC references. Errors fetching an
// individual stylesheet are logged and otherwise ignored; a missing or
// malformed stylesheet should not block chapter rendering.
func (m *Model) loadLinkedStylesheets(raw []byte, chapterHref string) [][]byte {
	root, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil
	}
	var sheets [][]byte
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Link {
			rel, href := "", ""
			for _, a := range n.Attr {
				switch a.Key {
				case "rel":
					rel = a.Val
				case "href":
					href = a.Val
				}
			}
			if strings.EqualFold(rel, "stylesheet") && href != "" {
				resolved := resolveChapterRelative(chapterHref, href)
				data, err := m.book.Resource(resolved)
				if err != nil {
					if m.env.Log != nil {
						m.env.Log.Warn("loading linked stylesheet", zap.String("href", resolved), zap.Error(err))
					}
				} else {
					sheets = append(sheets, data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sheets
}

// resolveChapterRelative joins href against basePath's directory, mirroring
// epub/archive.go's resolveRelativePath for resources referenced from chapter
// markup rather than from the package document.
func resolveChapterRelative(basePath, href string) string {
	if u, err := url.Parse(href); err == nil {
		href = u.Path
	}
	return path.Join(path.Dir(basePath), href)
}

// followLinkAtCursor jumps to the internal link under the normal-mode cursor,
// if any. Returns false (leaving the caller's fallback behavior in place)
// when the cursor sits on no link, or the link is external.
func (m *Model) followLinkAtCursor() bool {
	r := m.textReader
	if !r.NormalMode.Active {
		return false
	}
	cur := r.NormalMode.Cursor
	rl, ok := m.chapterDoc.at(cur.Line)
	if !ok {
		return false
	}
	for _, link := range rl.Links {
		if cur.Column < link.Start || cur.Column >= link.End {
			continue
		}
		if link.LinkType == document.LinkExternal {
			return false
		}
		if err := m.openInternalLink(link.URL); err != nil {
			if m.env.Log != nil {
				m.env.Log.Warn("following link", zap.String("url", link.URL), zap.Error(err))
			}
			return false
		}
		return true
	}
	return false
}

func (m *Model) runChapterSearch(query string) {
	lines := toSearchLines(m.chapterDoc.lines)
	m.textReader.Search.Commit(m.searchEng, lines, query)
	if match, ok := m.textReader.Search.Current(); ok {
		m.textReader.JumpToMatch(match)
	} else {
		m.textReader.SetErrorHUD("pattern not found: "+query, time.Now())
	}
}
