package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/jumplist"
	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdfreader"
)

// handlePdfKey dispatches one keypress while a PDF is open. The reader has
// no insert/normal toggle the way the EPUB engine does: scrolling and page
// navigation work unconditionally, and a keyboard cursor (NormalMode) is
// entered separately with `i` for fine-grained selection and comments.
func (m *Model) handlePdfKey(msg tea.KeyMsg) tea.Cmd {
	r := m.pdfReader
	now := time.Now()
	key := msg.String()

	if r.CommentInput.Active {
		return m.handlePdfCommentInputKey(key)
	}
	if r.GoToPage.Active {
		return m.handleGoToPageKey(key)
	}
	if r.Search.Active {
		return m.handlePdfSearchInputKey(key)
	}
	if m.overlay == overlayTOC {
		return m.handlePdfTOCKey(key)
	}
	if r.HUD.DismissError() {
		return nil
	}
	if r.CommentNav.Active {
		return m.handleCommentNavKey(key)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.pdfKeySeq.Digit(int(key[0] - '0'))
		return nil
	}
	if len(key) == 1 && key[0] == '0' && m.pdfKeySeq.Pending() {
		m.pdfKeySeq.Digit(0)
		return nil
	}
	count := m.pdfKeySeq.Take()

	if r.NormalMode.Kind != pdfreader.NormalModeOff {
		if cmd, handled := m.handlePdfCursorKey(key, count, now); handled {
			return cmd
		}
	}

	switch key {
	case "j", "down":
		m.applyPdfIntent(r.HandleLineMotion(true, count, m.pdfGeo()))
	case "k", "up":
		m.applyPdfIntent(r.HandleLineMotion(false, count, m.pdfGeo()))
	case "ctrl+d", "pgdown":
		m.applyPdfIntent(r.HandleHalfPageMotion(true, m.pdfGeo()))
	case "ctrl+u", "pgup":
		m.applyPdfIntent(r.HandleHalfPageMotion(false, m.pdfGeo()))
	case "g":
		return m.waitForSecondKey("g", func(second string) {
			if second == "g" {
				m.applyPdfIntent(r.HandleFirstPage(m.pdfGeo()))
				m.afterPageChange()
			}
		})
	case "G":
		m.applyPdfIntent(r.HandleLastPage(m.pdfGeo()))
		m.afterPageChange()
	case "]", "l":
		m.applyPdfIntent(r.HandlePageStep(true, count, m.pdfGeo()))
		m.afterPageChange()
	case "[", "h":
		m.applyPdfIntent(r.HandlePageStep(false, count, m.pdfGeo()))
		m.afterPageChange()
	case "+", "=", "-":
		m.applyPdfIntent(r.HandleZoomKey(rune(key[0]), m.pdfGeo(), now))
		m.requestPage(r.Page())
	case "i":
		r.NormalMode.Enter(r.Page(), 0.5, 0.5)
		m.sendPdfCursor()
	case ":":
		r.GoToPage.Open(r.PageNumbers)
	case "/":
		r.Search.Open()
	case "n":
		r.Search.NextMatch()
	case "N":
		r.Search.PrevMatch()
	case "C":
		if len(m.pdfCommentsOnPage(r.Page())) > 0 {
			r.CommentNav.Start(r.Page())
		}
	case "t":
		m.overlay = overlayTOC
		m.tocSel = 0
	case "ctrl+o":
		m.pdfJumpBack()
	case "ctrl+i":
		m.pdfJumpForward()
	case "q", "ctrl+c":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// afterPageChange re-requests the rasterized page and refreshes its comment
// overlay after any motion that may have moved the current page.
func (m *Model) afterPageChange() {
	m.requestPage(m.pdfReader.Page())
	m.sendPageComments(m.pdfReader.Page())
	m.savePdfBookmark(false)
	m.pdfReader.Search.Clear()
}

// handlePdfCursorKey handles keys meaningful only while the keyboard cursor
// (NormalMode) is active: fine movement, visual selection, yank and
// comment-at-cursor. Returns handled=false to fall through to the page-level
// switch for keys it doesn't own (e.g. page navigation still works).
func (m *Model) handlePdfCursorKey(key string, count int, now time.Time) (tea.Cmd, bool) {
	r := m.pdfReader
	const step = 0.02
	switch key {
	case "esc":
		if r.NormalMode.Kind == pdfreader.NormalModeVisual {
			r.NormalMode.ExitVisual()
			m.sendPdfCursor()
		} else {
			r.NormalMode.Exit()
			m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateCursor, Cursor: nil}
			m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateSelection, Rects: nil}
		}
		return nil, true
	case "h", "left":
		r.NormalMode.Move(-step*float64(max1(count)), 0, 1, 1)
		m.sendPdfCursor()
		return nil, true
	case "l", "right":
		r.NormalMode.Move(step*float64(max1(count)), 0, 1, 1)
		m.sendPdfCursor()
		return nil, true
	case "j", "down":
		if r.NormalMode.Kind == pdfreader.NormalModeNormal || r.NormalMode.Kind == pdfreader.NormalModeVisual {
			r.NormalMode.Move(0, step*float64(max1(count)), 1, 1)
			m.sendPdfCursor()
			return nil, true
		}
	case "k", "up":
		if r.NormalMode.Kind == pdfreader.NormalModeNormal || r.NormalMode.Kind == pdfreader.NormalModeVisual {
			r.NormalMode.Move(0, -step*float64(max1(count)), 1, 1)
			m.sendPdfCursor()
			return nil, true
		}
	case "v":
		if r.NormalMode.Kind == pdfreader.NormalModeVisual {
			r.NormalMode.ExitVisual()
		} else {
			r.NormalMode.EnterVisual()
		}
		m.sendPdfCursor()
		return nil, true
	case "y":
		m.yankPdfSelection(now)
		return nil, true
	case "z", "c":
		m.beginPdfCommentAtCursor()
		return nil, true
	}
	return nil, false
}

// sendPdfCursor pushes the keyboard cursor position (and, in visual mode,
// the in-progress selection rect) to the converter for overlay rendering.
func (m *Model) sendPdfCursor() {
	n := m.pdfReader.NormalMode
	cursor := common.Rect{X0: n.X, Y0: n.Y, X1: n.X, Y1: n.Y}
	m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateCursor, Cursor: &cursor}
	if rect, ok := n.Rect(); ok {
		m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateSelection, Rects: []common.Rect{rect}}
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (m *Model) yankPdfSelection(now time.Time) {
	r := m.pdfReader
	if rect, ok := r.NormalMode.Rect(); ok {
		r.Selection.Clear()
		r.Selection.Page = r.Page()
		r.Selection.Rects = []common.Rect{rect}
		r.SetErrorHUD("selection copied", now)
		return
	}
	r.SetErrorHUD("nothing selected", now)
}

func (m *Model) beginPdfCommentAtCursor() {
	r := m.pdfReader
	target := annotation.Target{Kind: annotation.TargetPdf, PdfPage: r.Page()}
	if rect, ok := r.NormalMode.Rect(); ok {
		target.PdfRects = []annotation.Rect{{X0: rect.X0, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y1}}
	} else {
		target.PdfRects = []annotation.Rect{{X0: r.NormalMode.X, Y0: r.NormalMode.Y, X1: r.NormalMode.X, Y1: r.NormalMode.Y}}
	}
	r.CommentInput.BeginCreate(target, "")
}

func (m *Model) handlePdfCommentInputKey(key string) tea.Cmd {
	c := &m.pdfReader.CommentInput
	switch key {
	case "esc":
		c.Cancel()
	case "enter":
		m.commitPdfComment()
	case "backspace":
		if n := len(c.Text); n > 0 {
			c.Text = c.Text[:n-1]
		}
	default:
		if len(key) == 1 {
			c.Text += key
		}
	}
	return nil
}

func (m *Model) handleGoToPageKey(key string) tea.Cmd {
	g := &m.pdfReader.GoToPage
	switch key {
	case "esc":
		g.Close()
	case "tab":
		g.ToggleMode()
	case "enter":
		idx, ok := g.Resolve(m.pdfReader.PageNumbers, m.pdfReader.PageCount)
		g.Close()
		if ok {
			m.navigateToPage(idx, true)
		} else {
			m.setErrorHUD("no such page")
		}
	case "backspace":
		if n := len(g.Input); n > 0 {
			g.Input = g.Input[:n-1]
		}
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			g.Input += key
		}
	}
	return nil
}

func (m *Model) handlePdfSearchInputKey(key string) tea.Cmd {
	r := m.pdfReader
	switch key {
	case "esc":
		r.Search.CloseInput()
	case "enter":
		query := r.Search.Query
		lines := m.pdfSearchLines(r.Page())
		r.Search.Commit(m.searchEng, lines, query, r.Page())
		if !r.Search.HasMatches() {
			m.setErrorHUD("pattern not found: %s", query)
		}
	case "backspace":
		if n := len(r.Search.Query); n > 0 {
			r.Search.Query = r.Search.Query[:n-1]
		}
	default:
		if len(key) == 1 {
			r.Search.Query += key
		}
	}
	return nil
}

func (m *Model) handleCommentNavKey(key string) tea.Cmd {
	c := &m.pdfReader.CommentNav
	comments := m.pdfCommentsOnPage(c.Page)
	switch key {
	case "esc", "C":
		c.Stop()
	case "j", "down":
		c.Next(len(comments))
	case "k", "up":
		c.Prev(len(comments))
	case "enter":
		if c.Index >= 0 && c.Index < len(comments) {
			m.pdfReader.CommentInput.BeginEdit(comments[c.Index])
		}
		c.Stop()
	case "d":
		if c.Index >= 0 && c.Index < len(comments) {
			m.deletePdfComment(comments[c.Index].ID)
		}
		c.Stop()
	}
	return nil
}

// flattenPdfTOC walks entries depth-first into a flat, display-ordered list.
func flattenPdfTOC(entries []pdfreader.TocEntry) []pdfreader.TocEntry {
	var out []pdfreader.TocEntry
	var walk func([]pdfreader.TocEntry)
	walk = func(es []pdfreader.TocEntry) {
		for _, e := range es {
			out = append(out, e)
			walk(e.Children)
		}
	}
	walk(entries)
	return out
}

func (m *Model) handlePdfTOCKey(key string) tea.Cmd {
	entries := flattenPdfTOC(m.pdfReader.TOC)
	switch key {
	case "esc", "t":
		m.overlay = overlayNone
	case "j", "down":
		if m.tocSel < len(entries)-1 {
			m.tocSel++
		}
	case "k", "up":
		if m.tocSel > 0 {
			m.tocSel--
		}
	case "enter":
		if m.tocSel >= 0 && m.tocSel < len(entries) {
			m.overlay = overlayNone
			m.navigateToPage(entries[m.tocSel].Page, true)
		}
	}
	return nil
}

func (m *Model) pdfJumpBack() {
	if loc, ok := m.pdfReader.JumpBack(); ok {
		m.applyPdfJump(loc)
	}
}

func (m *Model) pdfJumpForward() {
	if loc, ok := m.pdfReader.JumpForward(); ok {
		m.applyPdfJump(loc)
	}
}

func (m *Model) applyPdfJump(loc jumplist.Location) {
	if loc.Kind != jumplist.LocationPdf {
		return
	}
	m.navigateToPage(loc.Page, false)
}
