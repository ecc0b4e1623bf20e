package app

import (
	"time"
	"unicode"

	tea "charm.land/bubbletea/v2"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/jumplist"
	"github.com/bugzmanov/bookokrat/textreader"
)

// handleEpubKey dispatches one keypress while an EPUB is open. It mirrors
// vim's grammar at a shallow level: a handful of keys enter normal mode,
// a leading digit accumulates a count, and most motions simply forward to
// the matching textreader.Reader method count times.
func (m *Model) handleEpubKey(msg tea.KeyMsg) tea.Cmd {
	r := m.textReader
	now := time.Now()
	key := msg.String()

	if r.CommentInput.Active {
		return m.handleCommentInputKey(key)
	}
	if r.Search.Active {
		return m.handleChapterSearchKey(key)
	}
	if m.overlay == overlayTOC {
		return m.handleTOCKey(key)
	}

	if r.HUD.DismissError() {
		return nil
	}

	if !r.NormalMode.Active {
		switch key {
		case "i", "v":
			r.ToggleNormalMode()
		case "j", "down":
			m.scrollChapter(1)
		case "k", "up":
			m.scrollChapter(-1)
		case "ctrl+d", "pgdown":
			m.scrollChapter(m.visibleHeight() / 2)
		case "ctrl+u", "pgup":
			m.scrollChapter(-m.visibleHeight() / 2)
		case "]", "l":
			if !m.nextChapter() {
				m.setErrorHUD("last chapter")
			}
		case "[", "h":
			if !m.prevChapter() {
				m.setErrorHUD("first chapter")
			}
		case "t":
			m.overlay = overlayTOC
			m.tocSel = 0
		case "/":
			r.Search.Open(r.ScrollOffset)
		case "ctrl+o":
			m.epubJumpBack()
		case "ctrl+i":
			m.epubJumpForward()
		case "q", "ctrl+c":
			m.quitting = true
			return tea.Quit
		}
		return nil
	}

	if len(key) == 1 && unicode.IsDigit(rune(key[0])) && !(key == "0" && !r.NormalMode.HasPendingCount()) {
		r.NormalMode.AppendCountDigit(int(key[0] - '0'))
		return nil
	}
	count := r.NormalMode.TakeCount()

	switch key {
	case "esc":
		if r.IsVisualActive() {
			r.ExitVisual()
		} else {
			r.ToggleNormalMode()
		}
	case "h", "left":
		repeat(count, r.MoveLeft)
	case "l", "right":
		repeat(count, r.MoveRight)
	case "j", "down":
		repeat(count, r.MoveDown)
	case "k", "up":
		repeat(count, r.MoveUp)
	case "w":
		repeat(count, r.WordForward)
	case "e":
		repeat(count, r.WordEnd)
	case "b":
		repeat(count, r.WordBackward)
	case "W":
		repeat(count, r.BigWordForward)
	case "0":
		r.LineStart()
	case "^":
		r.FirstNonWhitespace()
	case "$":
		r.LineEnd()
	case "{":
		repeat(count, r.ParagraphUp)
	case "}":
		repeat(count, r.ParagraphDown)
	case "g":
		return m.waitForSecondKey("g", func(second string) {
			if second == "g" {
				r.DocumentTop()
			}
		})
	case "G":
		r.DocumentBottom()
	case "ctrl+d":
		r.HalfPageDown()
	case "ctrl+u":
		r.HalfPageUp()
	case "v":
		if r.IsVisualActive() {
			r.ExitVisual()
		} else {
			r.EnterVisual(textreader.VisualChar)
		}
	case "V":
		if r.IsVisualActive() {
			r.ExitVisual()
		} else {
			r.EnterVisual(textreader.VisualLine)
		}
	case "f":
		r.SetPendingFind(textreader.PendingCharMotionFindForward)
	case "F":
		r.SetPendingFind(textreader.PendingCharMotionFindBackward)
	case "t":
		r.SetPendingFind(textreader.PendingCharMotionTillForward)
	case "T":
		r.SetPendingFind(textreader.PendingCharMotionTillBackward)
	case ";":
		r.RepeatLastFind()
	case "y":
		return m.waitForSecondKey("y", func(second string) { m.handleYank(second, count, now) })
	case "p":
		m.pasteYank()
	case "/":
		r.Search.Open(r.ScrollOffset)
	case "n":
		if match, ok := r.Search.NextMatch(); ok {
			r.JumpToMatch(match)
		}
	case "N":
		if match, ok := r.Search.PrevMatch(); ok {
			r.JumpToMatch(match)
		}
	case "z", "c":
		m.beginCommentAtCursor()
	case "enter":
		if !m.followLinkAtCursor() {
			r.RecordJump()
		}
	case "ctrl+o":
		m.epubJumpBack()
	case "ctrl+i":
		m.epubJumpForward()
	case "q", "ctrl+c":
		m.quitting = true
		return tea.Quit
	default:
		if r.HasPendingFind() && len(key) == 1 {
			r.ExecutePendingFind(rune(key[0]))
		}
	}
	return nil
}

func repeat(n int, fn func()) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		fn()
	}
}

func (m *Model) scrollChapter(delta int) {
	r := m.textReader
	max := r.Source.LineCount() - r.VisibleHeight
	if max < 0 {
		max = 0
	}
	off := r.ScrollOffset + delta
	if off < 0 {
		off = 0
	}
	if off > max {
		off = max
	}
	r.ScrollOffset = off
}

// waitForSecondKey stashes fn as the continuation for a two-key sequence
// ("gg", the yank operator's text-object suffix): Update consumes
// m.pendingSeq on the very next KeyMsg instead of passing it through the
// normal dispatch switch.
func (m *Model) waitForSecondKey(first string, fn func(second string)) tea.Cmd {
	m.pendingSeq = &pendingKeySeq{first: first, apply: fn}
	return nil
}

type pendingKeySeq struct {
	first string
	apply func(second string)
}

func (m *Model) handleYank(second string, count int, now time.Time) {
	r := m.textReader
	var text string
	var ok bool
	switch second {
	case "y":
		text, ok = r.YankLine(count, now)
	case "$":
		text, ok = r.YankToLineEnd(now)
	case "0":
		text, ok = r.YankToLineStart(now)
	case "^":
		text, ok = r.YankToFirstNonWhitespace(now)
	case "w":
		text, ok = r.YankWordForward(count, now)
	case "W":
		text, ok = r.YankBigWordForward(count, now)
	case "e":
		text, ok = r.YankWordEnd(count, now)
	case "b":
		text, ok = r.YankWordBackward(count, now)
	case "{":
		text, ok = r.YankParagraphUp(count, now)
	case "}":
		text, ok = r.YankParagraphDown(count, now)
	case "G":
		text, ok = r.YankToDocumentBottom(now)
	case "i":
		m.pendingSeq = &pendingKeySeq{first: "yi", apply: func(third string) { m.handleYankTextObject(third, true, count, now) }}
		return
	case "a":
		m.pendingSeq = &pendingKeySeq{first: "ya", apply: func(third string) { m.handleYankTextObject(third, false, count, now) }}
		return
	}
	if ok {
		m.setClipboard(text)
	}
}

func (m *Model) handleYankTextObject(obj string, inner bool, count int, now time.Time) {
	r := m.textReader
	var text string
	var ok bool
	switch obj {
	case "w":
		if inner {
			text, ok = r.YankInnerWord(now)
		} else {
			text, ok = r.YankAWord(now)
		}
	case "W":
		if inner {
			text, ok = r.YankInnerBigWord(now)
		} else {
			text, ok = r.YankABigWord(now)
		}
	case "p":
		if inner {
			text, ok = r.YankInnerParagraph(count, now)
		} else {
			text, ok = r.YankAParagraph(count, now)
		}
	case `"`:
		if inner {
			text, ok = r.YankInnerQuotes('"', now)
		} else {
			text, ok = r.YankAroundQuotes('"', now)
		}
	case "(", ")":
		if inner {
			text, ok = r.YankInnerBrackets('(', ')', now)
		} else {
			text, ok = r.YankAroundBrackets('(', ')', now)
		}
	}
	if ok {
		m.setClipboard(text)
	}
}

func (m *Model) pasteYank() {
	if m.clipboard != "" {
		m.textReader.SetErrorHUD("paste is not supported in a read-only book", time.Now())
	}
}

func (m *Model) setClipboard(text string) {
	m.clipboard = text
	m.textReader.SetErrorHUD("yanked", time.Now())
}

func (m *Model) epubJumpBack() {
	if loc, ok := m.textReader.JumpBack(); ok {
		m.applyEpubJump(loc)
	}
}

func (m *Model) epubJumpForward() {
	if loc, ok := m.textReader.JumpForward(); ok {
		m.applyEpubJump(loc)
	}
}

func (m *Model) applyEpubJump(loc jumplist.Location) {
	if loc.Kind != jumplist.LocationEpub {
		return
	}
	if loc.Chapter != m.textReader.ChapterHref {
		for i, sp := range m.book.Spine() {
			if sp.Href == loc.Chapter {
				_ = m.loadChapter(i, false)
				break
			}
		}
	}
	m.textReader.NormalMode.Activate(loc.Node, 0)
}

func (m *Model) handleTOCKey(key string) tea.Cmd {
	entries := m.book.TOC()
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
			entry := entries[m.tocSel]
			m.overlay = overlayNone
			if entry.SpineIndex != m.chapterIdx {
				_ = m.loadChapter(entry.SpineIndex, true)
			}
		}
	}
	return nil
}

func (m *Model) handleChapterSearchKey(key string) tea.Cmd {
	r := m.textReader
	switch key {
	case "esc":
		r.Search.Cancel()
	case "enter":
		query := r.Search.Query
		r.Search.Cancel()
		m.runChapterSearch(query)
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

func (m *Model) handleCommentInputKey(key string) tea.Cmd {
	c := &m.textReader.CommentInput
	switch key {
	case "esc":
		c.Cancel()
	case "enter":
		m.commitComment()
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

func (m *Model) beginCommentAtCursor() {
	r := m.textReader
	target := annotation.Target{Kind: annotation.TargetParagraph, ParagraphIndex: r.NormalMode.Cursor.Line}
	quoted := r.Source.LineText(r.NormalMode.Cursor.Line)
	r.CommentInput.BeginCreate(r.ChapterHref, target, quoted)
}

func (m *Model) commitComment() {
	r := m.textReader
	c := r.CommentInput
	if c.Text == "" {
		c.Cancel()
		return
	}
	if c.EditKind == textreader.CommentEditEditing {
		updated := annotation.Comment{ID: c.CommentID, ChapterHref: c.ChapterHref, Target: c.Target, Content: c.Text, Context: c.QuotedText}
		_ = m.annotations.UpdateComment(m.path, updated)
	} else {
		comment := annotation.NewComment(c.ChapterHref, c.Target, c.Text)
		comment.Context = c.QuotedText
		_ = m.annotations.AddComment(m.path, comment)
	}
	r.CommentInput.Cancel()
	_ = m.loadChapter(m.chapterIdx, false)
}
