package app

import (
	"fmt"
	"strings"
	"time"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdf/page"
	"github.com/bugzmanov/bookokrat/pdf/termgfx"
	"github.com/bugzmanov/bookokrat/pdfreader"
)

// View renders the current frame: the EPUB chapter text or the PDF page
// image, a bottom status/HUD line, and whatever modal overlay is open.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.fatalErr != nil {
		return fmt.Sprintf("fatal: %v\n", m.fatalErr)
	}

	var body string
	switch m.kind {
	case docPdf:
		body = m.viewPDF()
	default:
		body = m.viewEPUB()
	}

	switch m.overlay {
	case overlayTOC:
		body = m.overlayTOCView()
	case overlayHelp:
		body = m.overlayHelpView()
	}

	return body + "\n" + m.statusLine()
}

func lgStyle(s common.Style) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(hexColor(s.FG))
	if s.HasBG {
		st = st.Background(hexColor(s.BG))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	if s.Strike {
		st = st.Strikethrough(true)
	}
	return st
}

func hexColor(rgb [3]uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
}

func docStyleFor(theme common.Theme, s int) common.Style {
	switch s {
	case 1: // document.StyleStrong
		bold := theme.Text
		bold.Bold = true
		return bold
	case 2: // document.StyleEmphasis
		it := theme.Text
		it.Italic = true
		return it
	case 3: // document.StyleCode
		return theme.Code
	case 4: // document.StyleStrikethrough
		st := theme.Text
		st.Strike = true
		return st
	default:
		return theme.Text
	}
}

// viewEPUB renders the visible window of the current chapter's rendered
// lines, applying cursor, visual-selection, search-match and yank-highlight
// styling on top of each line's own span styles.
func (m *Model) viewEPUB() string {
	r := m.textReader
	if r == nil || r.Source == nil {
		return ""
	}
	height := r.VisibleHeight
	var b strings.Builder
	for row := 0; row < height; row++ {
		idx := r.ScrollOffset + row
		if idx >= r.Source.LineCount() {
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderEpubLine(idx))
		b.WriteString("\n")
	}
	if r.CommentInput.Active {
		b.WriteString(m.commentPopupView(r.CommentInput.Text))
	}
	if r.Search.Active {
		b.WriteString("/" + r.Search.Query)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderEpubLine(idx int) string {
	r := m.textReader
	rl, ok := m.chapterDoc.at(idx)
	if !ok {
		return ""
	}
	theme := m.theme
	if len(rl.Spans) == 0 {
		return lgStyle(theme.Text).Render(rl.Raw)
	}
	var b strings.Builder
	col := 0
	for _, sp := range rl.Spans {
		style := docStyleFor(theme, int(sp.Style))
		for _, ch := range sp.Text {
			cellStyle := style
			if r.NormalMode.Active && r.NormalMode.Cursor.Line == idx && r.NormalMode.Cursor.Column == col {
				cellStyle = theme.Cursor
			} else if r.IsVisualActive() && r.IsInVisualSelection(idx, col) {
				cellStyle = theme.VisualSelect
			} else if r.NormalMode.Highlight != nil && r.NormalMode.Highlight.Contains(idx, col) {
				cellStyle = theme.Highlight
			} else if m.matchAt(idx, col) {
				cellStyle = theme.SearchMatch
			}
			b.WriteString(lgStyle(cellStyle).Render(string(ch)))
			col++
		}
	}
	return b.String()
}

func (m *Model) matchAt(line, col int) bool {
	for _, match := range m.textReader.Search.Matches {
		if match.LineIndex == line && col >= match.CharStart && col < match.CharEnd {
			return true
		}
	}
	return false
}

// viewPDF renders the current page: the terminal-graphics escape sequence
// for non-Kitty protocols is already baked by the converter; for Kitty the
// shell itself emits transmit/display escapes driven by the latest Plan.
func (m *Model) viewPDF() string {
	r := m.pdfReader
	if r == nil {
		return ""
	}
	idx := r.Page()
	frame, ok := m.frames[idx]
	var body string
	switch {
	case !ok:
		body = "rendering..."
	case r.Mode == pdfreader.ModeNonKitty || frame.Image.Kind != page.ConvertedKitty:
		body = frame.Image.Protocol
	default:
		body = m.kittyPlacement(idx, frame)
	}

	if r.GoToPage.Active {
		body += "\n" + m.goToPagePopupView()
	}
	if r.Search.Active {
		body += "\n/" + r.Search.Query
	}
	if r.CommentInput.Active {
		body += "\n" + m.commentPopupView(r.CommentInput.Text)
	}
	if r.CommentNav.Active {
		body += "\n" + m.commentNavView()
	}
	return body
}

// kittyPlacement emits the Kitty transmit/display escapes named in the
// converter's latest Plan for this page, using the frame's queued PNG
// bytes and the page descriptor's pixel dimensions.
func (m *Model) kittyPlacement(idx int, frame *convert.RenderedFrame) string {
	id := idx + 1
	var b strings.Builder
	w, h := m.pdfViewport()
	desc := m.descriptors[idx]
	pw, ph := 0, 0
	if desc != nil {
		pw, ph = desc.PixelW, desc.PixelH
	}
	for _, tid := range m.lastPlan.TransmitIDs {
		if tid != id {
			continue
		}
		for _, seq := range termgfx.TransmitAndDisplay(id, termgfx.FormatPNG, pw, ph, frame.Image.ImageState.Bytes, w, h) {
			b.WriteString(seq)
		}
	}
	for _, did := range m.lastPlan.DisplayIDs {
		if did != id {
			continue
		}
		transmitted := false
		for _, tid := range m.lastPlan.TransmitIDs {
			if tid == id {
				transmitted = true
			}
		}
		if !transmitted {
			b.WriteString(termgfx.DisplayExisting(id, 0, 0, 0, pw, ph, w, h))
		}
	}
	if b.Len() == 0 {
		return strings.Repeat("\n", h)
	}
	return b.String()
}

func (m *Model) statusLine() string {
	theme := m.theme
	switch m.kind {
	case docPdf:
		r := m.pdfReader
		text := fmt.Sprintf(" page %d/%d ", r.Page()+1, r.PageCount)
		if msg, ok := r.HUD.Current(time.Now()); ok {
			return lgStyle(theme.HudError).Render(msg.Text)
		}
		return lgStyle(theme.Hud).Render(text)
	default:
		r := m.textReader
		if r == nil {
			return ""
		}
		if msg, ok := r.HUD.Current(time.Now()); ok {
			return lgStyle(theme.HudError).Render(msg.Text)
		}
		title := ""
		if m.book != nil {
			title = m.book.Metadata().Title
		}
		return lgStyle(theme.Hud).Render(fmt.Sprintf(" %s — chapter %d/%d ", title, m.chapterIdx+1, len(m.book.Spine())))
	}
}

func (m *Model) commentPopupView(text string) string {
	width := pdfreader.PopupWidth(m.width / 3)
	box := lipgloss.NewStyle().Width(width).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return box.Render(text + "_")
}

func (m *Model) goToPagePopupView() string {
	g := m.pdfReader.GoToPage
	label := "pdf page"
	if g.ModeValue == pdfreader.PageJumpModeContent {
		label = "printed page"
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return box.Render(fmt.Sprintf("go to %s: %s_", label, g.Input))
}

func (m *Model) commentNavView() string {
	comments := m.pdfCommentsOnPage(m.pdfReader.CommentNav.Page)
	var b strings.Builder
	for i, c := range comments {
		marker := "  "
		if i == m.pdfReader.CommentNav.Index {
			marker = "> "
		}
		b.WriteString(marker + c.Content + "\n")
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) overlayTOCView() string {
	var entries []string
	switch m.kind {
	case docPdf:
		for _, e := range flattenPdfTOC(m.pdfReader.TOC) {
			entries = append(entries, fmt.Sprintf("%s — p.%d", e.Title, e.Page+1))
		}
	default:
		for _, e := range m.book.TOC() {
			entries = append(entries, e.Title)
		}
	}
	var b strings.Builder
	for i, e := range entries {
		marker := "  "
		if i == m.tocSel {
			marker = "> "
		}
		b.WriteString(marker + e + "\n")
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(m.width - 4).Height(m.height - 4).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) overlayHelpView() string {
	help := "j/k scroll  gg/G top/bottom  / search  t toc  q quit"
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Render(help)
}
