package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdf/render"
	"github.com/bugzmanov/bookokrat/pdfreader"
	"github.com/bugzmanov/bookokrat/search"
)

func (m *Model) openPDF(path string) error {
	protocol := detectGraphicsProtocol()
	cfg := m.readerConfig()

	svc, err := render.NewService(path, cfg.PDF.WorkerCount, cfg.PDF.CacheWindowPages, m.env.Log)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	m.renderSvc = svc

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelPdf = cancel
	svc.Start(ctx)

	convProto := convert.ProtocolKitty
	switch protocol {
	case common.GraphicsProtocolITerm2:
		convProto = convert.ProtocolGeneric
	case common.GraphicsProtocolSixel:
		convProto = convert.ProtocolTiled
	}
	m.converter = convert.NewConverter(convProto, m.env.Log)
	go m.converter.Run(ctx)
	m.searchEng = search.NewEngine(nil)

	pageCount := svc.NumPage()
	pref := common.PDFRenderModePage
	m.pdfReader = pdfreader.New(path, pageCount, protocol, pref, cfg.PDF, cfg.JumpListCapacity)
	m.converter.Commands() <- convert.Command{Kind: convert.CmdSetPageCount, PageCount: pageCount}

	page := 0
	if bm, ok := m.bookmarks.Get(path); ok && bm.PdfPage != nil {
		page = *bm.PdfPage
	}
	m.navigateToPage(page, true)
	return nil
}

// detectGraphicsProtocol infers the terminal's inline-image transport from
// well-known environment variables set by the common terminal emulators.
// There is no universal query-and-reply handshake every terminal answers,
// so this is a best-effort guess, not a protocol probe.
func detectGraphicsProtocol() common.GraphicsProtocol {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return common.GraphicsProtocolKitty
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") {
		return common.GraphicsProtocolKitty
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm":
		return common.GraphicsProtocolITerm2
	}
	if strings.Contains(term, "xterm") {
		return common.GraphicsProtocolSixel
	}
	return common.GraphicsProtocolNone
}

func (m *Model) pdfViewport() (width, height int) {
	return m.width, m.visibleHeight()
}

func (m *Model) navigateToPage(page int, recordJump bool) {
	w, h := m.pdfViewport()
	intent := m.pdfReader.NavigateTo(page, h, w, recordJump)
	m.applyPdfIntent(intent)
	m.requestPage(m.pdfReader.Page())
	m.sendPageComments(m.pdfReader.Page())
	m.savePdfBookmark(false)
}

func (m *Model) requestPage(idx int) {
	m.renderSvc.Submit(render.Request{PageIndex: idx, Scale: m.currentPdfScale(), Theme: m.theme, WantText: true})
}

func (m *Model) currentPdfScale() float64 {
	if z, ok := m.pdfReader.Zoom(); ok {
		return z.Factor
	}
	return m.pdfReader.NonKittyZoomFactor
}

func (m *Model) applyPdfIntent(intent pdfreader.Intent) {
	switch intent.Kind {
	case pdfreader.IntentPageChanged:
		if intent.Viewport != nil {
			m.converter.Commands() <- convert.Command{Kind: convert.CmdNavigateTo, Page: intent.Page}
			m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateViewport, Viewport: *intent.Viewport}
		}
	case pdfreader.IntentViewportChanged:
		w, h := m.pdfViewport()
		vp := convert.ViewportUpdate{Page: m.pdfReader.Page(), YOffsetCells: m.pdfScrollOffset(), ViewportHeightCells: h, ViewportWidthCells: w}
		m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateViewport, Viewport: vp}
	case pdfreader.IntentQuit:
		m.quitting = true
	}
}

// destHeightForPage returns the current page's content height in cells, for
// clamping scroll. Falls back to the viewport height (no extra scroll room)
// until the page's descriptor has arrived from the render worker.
func (m *Model) destHeightForPage(idx int) int {
	_, h := m.pdfViewport()
	desc := m.descriptors[idx]
	if desc == nil || !desc.HasPagePxHeight || !desc.HasFullCellSize || desc.FullCellSize.Height <= 0 {
		return h
	}
	cells := desc.PagePxHeight / desc.FullCellSize.Height
	if cells < h {
		return h
	}
	return cells
}

func (m *Model) pdfGeo() pdfreader.ViewportGeometry {
	w, h := m.pdfViewport()
	return pdfreader.ViewportGeometry{HeightCells: h, WidthCells: w, DestHeight: m.destHeightForPage(m.pdfReader.Page())}
}

func (m *Model) pdfScrollOffset() int {
	if z, ok := m.pdfReader.Zoom(); ok {
		return z.GlobalScrollOffset
	}
	return m.pdfReader.NonKittyScrollOffset
}

// commitPdfComment persists the comment popup's text as a new or updated
// comment, then refreshes the page's overlay rects.
func (m *Model) commitPdfComment() {
	c := m.pdfReader.CommentInput
	if c.Text == "" {
		m.pdfReader.CommentInput.Cancel()
		return
	}
	if c.EditKind == pdfreader.CommentEditEditing {
		updated := annotation.Comment{ID: c.CommentID, ChapterHref: "", Target: c.Target, Content: c.Text, Context: c.QuotedText}
		_ = m.annotations.UpdateComment(m.path, updated)
	} else {
		comment := annotation.NewComment("", c.Target, c.Text)
		comment.Context = c.QuotedText
		_ = m.annotations.AddComment(m.path, comment)
	}
	m.pdfReader.CommentInput.Cancel()
	m.sendPageComments(m.pdfReader.Page())
}

func (m *Model) deletePdfComment(id string) {
	_ = m.annotations.DeleteCommentByID(m.path, id)
	m.sendPageComments(m.pdfReader.Page())
}

func (m *Model) savePdfBookmark(force bool) {
	bm, _ := m.bookmarks.Get(m.path)
	page := m.pdfReader.Page()
	scale := m.currentPdfScale()
	bm.PdfPage = &page
	bm.PdfZoom = &scale
	if err := m.bookmarks.Save(m.path, bm, force); err != nil && m.env.Log != nil {
		m.env.Log.Warn("saving pdf bookmark", zap.Error(err))
	}
}

// pdfSearchLines splits the page's extracted text into search.Line values,
// pairing each with the rasterizer's line bounds when the counts match so
// matches can be located vertically on the page.
func (m *Model) pdfSearchLines(idx int) []search.Line {
	text := m.pageTexts[idx]
	if text == "" {
		return nil
	}
	rows := strings.Split(text, "\n")
	var bounds []pdfLineBound
	if desc := m.descriptors[idx]; desc != nil && len(desc.LineBounds) == len(rows) {
		bounds = make([]pdfLineBound, len(rows))
		for i, b := range desc.LineBounds {
			bounds[i] = pdfLineBound{b.Y0, b.Y1}
		}
	}
	out := make([]search.Line, len(rows))
	for i, row := range rows {
		ln := search.Line{Kind: search.LinePdf, Text: row, PageIndex: idx, LineIndex: i}
		if bounds != nil {
			ln.YBounds = search.YBounds{Y0: bounds[i].y0, Y1: bounds[i].y1}
		}
		out[i] = ln
	}
	return out
}

type pdfLineBound struct{ y0, y1 float64 }

// pdfCommentsOnPage returns the stored comments anchored to page idx.
func (m *Model) pdfCommentsOnPage(idx int) []annotation.Comment {
	var out []annotation.Comment
	for _, c := range m.annotations.Comments(m.path) {
		if c.Target.Kind == annotation.TargetPdf && c.Target.PdfPage == idx {
			out = append(out, c)
		}
	}
	return out
}

// sendPageComments pushes the current page's comment rects to the converter
// so it can bake or place the highlight overlays.
func (m *Model) sendPageComments(idx int) {
	comments := m.pdfCommentsOnPage(idx)
	var rects []common.Rect
	for _, c := range comments {
		for _, r := range c.Target.PdfRects {
			rects = append(rects, common.Rect{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1})
		}
	}
	m.pdfReader.CommentRects = rects
	m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateComments, Rects: rects}
}

// --- bubbletea async plumbing: each channel gets a long-lived listener Cmd
// that re-issues itself after delivering one message, the standard
// bubbletea pattern for bridging a background channel into the Update loop.

type renderResultMsg render.Result
type convertFrameMsg convert.RenderedFrame
type convertPlanMsg convert.Plan

func listenRenderResults(svc *render.Service) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-svc.Results()
		if !ok {
			return nil
		}
		return renderResultMsg(res)
	}
}

func listenConvertFrames(c *convert.Converter) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-c.Frames()
		if !ok {
			return nil
		}
		return convertFrameMsg(f)
	}
}

func listenConvertPlans(c *convert.Converter) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-c.Plans()
		if !ok {
			return nil
		}
		return convertPlanMsg(p)
	}
}

func (m *Model) handleRenderResult(res render.Result) tea.Cmd {
	switch res.Kind {
	case render.ResultPage:
		m.descriptors[res.PageIndex] = res.Descriptor
		m.converter.Commands() <- convert.Command{Kind: convert.CmdEnqueuePage, PageIndex: res.PageIndex, Descriptor: res.Descriptor}
		w, h := m.pdfViewport()
		m.converter.Commands() <- convert.Command{Kind: convert.CmdUpdateViewport, Viewport: convert.ViewportUpdate{
			Page: res.PageIndex, YOffsetCells: m.pdfScrollOffset(), ViewportHeightCells: h, ViewportWidthCells: w,
		}}
	case render.ResultExtractedText:
		m.pageTexts[res.PageIndex] = res.Text
		for _, s := range res.Samples {
			m.pdfReader.PageNumbers.Observe(s)
		}
	case render.ResultError, render.ResultWorkerFault:
		m.setErrorHUD("render page %d: %v", res.PageIndex, res.Err)
	}
	return listenRenderResults(m.renderSvc)
}

func (m *Model) handleConvertFrame(f convert.RenderedFrame) tea.Cmd {
	m.frames[f.PageIndex] = &f
	return listenConvertFrames(m.converter)
}

func (m *Model) handleConvertPlan(p convert.Plan) tea.Cmd {
	m.lastPlan = p
	return listenConvertPlans(m.converter)
}
