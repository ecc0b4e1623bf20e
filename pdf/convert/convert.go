// Package convert implements the per-document converter thread: it consumes
// rasterized page bytes and viewport intents from the shell and decides
// which Kitty placements to transmit, display, or delete, while baking
// cursor/selection/comment overlays directly into pixels for protocols that
// cannot overlay text on images.
package convert

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"go.uber.org/zap"

	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/pdf/page"
	"github.com/bugzmanov/bookokrat/pdf/termgfx"
)

// Protocol identifies the detected terminal graphics backend.
type Protocol int

const (
	ProtocolKitty Protocol = iota
	ProtocolGeneric
	ProtocolTiled
)

// cacheWindowRadius is the ±10-page Kitty memory window.
const cacheWindowRadius = 10

// CommandKind discriminates a Command sent to the converter.
type CommandKind int

const (
	CmdSetPageCount CommandKind = iota
	CmdNavigateTo
	CmdEnqueuePage
	CmdUpdateViewport
	CmdUpdateComments
	CmdUpdateSelection
	CmdUpdateCursor
	CmdDisplayFailed
)

// ViewportUpdate mirrors the shell's viewport contract.
type ViewportUpdate struct {
	Page                int
	YOffsetCells        int
	ViewportHeightCells int
	ViewportWidthCells  int
}

// Command is the converter's single inbound tagged-union message type.
type Command struct {
	Kind        CommandKind
	PageCount   int
	Page        int
	PageIndex   int
	Descriptor  *page.Descriptor
	Viewport    ViewportUpdate
	Rects       []common.Rect
	Cursor      *common.Rect
	FailedPages []int
}

// RenderedFrame is the converter's reply for one page.
type RenderedFrame struct {
	PageIndex int
	Image     *page.ConvertedImage
}

// Plan is the Kitty placement decision for one viewport move: which image
// ids need (re)transmission, which need display this frame, and which fall
// outside the cache window and must be deleted locally and on the terminal.
type Plan struct {
	TransmitIDs []int
	DisplayIDs  []int
	DeleteIDs   []int
	DeleteAll   bool
}

type pageEntry struct {
	desc      *page.Descriptor
	origBytes []byte
	state     page.ImageState
}

// Converter owns all per-document PDF render state; it is driven by exactly
// one goroutine (Run), so its fields need no internal locking — the only
// cross-thread mutable resource in the system is the annotation store.
type Converter struct {
	protocol Protocol
	log      *zap.Logger

	commands chan Command
	frames   chan RenderedFrame
	plans    chan Plan

	pageCount    int
	currentPage  int
	lastViewport ViewportUpdate
	hasViewport  bool

	pages map[int]*pageEntry

	cursor    *common.Rect
	selection []common.Rect
	comments  []common.Rect
}

// NewConverter creates a converter for one open document rendering under protocol.
func NewConverter(protocol Protocol, log *zap.Logger) *Converter {
	return &Converter{
		protocol: protocol,
		log:      log,
		commands: make(chan Command, 16),
		frames:   make(chan RenderedFrame, 16),
		plans:    make(chan Plan, 16),
		pages:    make(map[int]*pageEntry),
	}
}

// Commands returns the channel the shell sends Command values on.
func (c *Converter) Commands() chan<- Command { return c.commands }

// Frames returns the channel RenderedFrame replies arrive on.
func (c *Converter) Frames() <-chan RenderedFrame { return c.frames }

// Plans returns the channel Kitty placement Plans arrive on.
func (c *Converter) Plans() <-chan Plan { return c.plans }

// Run drives the converter until ctx is cancelled or the command channel is
// closed (document close drops the sender half).
func (c *Converter) Run(ctx context.Context) {
	defer close(c.frames)
	defer close(c.plans)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.commands:
			if !ok {
				return
			}
			c.handle(cmd)
		}
	}
}

func (c *Converter) handle(cmd Command) {
	switch cmd.Kind {
	case CmdSetPageCount:
		c.pageCount = cmd.PageCount
	case CmdNavigateTo:
		c.currentPage = cmd.Page
	case CmdEnqueuePage:
		c.enqueuePage(cmd.PageIndex, cmd.Descriptor)
	case CmdUpdateViewport:
		c.updateViewport(cmd.Viewport)
	case CmdUpdateComments:
		c.comments = cmd.Rects
		c.reemitCurrent()
	case CmdUpdateSelection:
		c.selection = cmd.Rects
		c.reemitCurrent()
	case CmdUpdateCursor:
		c.cursor = cmd.Cursor
		c.reemitCurrent()
	case CmdDisplayFailed:
		c.displayFailed(cmd.FailedPages)
	}
}

func (c *Converter) enqueuePage(idx int, desc *page.Descriptor) {
	if desc == nil || desc.Img == nil {
		return
	}
	var orig []byte
	if desc.Img.ImageState.Kind == page.ImageQueued {
		orig = desc.Img.ImageState.Bytes
	}
	entry := &pageEntry{
		desc:      desc,
		origBytes: orig,
		state:     page.ImageState{Kind: page.ImageQueued, Bytes: orig},
	}
	c.pages[idx] = entry
	c.emitFrame(idx, entry)
}

// updateViewport implements the cache-window eviction and transmit/display
// decision. Identical consecutive tuples are ignored (the reader is
// responsible for deduplication, but the converter defends too).
func (c *Converter) updateViewport(vp ViewportUpdate) {
	if c.hasViewport && vp == c.lastViewport {
		return
	}
	c.lastViewport = vp
	c.hasViewport = true
	c.currentPage = vp.Page

	lo := max(0, vp.Page-cacheWindowRadius)
	hi := vp.Page + cacheWindowRadius
	if c.pageCount > 0 && hi >= c.pageCount {
		hi = c.pageCount - 1
	}

	var plan Plan
	for idx, entry := range c.pages {
		if idx < lo || idx > hi {
			if entry.state.Kind == page.ImageUploaded {
				plan.DeleteIDs = append(plan.DeleteIDs, entry.state.ID)
			}
			delete(c.pages, idx)
		}
	}

	if entry, ok := c.pages[vp.Page]; ok {
		id := vp.Page + 1 // each page is assigned image id page_index + 1
		switch entry.state.Kind {
		case page.ImageQueued:
			entry.state = page.ImageState{Kind: page.ImageUploaded, ID: id}
			plan.TransmitIDs = append(plan.TransmitIDs, id)
			plan.DisplayIDs = append(plan.DisplayIDs, id)
		case page.ImageUploaded:
			plan.DisplayIDs = append(plan.DisplayIDs, entry.state.ID)
		}
	}

	if len(plan.TransmitIDs) > 0 || len(plan.DisplayIDs) > 0 || len(plan.DeleteIDs) > 0 {
		c.plans <- plan
	}
}

// displayFailed re-queues pages the shell observed failed to place.
func (c *Converter) displayFailed(indices []int) {
	for _, idx := range indices {
		entry, ok := c.pages[idx]
		if !ok {
			continue
		}
		entry.state = page.ImageState{Kind: page.ImageQueued, Bytes: entry.origBytes}
		c.log.Debug("re-queued failed page display", zap.Int("page", idx))
	}
}

// HandleReply applies a parsed Kitty reply (termgfx.ParseReply) to the
// matching page, demoting an evicted image back to Queued so the next
// viewport update retransmits it.
func (c *Converter) HandleReply(r termgfx.Reply) {
	if r.Kind != termgfx.ReplyEvicted {
		return
	}
	for idx, entry := range c.pages {
		if entry.state.Kind == page.ImageUploaded && entry.state.ID == r.ImageID {
			c.pages[idx].state = entry.state.Evict(entry.origBytes)
			return
		}
	}
}

func (c *Converter) reemitCurrent() {
	if entry, ok := c.pages[c.currentPage]; ok {
		c.emitFrame(c.currentPage, entry)
	}
}

func (c *Converter) emitFrame(idx int, entry *pageEntry) {
	img := entry.desc.Img
	if img == nil {
		return
	}
	out := *img
	if c.protocol != ProtocolKitty {
		out.Protocol = c.bakeOverlays(entry)
	}
	select {
	case c.frames <- RenderedFrame{PageIndex: idx, Image: &out}:
	default:
		// frame buffer full: the shell will ask again on the next viewport
		// tick, so a dropped frame here is not a correctness issue.
	}
}

// bakeOverlays decodes the page's original PNG bytes, draws cursor,
// selection, and comment rectangles directly into the pixels, and
// re-encodes for the non-Kitty protocol in use. Overlays are baked into
// the image by the converter, never emitted as separate placements.
func (c *Converter) bakeOverlays(entry *pageEntry) string {
	if len(entry.origBytes) == 0 {
		return ""
	}
	decoded, err := png.Decode(bytes.NewReader(entry.origBytes))
	if err != nil {
		c.log.Warn("overlay bake: decode failed", zap.Error(err))
		return ""
	}

	rgba := image.NewRGBA(decoded.Bounds())
	draw.Draw(rgba, rgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)

	for _, r := range c.selection {
		fillRect(rgba, r, color.RGBA{R: 60, G: 80, B: 110, A: 120})
	}
	for _, r := range c.comments {
		outlineRect(rgba, r, color.RGBA{R: 229, G: 192, B: 123, A: 255})
	}
	if c.cursor != nil {
		outlineRect(rgba, *c.cursor, color.RGBA{R: 97, G: 175, B: 239, A: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		c.log.Warn("overlay bake: encode failed", zap.Error(err))
		return ""
	}

	switch c.protocol {
	case ProtocolGeneric:
		return termgfx.EncodeITerm2Inline(buf.Bytes(), rgba.Bounds().Dx()/8, rgba.Bounds().Dy()/16)
	case ProtocolTiled:
		return termgfx.EncodeSixel(rgba)
	default:
		return ""
	}
}

func fillRect(img *image.RGBA, r common.Rect, c color.RGBA) {
	blend(img, r, c, true)
}

func outlineRect(img *image.RGBA, r common.Rect, c color.RGBA) {
	blend(img, r, c, false)
}

func blend(img *image.RGBA, r common.Rect, c color.RGBA, fill bool) {
	bounds := img.Bounds()
	x0, y0 := max(int(r.X0), bounds.Min.X), max(int(r.Y0), bounds.Min.Y)
	x1, y1 := min(int(r.X1), bounds.Max.X), min(int(r.Y1), bounds.Max.Y)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	const strokeWidth = 2
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			onBorder := x < x0+strokeWidth || x >= x1-strokeWidth || y < y0+strokeWidth || y >= y1-strokeWidth
			if fill || onBorder {
				img.Set(x, y, c)
			}
		}
	}
}
