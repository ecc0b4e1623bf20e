package pdfreader

import (
	"strconv"
	"time"

	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/config"
	"github.com/bugzmanov/bookokrat/hud"
	"github.com/bugzmanov/bookokrat/jumplist"
	"github.com/bugzmanov/bookokrat/pdf/convert"
	"github.com/bugzmanov/bookokrat/pdf/pagenum"
)

const (
	hudNormalDuration = 2 * time.Second
	hudErrorDuration  = 5 * time.Second
)

// Reader is the PDF reader's state machine: one instance per open document,
// owned exclusively by the shell.
type Reader struct {
	Path      string
	DocTitle  string
	PageCount int

	Mode RenderMode
	cfg  config.PDFConfig

	page int

	// Kitty-only pan/zoom/scroll state; nil in ModeNonKitty.
	zoom *Zoom

	// ModeNonKitty zoom is baked into the rasterized image rather than
	// applied at display time.
	NonKittyZoomFactor   float64
	NonKittyScrollOffset int

	Selection  Selection
	NormalMode NormalModeState

	JumpList    *jumplist.List
	PageNumbers *pagenum.Tracker
	TOC         []TocEntry

	CommentInput CommentInputState
	CommentRects []common.Rect
	CommentNav   CommentNavState

	GoToPage GoToPageState
	Search   PageSearchState

	HUD hud.Box

	lastViewport    convert.ViewportUpdate
	hasLastViewport bool

	// Mutated only by the display execution step, never by state logic.
	LastKittyCacheWindow *[2]int
	KittyVisiblePages    map[int]struct{}
}

// New returns a Reader for a document with pageCount pages, resolving the
// render mode from the detected protocol and the user's scroll preference.
// jumpListCapacity is the caller's config.ReaderConfig.JumpListCapacity.
func New(path string, pageCount int, protocol common.GraphicsProtocol, pref common.PDFRenderMode, cfg config.PDFConfig, jumpListCapacity int) *Reader {
	mode := ResolveMode(protocol, pref)
	r := &Reader{
		Path:               path,
		PageCount:          pageCount,
		Mode:               mode,
		cfg:                cfg,
		NonKittyZoomFactor: cfg.DefaultScale,
		JumpList:           jumplist.NewList(jumpListCapacity),
		PageNumbers:        pagenum.NewTracker(),
		GoToPage:           GoToPageState{ModeValue: PageJumpModePdf},
		KittyVisiblePages:  make(map[int]struct{}),
	}
	if mode != ModeNonKitty {
		r.zoom = &Zoom{Factor: ClampFactor(cfg.DefaultScale, cfg.MinScale, cfg.MaxScale)}
	}
	return r
}

// Page returns the current 0-based page index.
func (r *Reader) Page() int { return r.page }

// Zoom returns the Kitty-only zoom state, and false in ModeNonKitty.
func (r *Reader) Zoom() (Zoom, bool) {
	if r.zoom == nil {
		return Zoom{}, false
	}
	return *r.zoom, true
}

// SetZoomFactor clamps and applies a new zoom factor, rescaling the current
// scroll offset so the viewport's visible midpoint stays stable, and sets a
// zoom-percent hud message.
func (r *Reader) SetZoomFactor(f float64, viewportHeight int, now time.Time) {
	if r.zoom == nil {
		r.NonKittyZoomFactor = ClampFactor(f, r.cfg.MinScale, r.cfg.MaxScale)
		r.setZoomHud(r.NonKittyZoomFactor, now)
		return
	}
	newFactor := ClampFactor(f, r.cfg.MinScale, r.cfg.MaxScale)
	r.zoom.GlobalScrollOffset = ZoomAtMidpoint(r.zoom.GlobalScrollOffset, r.zoom.Factor, newFactor, viewportHeight)
	if r.zoom.GlobalScrollOffset < 0 {
		r.zoom.GlobalScrollOffset = 0
	}
	r.zoom.Factor = newFactor
	r.setZoomHud(newFactor, now)
}

// StepZoom multiplies the current factor by cfg.ZoomStep (in) or divides by
// it (out), the "+"/"-" input handling described for the PDF reader.
func (r *Reader) StepZoom(in bool, viewportHeight int, now time.Time) {
	cur := r.NonKittyZoomFactor
	if r.zoom != nil {
		cur = r.zoom.Factor
	}
	step := r.cfg.ZoomStep
	if step <= 1 {
		step = 1.1
	}
	if in {
		r.SetZoomFactor(cur*step, viewportHeight, now)
	} else {
		r.SetZoomFactor(cur/step, viewportHeight, now)
	}
}

func (r *Reader) setZoomHud(factor float64, now time.Time) {
	percent := int(factor*100 + 0.5)
	r.HUD.Set(hud.New(zoomHudText(percent), hud.KindNormal, now, hudNormalDuration))
}

func zoomHudText(percent int) string {
	return "Zoom " + strconv.Itoa(percent) + "%"
}

// SetErrorHUD sets a transient error message.
func (r *Reader) SetErrorHUD(message string, now time.Time) {
	r.HUD.Set(hud.New(message, hud.KindError, now, hudErrorDuration))
}

// NavigateTo moves to page, clamped to the document's bounds. It returns an
// Intent carrying the viewport update the shell must send to the converter,
// and records the previous location on the jump list when it differs from
// the destination.
func (r *Reader) NavigateTo(page int, viewportHeightCells, viewportWidthCells int, recordJump bool) Intent {
	if page < 0 {
		page = 0
	}
	if r.PageCount > 0 && page >= r.PageCount {
		page = r.PageCount - 1
	}
	if page == r.page {
		return Intent{Kind: IntentNone}
	}
	if recordJump {
		r.JumpList.Push(jumplist.Location{Kind: jumplist.LocationPdf, Path: r.Path, Page: r.page, ScrollOffset: r.currentScrollOffset()})
	}
	r.page = page
	if r.CommentNav.Active {
		r.CommentNav.Page = page
		r.CommentNav.Index = 0
	}
	vp := convert.ViewportUpdate{Page: page, ViewportHeightCells: viewportHeightCells, ViewportWidthCells: viewportWidthCells}
	r.lastViewport = vp
	r.hasLastViewport = true
	return Intent{Kind: IntentPageChanged, Page: page, Viewport: &vp}
}

func (r *Reader) currentScrollOffset() int {
	if r.zoom != nil {
		return r.zoom.GlobalScrollOffset
	}
	return r.NonKittyScrollOffset
}

// ScrollBy moves the current scroll offset by delta cells, clamped to the
// content height for the active mode. ModeKittyPage clamps to the current
// page's own height and never advances the page on overflow; ModeKittyScroll
// clamps to the whole document's continuous height.
func (r *Reader) ScrollBy(delta, destHeight, viewportHeight int) Intent {
	switch {
	case r.Mode == ModeKittyPage || r.Mode == ModeKittyScroll:
		r.zoom.GlobalScrollOffset = ClampScroll(r.zoom.GlobalScrollOffset+delta, destHeight, viewportHeight)
	default:
		r.NonKittyScrollOffset = ClampScroll(r.NonKittyScrollOffset+delta, destHeight, viewportHeight)
	}
	return Intent{Kind: IntentViewportChanged}
}

// UpdateCurrentPageFromScroll implements the Kitty-Scroll sticky-page rule:
// candidatePage is the page with the largest visible area this frame, but
// the previously-current page is kept if it still occupies at least
// stickyRatio of the viewport.
func (r *Reader) UpdateCurrentPageFromScroll(candidatePage int, candidateShare, currentShare float64, stickyRatio float64) bool {
	if candidatePage == r.page {
		return false
	}
	if currentShare >= stickyRatio {
		return false
	}
	r.page = candidatePage
	if r.CommentNav.Active {
		r.CommentNav.Page = candidatePage
		r.CommentNav.Index = 0
	}
	return true
}

// JumpBack and JumpForward walk the jump list, returning the destination
// location and true if one was available.
func (r *Reader) JumpBack() (jumplist.Location, bool) {
	return r.JumpList.Back(jumplist.Location{Kind: jumplist.LocationPdf, Path: r.Path, Page: r.page, ScrollOffset: r.currentScrollOffset()})
}

func (r *Reader) JumpForward() (jumplist.Location, bool) {
	return r.JumpList.Forward(jumplist.Location{Kind: jumplist.LocationPdf, Path: r.Path, Page: r.page, ScrollOffset: r.currentScrollOffset()})
}
