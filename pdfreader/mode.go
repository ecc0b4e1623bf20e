// Package pdfreader implements the PDF reader's state machine: the current
// page, zoom and pan, per-mode scroll offsets, table of contents, selection,
// normal-mode cursor, comment input/sidebar, jump-list interaction and hud
// state described for the reading engine's PDF side. It owns no terminal I/O
// and no rasterized bytes; it emits Intent values that the shell reconciles
// against the render/convert pipeline, bookmarks and the annotation store.
package pdfreader

import "github.com/bugzmanov/bookokrat/common"

// RenderMode discriminates how pages are laid out and scrolled.
type RenderMode int

const (
	// ModeKittyPage shows one page at a time; scrolling moves within the
	// page and page changes are explicit navigation.
	ModeKittyPage RenderMode = iota
	// ModeKittyScroll scrolls continuously through the whole document, a
	// one-row separator between consecutive pages.
	ModeKittyScroll
	// ModeNonKitty shows a single centered page; zoom is baked in at
	// rasterization time rather than applied at display time.
	ModeNonKitty
)

// ResolveMode picks the render mode for a detected protocol and the user's
// page/scroll preference. Only a Kitty-capable terminal can scroll
// continuously; every other protocol falls back to single-page display.
func ResolveMode(protocol common.GraphicsProtocol, pref common.PDFRenderMode) RenderMode {
	if protocol != common.GraphicsProtocolKitty {
		return ModeNonKitty
	}
	if pref == common.PDFRenderModeScroll {
		return ModeKittyScroll
	}
	return ModeKittyPage
}

// SeparatorHeight is the one-cell row drawn between pages in Kitty-Scroll.
const SeparatorHeight = 1

// Zoom is the Kitty-only zoom/pan state. It is nil in ModeNonKitty, where
// zoom is instead baked into the rasterized image (see NonKittyZoomFactor).
type Zoom struct {
	Factor             float64
	CellPanFromLeft    int
	GlobalScrollOffset int
}

// ClampFactor restricts f to [min, max] (config default 0.5..4.0).
func ClampFactor(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}

// ClampPan restricts a horizontal pan (in source cells) so the viewport
// never scrolls past the content's edges. When the content is narrower
// than the viewport, pan is centered rather than pinned to a bound.
func ClampPan(pan, contentWidth, viewportWidth int) int {
	if contentWidth <= viewportWidth {
		return (contentWidth - viewportWidth) / 2
	}
	maxPan := contentWidth - viewportWidth
	if pan < 0 {
		return 0
	}
	if pan > maxPan {
		return maxPan
	}
	return pan
}

// ClampScroll restricts a vertical scroll offset to [0, destHeight-viewportHeight].
func ClampScroll(offset, destHeight, viewportHeight int) int {
	maxOffset := destHeight - viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// ZoomAtMidpoint applies a new zoom factor while keeping the content point
// under the viewport's vertical midpoint stable: it rescales the current
// scroll offset by the ratio of new to old factor rather than resetting it.
func ZoomAtMidpoint(oldOffset int, oldFactor, newFactor float64, viewportHeight int) int {
	if oldFactor <= 0 {
		return oldOffset
	}
	midpoint := float64(oldOffset) + float64(viewportHeight)/2
	ratio := newFactor / oldFactor
	newMidpoint := midpoint * ratio
	return int(newMidpoint - float64(viewportHeight)/2)
}
