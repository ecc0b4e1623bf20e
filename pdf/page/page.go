// Package page defines the PDF page descriptor data model: rasterized page
// metadata, link rectangles, and the per-protocol converted-image state
// machine.
package page

import "github.com/bugzmanov/bookokrat/common"

// ImageStateKind discriminates an ImageState's phase: Queued(bytes) →
// Uploaded(id) → (evicted → Queued).
type ImageStateKind int

const (
	ImageQueued ImageStateKind = iota
	ImageUploaded
)

// ImageState is the small state machine tracking a Kitty-protocol image's
// upload lifecycle. Evicting an Uploaded image (Kitty ENOENT) demotes it
// back to Queued with its original bytes so the next frame retransmits.
type ImageState struct {
	Kind  ImageStateKind
	Bytes []byte // meaningful when Kind == ImageQueued
	ID    int    // meaningful when Kind == ImageUploaded
}

// Evict demotes an Uploaded state back to Queued, matching Kitty's ENOENT
// handling for a placement the terminal has forgotten.
func (s ImageState) Evict(originalBytes []byte) ImageState {
	return ImageState{Kind: ImageQueued, Bytes: originalBytes}
}

// LinkRect is a clickable/hoverable region of a rasterized page, pointing
// either at an external URL or at another page within the document.
type LinkRect struct {
	Rect       common.Rect
	URL        string // set when the link targets an external URL
	TargetPage int    // set (>=0) when the link targets another page in-document; -1 otherwise
}

// ConvertedImageKind discriminates which terminal-protocol representation a
// page's rasterized bytes have been converted into.
type ConvertedImageKind int

const (
	ConvertedKitty ConvertedImageKind = iota
	ConvertedGeneric
	ConvertedTiled
)

// Tile is one vertical slice of a page rendered for a tiled (sixel/iTerm2)
// protocol backend.
type Tile struct {
	YOffsetCells int
	HeightCells  int
	Protocol     string // raw protocol-encoded bytes (opaque to this package)
}

// TileUpdate is an in-flight tile arriving asynchronously; it must be
// merged into an existing Tiled ConvertedImage by replacing any tile with
// the same YOffsetCells, or appended otherwise.
type TileUpdate struct {
	Tile Tile
}

// ConvertedImage is the terminal-ready representation of a rasterized page.
type ConvertedImage struct {
	Kind ConvertedImageKind

	// ConvertedKitty
	ImageState ImageState
	CellSize   common.CellSize

	// ConvertedGeneric
	Protocol string // raw protocol-encoded bytes (opaque to this package)

	// ConvertedTiled
	Tiles []Tile
}

// MergeTileUpdate applies upd to a Tiled ConvertedImage, replacing any tile
// at the same vertical offset or appending a new one, and keeps tiles
// sorted by YOffsetCells.
func (c *ConvertedImage) MergeTileUpdate(upd TileUpdate) {
	for i, t := range c.Tiles {
		if t.YOffsetCells == upd.Tile.YOffsetCells {
			c.Tiles[i] = upd.Tile
			return
		}
	}
	c.Tiles = append(c.Tiles, upd.Tile)
	for i := len(c.Tiles) - 1; i > 0 && c.Tiles[i].YOffsetCells < c.Tiles[i-1].YOffsetCells; i-- {
		c.Tiles[i], c.Tiles[i-1] = c.Tiles[i-1], c.Tiles[i]
	}
}

// PageNumberSample is a (page_index, printed_number) pair opportunistically
// mined from a page's extracted text, fed to pdf/pagenum.Tracker.
type PageNumberSample struct {
	PageIndex int
	Printed   int
}

// Descriptor is everything known about a single rasterized PDF page.
type Descriptor struct {
	PixelW, PixelH   int
	HasPixelSize     bool
	FullCellSize     common.CellSize
	HasFullCellSize  bool
	ScaleFactor      float64
	HasScaleFactor   bool
	LineBounds       []LineBound
	LinkRects        []LinkRect
	PagePxHeight     int
	HasPagePxHeight  bool
	Img              *ConvertedImage
	PageNumberSample []PageNumberSample
}

// LineBound is the vertical pixel extent of one text line on a page, used
// to map selections and search matches to screen positions.
type LineBound struct {
	Y0, Y1 float64
}
