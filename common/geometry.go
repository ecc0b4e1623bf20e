// Package common holds small value types shared across the reading engines
// that would otherwise create import cycles between pdf, reflow and textreader.
package common

// Rect is an axis-aligned rectangle. Units depend on context: terminal cells
// for anything the text frame or Kitty placement touches, PDF points/pixels
// for anything produced by the rasterizer.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns X1-X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1-Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns Width()*Height(), or 0 if the rect is degenerate.
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersect returns the overlapping rectangle of r and o, and whether one exists.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0, y0 := max(r.X0, o.X0), max(r.Y0, o.Y0)
	x1, y1 := min(r.X1, o.X1), min(r.Y1, o.Y1)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{x0, y0, x1, y1}, true
}

// CellSize is a terminal cell's pixel dimensions, as reported by the terminal
// or assumed from a fallback (Kitty queries this at startup).
type CellSize struct {
	Width, Height int
}

// Viewport describes the visible slice of a scrollable surface, in cells.
type Viewport struct {
	Page                                int
	YOffsetCells                        int
	ViewportHeightCells, ViewportWidthCells int
}
