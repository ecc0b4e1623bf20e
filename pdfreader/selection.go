package pdfreader

import "github.com/bugzmanov/bookokrat/common"

// Selection is the mouse-drag text selection projected into PDF page
// coordinates. Anchor and Point are opposite corners of the drag; Rects is
// the set of rectangles (normally just one, possibly several if a selection
// spans line breaks) the converter burns into the page as a highlight.
type Selection struct {
	Active  bool
	Page    int
	AnchorX float64
	AnchorY float64
	PointX  float64
	PointY  float64
	Rects   []common.Rect
}

// BeginDrag starts a new selection anchored at (x, y) on page.
func (s *Selection) BeginDrag(page int, x, y float64) {
	s.Active = true
	s.Page = page
	s.AnchorX, s.AnchorY = x, y
	s.PointX, s.PointY = x, y
	s.Rects = []common.Rect{{X0: x, Y0: y, X1: x, Y1: y}}
}

// ExtendDrag moves the drag's live end to (x, y), recomputing Rects as the
// normalized rectangle between anchor and point.
func (s *Selection) ExtendDrag(x, y float64) {
	if !s.Active {
		return
	}
	s.PointX, s.PointY = x, y
	s.Rects = []common.Rect{normalizeRect(s.AnchorX, s.AnchorY, x, y)}
}

// EndDrag finalizes the selection; the drag stops updating but Rects and
// Page remain so the caller can copy or comment on the selected region.
func (s *Selection) EndDrag() {
	s.Active = false
}

// Clear drops the selection entirely.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Empty reports whether there is no selected region.
func (s *Selection) Empty() bool {
	return len(s.Rects) == 0
}

func normalizeRect(ax, ay, bx, by float64) common.Rect {
	x0, x1 := ax, bx
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := ay, by
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return common.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// NormalModeKind discriminates whether the keyboard cursor is merely
// positioned (Normal) or extending a visual selection (Visual).
type NormalModeKind int

const (
	NormalModeOff NormalModeKind = iota
	NormalModeNormal
	NormalModeVisual
)

// NormalModeState is the PDF reader's keyboard cursor: a single page-local
// position plus, in Visual, the anchor the selection extends from.
type NormalModeState struct {
	Kind NormalModeKind
	Page int
	X, Y float64

	VisualAnchorX, VisualAnchorY float64
}

// Enter activates the cursor at (x, y) on page, in Normal mode.
func (n *NormalModeState) Enter(page int, x, y float64) {
	n.Kind = NormalModeNormal
	n.Page = page
	n.X, n.Y = x, y
}

// Exit deactivates the cursor entirely.
func (n *NormalModeState) Exit() {
	*n = NormalModeState{}
}

// EnterVisual switches from Normal to Visual, anchoring the selection at
// the cursor's current position.
func (n *NormalModeState) EnterVisual() {
	if n.Kind != NormalModeNormal {
		return
	}
	n.Kind = NormalModeVisual
	n.VisualAnchorX, n.VisualAnchorY = n.X, n.Y
}

// ExitVisual drops back to Normal, keeping the cursor position.
func (n *NormalModeState) ExitVisual() {
	if n.Kind == NormalModeVisual {
		n.Kind = NormalModeNormal
	}
}

// Move translates the cursor by (dx, dy), clamped into [0, maxX]x[0, maxY].
func (n *NormalModeState) Move(dx, dy, maxX, maxY float64) {
	n.X = clampF(n.X+dx, 0, maxX)
	n.Y = clampF(n.Y+dy, 0, maxY)
}

// Rect returns the normalized selection rectangle when in Visual mode.
func (n *NormalModeState) Rect() (common.Rect, bool) {
	if n.Kind != NormalModeVisual {
		return common.Rect{}, false
	}
	return normalizeRect(n.VisualAnchorX, n.VisualAnchorY, n.X, n.Y), true
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
