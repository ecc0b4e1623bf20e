package pdfreader

import (
	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/pdf/convert"
)

// IntentKind discriminates an Intent, the tagged union every input handler
// and state transition in this package returns to the shell.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentRedraw
	IntentViewportChanged
	IntentPageChanged
	IntentZoomChanged
	IntentSelectionChanged
	IntentCursorChanged
	IntentYankText
	IntentCopySelection
	IntentOpenExternalLink
	IntentCommentSaved
	IntentCommentDeleted
	IntentExitNormalMode
	IntentQuit
)

// Intent is returned by every state mutation in this package; the shell
// reconciles it against the converter, bookmarks, annotation store and jump
// list. Only the fields relevant to Kind are meaningful.
type Intent struct {
	Kind IntentKind

	Page     int
	Viewport *convert.ViewportUpdate

	ZoomFactor float64

	Rects  []common.Rect
	Cursor *common.Rect

	Text string

	ExtractionPage  int
	ExtractionRects []common.Rect

	URL string

	CommentID string
}
