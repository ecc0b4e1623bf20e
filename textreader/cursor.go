package textreader

import "time"

// CursorPosition is a (line, column) pair into the wrapped line sequence a
// LineSource exposes. Column is a rune index, not a byte offset.
type CursorPosition struct {
	Line, Column int
}

// PendingCharMotion discriminates which f/F/t/T motion a following
// keystroke completes.
type PendingCharMotion int

const (
	PendingCharMotionNone PendingCharMotion = iota
	PendingCharMotionFindForward
	PendingCharMotionFindBackward
	PendingCharMotionTillForward
	PendingCharMotionTillBackward
)

// VisualMode discriminates visual selection granularity.
type VisualMode int

const (
	VisualModeNone VisualMode = iota
	VisualModeChar
	VisualModeLine
)

// PendingYank discriminates what a 'y' prefix is still waiting on: a plain
// motion, an inner/around text object, a find-char motion, or the second 'g'
// of "ygg".
type PendingYank int

const (
	PendingYankNone PendingYank = iota
	PendingYankWaitingForMotion
	PendingYankWaitingForInnerObject
	PendingYankWaitingForAroundObject
	PendingYankWaitingForFindChar
	PendingYankWaitingForG
)

type lastFind struct {
	motion PendingCharMotion
	ch     rune
	set    bool
}

// YankHighlight marks the span a yank last copied so the shell can flash it
// briefly; ExpiresAt is stamped by the caller from
// config.ReaderConfig.YankHighlightMS.
type YankHighlight struct {
	StartLine, StartCol int
	EndLine, EndCol     int
	ExpiresAt           time.Time
}

// Expired reports whether now is at or past ExpiresAt.
func (h YankHighlight) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// Contains reports whether (line, col) falls within the highlighted span.
func (h YankHighlight) Contains(line, col int) bool {
	if line < h.StartLine || line > h.EndLine {
		return false
	}
	if h.StartLine == h.EndLine {
		return col >= h.StartCol && col < h.EndCol
	}
	if line == h.StartLine {
		return col >= h.StartCol
	}
	if line == h.EndLine {
		return col < h.EndCol
	}
	return true
}

// NormalModeState is the vim-like cursor state for the currently displayed
// chapter: active/inactive, cursor position, a pending count prefix, a
// pending find-char or yank motion, the current yank highlight, and visual
// selection state. It says nothing about scrolling or rendering; Reader
// interprets it against a LineSource to produce concrete positions.
type NormalModeState struct {
	Active       bool
	Cursor       CursorPosition
	cursorWasSet bool

	PendingMotion  PendingCharMotion
	lastFind       lastFind
	PendingYankVal PendingYank
	// PendingYankFindMotion holds which find-char variant a "yf"/"yF"/"yt"/"yT"
	// prefix is waiting on, meaningful only when PendingYankVal is
	// PendingYankWaitingForFindChar.
	PendingYankFindMotion PendingCharMotion

	Highlight *YankHighlight

	count int

	Visual       VisualMode
	VisualAnchor CursorPosition
}

// Activate turns normal mode on at (line, col).
func (s *NormalModeState) Activate(line, col int) {
	s.Active = true
	s.Cursor = CursorPosition{Line: line, Column: col}
	s.cursorWasSet = true
}

// Deactivate turns normal mode off and drops any visual selection.
func (s *NormalModeState) Deactivate() {
	s.Active = false
	s.Visual = VisualModeNone
}

// WasPositioned reports whether Activate has ever been called, used to
// decide whether re-entering normal mode should restore the last cursor or
// reset to the scrolloff margin.
func (s *NormalModeState) WasPositioned() bool {
	return s.cursorWasSet
}

// AppendCountDigit folds d into the pending count prefix (capped at 9999 to
// avoid an unreasonably large repeat count). Returns false if normal mode is
// inactive.
func (s *NormalModeState) AppendCountDigit(d int) bool {
	if !s.Active {
		return false
	}
	s.count = min(s.count*10+d, 9999)
	return true
}

// TakeCount returns the pending count (defaulting to 1) and clears it.
func (s *NormalModeState) TakeCount() int {
	if s.count == 0 {
		return 1
	}
	n := s.count
	s.count = 0
	return n
}

// HasPendingCount reports whether a count prefix is awaiting an operator or
// motion keystroke.
func (s *NormalModeState) HasPendingCount() bool {
	return s.count != 0
}

// ClearCount discards any pending count prefix, e.g. on Escape.
func (s *NormalModeState) ClearCount() {
	s.count = 0
}

// EnterVisual starts a visual selection anchored at the current cursor.
// No-op if normal mode is inactive.
func (s *NormalModeState) EnterVisual(mode VisualMode) {
	if !s.Active {
		return
	}
	s.Visual = mode
	s.VisualAnchor = s.Cursor
}

// ExitVisual drops the visual selection without moving the cursor.
func (s *NormalModeState) ExitVisual() {
	s.Visual = VisualModeNone
}

// IsVisualActive reports whether a visual selection is in progress.
func (s *NormalModeState) IsVisualActive() bool {
	return s.Visual != VisualModeNone
}
