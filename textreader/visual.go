package textreader

import "time"

// EnterVisual starts a visual selection anchored at the cursor ('v'/'V').
func (r *Reader) EnterVisual(mode VisualMode) {
	r.NormalMode.EnterVisual(mode)
}

// ExitVisual drops the visual selection without moving the cursor (Escape).
func (r *Reader) ExitVisual() {
	r.NormalMode.ExitVisual()
}

// IsVisualActive reports whether a visual selection is in progress.
func (r *Reader) IsVisualActive() bool {
	return r.NormalMode.IsVisualActive()
}

// VisualSelectionRange returns the current visual selection as a half-open
// [startLine, startCol, endLine, endCol) span, normalized so start precedes
// end regardless of which way the cursor moved from the anchor.
func (r *Reader) VisualSelectionRange() (startLine, startCol, endLine, endCol int, ok bool) {
	if r.NormalMode.Visual == VisualModeNone {
		return 0, 0, 0, 0, false
	}
	anchor := r.NormalMode.VisualAnchor
	cursor := r.NormalMode.Cursor

	switch r.NormalMode.Visual {
	case VisualModeChar:
		if anchor.Line < cursor.Line || (anchor.Line == cursor.Line && anchor.Column <= cursor.Column) {
			return anchor.Line, anchor.Column, cursor.Line, cursor.Column + 1, true
		}
		return cursor.Line, cursor.Column, anchor.Line, anchor.Column + 1, true
	case VisualModeLine:
		lo, hi := anchor.Line, cursor.Line
		if cursor.Line < anchor.Line {
			lo, hi = cursor.Line, anchor.Line
		}
		return lo, 0, hi, lineLen(r.Source, hi), true
	default:
		return 0, 0, 0, 0, false
	}
}

// IsInVisualSelection reports whether (line, col) falls within the current
// visual selection.
func (r *Reader) IsInVisualSelection(line, col int) bool {
	startLine, startCol, endLine, endCol, ok := r.VisualSelectionRange()
	if !ok || line < startLine || line > endLine {
		return false
	}
	switch r.NormalMode.Visual {
	case VisualModeLine:
		return true
	case VisualModeChar:
		if startLine == endLine {
			return col >= startCol && col < endCol
		}
		if line == startLine {
			return col >= startCol
		}
		if line == endLine {
			return col < endCol
		}
		return true
	default:
		return false
	}
}

// YankVisualSelection yanks and clears the active visual selection,
// returning the cursor to the start of the selection (vim behavior).
func (r *Reader) YankVisualSelection(now time.Time) (string, bool) {
	startLine, startCol, endLine, endCol, ok := r.VisualSelectionRange()
	if !ok {
		return "", false
	}

	var text string
	switch r.NormalMode.Visual {
	case VisualModeLine:
		text = extractLines(r.Source, startLine, endLine)
	case VisualModeChar:
		text = extractText(r.Source, startLine, startCol, endLine, endCol)
	default:
		return "", false
	}

	r.setYankHighlight(startLine, startCol, endLine, endCol, now)
	r.NormalMode.Cursor.Line = startLine
	r.NormalMode.Cursor.Column = startCol
	r.NormalMode.ExitVisual()
	return text, true
}
