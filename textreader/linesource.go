// Package textreader implements the EPUB reader's vim-like interaction
// layer: normal/visual mode motions, counted repeats, yank with text
// objects, find-char search, in-chapter search and the comment-input popup
// state machine described for the reading engine's text side. Like
// pdfreader, it owns no terminal I/O or styled output; it operates purely
// on line/column coordinates and emits plain values the shell reconciles
// against reflow/layout's rendered rows, jumplist, bookmark and the
// annotation store.
package textreader

import "unicode"

// LineSource is the read-only view of the current chapter's wrapped lines
// that motions and text objects need. It decouples this package from
// reflow/layout and document so the cursor engine can be unit tested
// against a plain string slice instead of a full render pass.
type LineSource interface {
	// LineCount returns the number of wrapped lines in the current chapter.
	LineCount() int
	// LineText returns the rune content of line, or "" if out of range.
	LineText(line int) string
	// Skippable reports whether a vertical motion must step over line
	// entirely (image placeholders and blank lines are never a valid
	// cursor resting place).
	Skippable(line int) bool
}

// StringLines is a LineSource backed by a plain slice, used directly by
// tests and by any caller that has already reduced a chapter to raw text
// lines.
type StringLines []string

func (s StringLines) LineCount() int { return len(s) }

func (s StringLines) LineText(line int) string {
	if line < 0 || line >= len(s) {
		return ""
	}
	return s[line]
}

func (s StringLines) Skippable(line int) bool {
	text := s.LineText(line)
	return isBlank(text)
}

func lineLen(src LineSource, line int) int {
	return len([]rune(src.LineText(line)))
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func firstNonWhitespaceColumn(src LineSource, line int) int {
	for i, r := range []rune(src.LineText(line)) {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return 0
}

// findNextValidLine walks from `from` in `direction` (+1 or -1) until it
// finds a non-skippable line, clamping at the document bounds.
func findNextValidLine(src LineSource, from, direction int) int {
	maxLine := src.LineCount() - 1
	if maxLine < 0 {
		return 0
	}
	line := from
	for {
		if !src.Skippable(line) {
			return line
		}
		if direction > 0 {
			if line >= maxLine {
				return maxLine
			}
			line++
		} else {
			if line <= 0 {
				return 0
			}
			line--
		}
	}
}

func clampColumnToLineLength(src LineSource, line, col int) int {
	n := lineLen(src, line)
	if n == 0 {
		return 0
	}
	if col > n-1 {
		return n - 1
	}
	if col < 0 {
		return 0
	}
	return col
}

func isLineBlank(src LineSource, line int) bool {
	return isBlank(src.LineText(line))
}
