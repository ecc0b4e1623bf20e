package app

import (
	"strings"

	"github.com/bugzmanov/bookokrat/document"
)

// reflowedLines adapts a reflow/layout.Result's rendered rows to the
// textreader.LineSource interface, so the vim-motion engine can walk the
// same rows the shell actually draws without depending on reflow or
// document directly.
type reflowedLines struct {
	lines []document.RenderedLine
}

func newReflowedLines(lines []document.RenderedLine) *reflowedLines {
	return &reflowedLines{lines: lines}
}

func (r *reflowedLines) LineCount() int { return len(r.lines) }

func (r *reflowedLines) LineText(line int) string {
	if line < 0 || line >= len(r.lines) {
		return ""
	}
	return r.lines[line].Raw
}

func (r *reflowedLines) Skippable(line int) bool {
	if line < 0 || line >= len(r.lines) {
		return true
	}
	ln := r.lines[line]
	switch ln.Kind {
	case document.LineImagePlaceholder, document.LineEmpty, document.LineHorizontalRule:
		return true
	}
	return strings.TrimSpace(ln.Raw) == ""
}

func (r *reflowedLines) at(line int) (document.RenderedLine, bool) {
	if line < 0 || line >= len(r.lines) {
		return document.RenderedLine{}, false
	}
	return r.lines[line], true
}
