package pdfreader

import (
	"strconv"

	"github.com/bugzmanov/bookokrat/pdf/pagenum"
)

// PageJumpMode selects which addressing scheme the go-to-page modal uses:
// printed/content page numbers, or raw PDF page indices.
type PageJumpMode int

const (
	PageJumpModePdf PageJumpMode = iota
	PageJumpModeContent
)

// GoToPageState is the go-to-page modal's input state, opened by `:` or
// Enter in normal mode.
type GoToPageState struct {
	Active    bool
	ModeValue PageJumpMode
	Input     string
	Error     string
}

// Open activates the modal. It defaults to Content addressing when the
// page-number tracker has established an offset, otherwise Pdf.
func (g *GoToPageState) Open(tracker *pagenum.Tracker) {
	g.Active = true
	g.Input = ""
	g.Error = ""
	if tracker != nil && tracker.Known() {
		g.ModeValue = PageJumpModeContent
	} else {
		g.ModeValue = PageJumpModePdf
	}
}

// Close dismisses the modal.
func (g *GoToPageState) Close() {
	*g = GoToPageState{}
}

// ToggleMode flips between Content and Pdf addressing, only meaningful when
// a page-number offset is known; the caller is expected to guard the key
// binding on tracker.Known() before calling this.
func (g *GoToPageState) ToggleMode() {
	if g.ModeValue == PageJumpModePdf {
		g.ModeValue = PageJumpModeContent
	} else {
		g.ModeValue = PageJumpModePdf
	}
}

// Resolve converts the modal's input and mode into a 0-based PDF page
// index, consulting tracker for Content-mode addressing. ok is false if the
// input doesn't parse, is out of range, or Content addressing was
// requested without a known offset.
func (g *GoToPageState) Resolve(tracker *pagenum.Tracker, pageCount int) (pdfIndex int, ok bool) {
	n, err := strconv.Atoi(g.Input)
	if err != nil || n <= 0 {
		return 0, false
	}
	switch g.ModeValue {
	case PageJumpModeContent:
		idx, known := tracker.MapPrintedToPdf(n)
		if !known {
			return 0, false
		}
		pdfIndex = idx
	default:
		pdfIndex = n - 1
	}
	if pdfIndex < 0 || (pageCount > 0 && pdfIndex >= pageCount) {
		return 0, false
	}
	return pdfIndex, true
}
