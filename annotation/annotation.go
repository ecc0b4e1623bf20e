// Package annotation implements a persistent, coordinate-robust comment
// store: per-book JSON persistence, targets addressed by paragraph/range/
// code-block/PDF coordinates, and back-fill of missing quoted context.
package annotation

import (
	"time"

	"github.com/google/uuid"
)

// TargetKind discriminates the tagged union a Target holds.
type TargetKind int

const (
	TargetParagraph TargetKind = iota
	TargetParagraphRange
	TargetCodeBlock
	TargetPdf
)

// Rect is an axis-aligned rectangle in PDF page coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// LineRange is an inclusive [Start, End] range of logical code-block lines.
type LineRange struct {
	Start, End int
}

// Target is a coordinate-robust description of what a Comment annotates.
// Exactly the fields relevant to Kind are meaningful.
type Target struct {
	Kind TargetKind

	// TargetParagraph (legacy form)
	ParagraphIndex int
	WordRangeSet   bool
	WordStart      int
	WordEnd        int

	// TargetParagraphRange
	StartParagraphIndex int
	EndParagraphIndex   int
	StartWordOffsetSet  bool
	StartWordOffset     int
	EndWordOffsetSet    bool
	EndWordOffset       int
	ListItemIndexSet    bool
	ListItemIndex       int

	// TargetCodeBlock
	CodeParagraphIndex int
	LineRangeValue     LineRange

	// TargetPdf
	PdfPage       int
	PdfRects      []Rect
	PdfQuotedText string
}

// Comment is a single stored annotation.
type Comment struct {
	ID            string
	ChapterHref   string
	Target        Target
	Content       string
	Context       string
	HighlightOnly bool
	UpdatedAt     time.Time
}

// NewComment returns a Comment with a fresh stable UUID assigned at creation.
func NewComment(chapterHref string, target Target, content string) Comment {
	return Comment{
		ID:          uuid.NewString(),
		ChapterHref: chapterHref,
		Target:      target,
		Content:     content,
		UpdatedAt:   time.Now(),
	}
}

// StartNode and EndNode return the paragraph/node-index span a Target
// covers, used by reflow/layout to decide where a quote box attaches.
// For TargetPdf, ok is false: PDF targets are not node-indexed.
func (t Target) StartNode() (idx int, ok bool) {
	switch t.Kind {
	case TargetParagraph:
		return t.ParagraphIndex, true
	case TargetParagraphRange:
		return t.StartParagraphIndex, true
	case TargetCodeBlock:
		return t.CodeParagraphIndex, true
	default:
		return 0, false
	}
}

func (t Target) EndNode() (idx int, ok bool) {
	switch t.Kind {
	case TargetParagraph:
		return t.ParagraphIndex, true
	case TargetParagraphRange:
		return t.EndParagraphIndex, true
	case TargetCodeBlock:
		return t.CodeParagraphIndex, true
	default:
		return 0, false
	}
}
