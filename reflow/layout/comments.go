package layout

import (
	"strings"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/document"
)

const commentQuotePad = "  "

// commentLines word-wraps a comment's own text into a LineComment block,
// indented two columns under the node it's attached to.
func (r *renderer) commentLines(c annotation.Comment, target int) []document.RenderedLine {
	width := r.cfg.Width - len(commentQuotePad)
	tokens, _ := tokenize([]document.Inline{{Kind: document.InlineText, Text: c.Content}})
	wrapped := wrapTokens(tokens, width, nil)

	out := make([]document.RenderedLine, 0, len(wrapped))
	for _, wl := range wrapped {
		raw := commentQuotePad + wl.raw
		out = append(out, document.RenderedLine{
			Kind:               document.LineComment,
			Raw:                raw,
			Spans:              []document.Span{{Text: raw, Style: document.StyleEmphasis}},
			CommentChapterHref: c.ChapterHref,
			CommentTarget:      target,
		})
	}
	return out
}

// BackfillContext derives the quoted source text for target, for a comment
// loaded from storage with an empty Context. PDF targets carry their own
// PdfQuotedText and never need this.
func BackfillContext(doc *document.Document, target annotation.Target) string {
	startIdx, ok1 := target.StartNode()
	endIdx, ok2 := target.EndNode()
	if !ok1 || !ok2 {
		return ""
	}
	var parts []string
	doc.Walk(func(b *document.Block) {
		idx := int(b.Index)
		if idx >= startIdx && idx <= endIdx {
			if text := b.JoinedText(); text != "" {
				parts = append(parts, text)
			}
		}
	})
	return strings.Join(parts, " ")
}
