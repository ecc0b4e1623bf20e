// Package layout turns a document.Document into the flat sequence of
// terminal rows (document.RenderedLine) the reader shell actually draws:
// word-wrapping paragraph and heading text to a fixed column width, laying
// out lists, tables and code blocks, slugging heading anchors, and splicing
// in comment quote-blocks after the node they're attached to.
package layout

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/content/text"
	"github.com/bugzmanov/bookokrat/document"
)

// Config controls how a Document is laid out. Width is the only required
// field; Hyphenator may be nil, in which case over-long words are hard-split
// instead of hyphenated.
type Config struct {
	Width      int
	Hyphenator *text.Hyphenator
}

// Result is the output of Layout: the rendered rows, a lookup from anchor id
// (explicit HTML id or slugged heading text) to the row it first appears on,
// and the comments whose quote-blocks were spliced in, addressable by the
// RenderedLine.CommentTarget index of any LineComment row.
type Result struct {
	Lines           []document.RenderedLine
	AnchorPositions map[string]int
	Comments        []annotation.Comment
}

// Layout renders doc at the given width, attaching a quote-block after the
// node any comment in comments targets (skipping highlight-only comments and
// PDF targets, which never attach to a reflowed node).
func Layout(doc *document.Document, cfg Config, comments []annotation.Comment) Result {
	if cfg.Width < 1 {
		cfg.Width = 1
	}
	r := newRenderer(cfg, comments)
	for _, blk := range doc.Blocks {
		r.renderBlock(blk, renderCtx{})
	}
	return Result{Lines: r.lines, AnchorPositions: r.anchorPositions, Comments: r.renderedComments}
}

// renderCtx carries the left-indent and list-marker context a block is
// rendered under; it is threaded down through nested containers rather than
// stored as mutable renderer state so that sibling subtrees never leak state
// into each other.
type renderCtx struct {
	indent int

	// firstPrefix, when non-empty, replaces the leading indent spaces of the
	// very first rendered line produced while processing this block (used to
	// stamp a list bullet onto the first line of a list item's content,
	// however deep that first line happens to be nested).
	firstPrefix string

	inList     bool
	listIndent int
	listKind   document.ListKind
}

type renderer struct {
	cfg              Config
	lines            []document.RenderedLine
	anchorPositions  map[string]int
	usedSlugs        map[string]int
	commentsByEnd    map[int][]annotation.Comment
	renderedComments []annotation.Comment
}

func newRenderer(cfg Config, comments []annotation.Comment) *renderer {
	r := &renderer{
		cfg:             cfg,
		anchorPositions: map[string]int{},
		usedSlugs:       map[string]int{},
		commentsByEnd:   map[int][]annotation.Comment{},
	}
	for _, c := range comments {
		if c.HighlightOnly || c.Target.Kind == annotation.TargetPdf {
			continue
		}
		end, ok := c.Target.EndNode()
		if !ok {
			continue
		}
		r.commentsByEnd[end] = append(r.commentsByEnd[end], c)
	}
	return r
}

func (r *renderer) renderBlock(blk *document.Block, ctx renderCtx) {
	switch blk.Kind {
	case document.BlockParagraph:
		r.renderParagraph(blk, ctx)
	case document.BlockHeading:
		r.renderHeading(blk, ctx)
	case document.BlockList:
		r.renderList(blk, ctx)
	case document.BlockTable:
		r.renderTableBlock(blk, ctx)
	case document.BlockCodeBlock:
		r.renderCodeBlock(blk, ctx)
	case document.BlockThematicBreak:
		r.renderThematicBreak(blk, ctx)
	case document.BlockBlockQuote:
		quoteCtx := ctx
		quoteCtx.indent += 2
		r.renderContainer(blk, quoteCtx)
	case document.BlockDefinitionList:
		ddCtx := ctx
		ddCtx.indent += 2
		r.renderContainer(blk, ddCtx)
	case document.BlockEpubBlock:
		r.renderContainer(blk, ctx)
	}
}

// renderContainer renders a block whose own content lives entirely in
// Children (block-quotes, definition lists, epub semantic groups),
// propagating firstPrefix to only the first child so a bullet from an
// enclosing list item still lands on the true first rendered line.
func (r *renderer) renderContainer(blk *document.Block, ctx renderCtx) {
	startGlobal := len(r.lines)
	for i, c := range blk.Children {
		cc := ctx
		cc.firstPrefix = ""
		if i == 0 {
			cc.firstPrefix = ctx.firstPrefix
		}
		r.renderBlock(c, cc)
	}
	if blk.AnchorID != "" && len(r.lines) > startGlobal {
		r.anchorPositions[blk.AnchorID] = startGlobal
	}
	r.finishNode(blk.Index)
}

// finalizeLines applies ctx's first-line prefix override and list-item
// metadata to a freshly produced run of lines, before they're handed to
// appendLines.
func (r *renderer) finalizeLines(lines []document.RenderedLine, ctx renderCtx) {
	pad := strings.Repeat(" ", ctx.indent)
	if ctx.firstPrefix != "" && len(lines) > 0 {
		lines[0] = overridePrefix(lines[0], pad, ctx.firstPrefix)
	}
	if ctx.inList {
		for i := range lines {
			lines[i].ListItemIndent = ctx.listIndent
			lines[i].ListItemKind = ctx.listKind
			if lines[i].Kind == document.LineText {
				lines[i].Kind = document.LineListItem
			}
		}
	}
}

// appendLines attaches idx as the node index of the first line, registers
// anchorIDs against the position they now occupy, appends the lines, and
// splices in any comment quote-blocks attached to idx.
func (r *renderer) appendLines(idx document.NodeIndex, anchorIDs []string, lines []document.RenderedLine) {
	if len(lines) == 0 {
		r.finishNode(idx)
		return
	}
	startGlobal := len(r.lines)
	nodeCopy := idx
	lines[0].NodeIndex = &nodeCopy
	for _, id := range anchorIDs {
		if id == "" {
			continue
		}
		if lines[0].AnchorID == "" {
			lines[0].AnchorID = id
		}
		r.anchorPositions[id] = startGlobal
	}
	r.lines = append(r.lines, lines...)
	r.finishNode(idx)
}

func (r *renderer) finishNode(idx document.NodeIndex) {
	for _, c := range r.commentsByEnd[int(idx)] {
		target := len(r.renderedComments)
		r.renderedComments = append(r.renderedComments, c)
		r.lines = append(r.lines, r.commentLines(c, target)...)
	}
}

func collectAnchorIDs(blk *document.Block) []string {
	var ids []string
	if blk.AnchorID != "" {
		ids = append(ids, blk.AnchorID)
	}
	for _, in := range blk.Inlines {
		if in.Kind == document.InlineAnchor && in.AnchorID != "" {
			ids = append(ids, in.AnchorID)
		}
	}
	return ids
}

func (r *renderer) headingAnchorIDs(blk *document.Block) []string {
	ids := collectAnchorIDs(blk)
	if blk.AnchorID == "" {
		ids = append([]string{r.slugFor(blk.JoinedText())}, ids...)
	}
	return ids
}

func (r *renderer) slugFor(s string) string {
	base := slug.Make(s)
	if base == "" {
		base = "section"
	}
	n := r.usedSlugs[base]
	r.usedSlugs[base]++
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n+1)
}

// overridePrefix replaces ln's leading pad-width prefix with newPrefix
// (same display width by construction: newPrefix is always built from
// strings.Repeat(" ", n) plus a marker of known width).
func overridePrefix(ln document.RenderedLine, pad, newPrefix string) document.RenderedLine {
	if len(ln.Spans) > 0 && ln.Spans[0].Text == pad {
		ln.Spans[0].Text = newPrefix
	} else if pad != "" {
		ln.Spans = append([]document.Span{{Text: newPrefix}}, ln.Spans...)
	}
	ln.Raw = newPrefix + strings.TrimPrefix(ln.Raw, pad)
	return ln
}
