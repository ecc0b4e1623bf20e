package layout

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/bugzmanov/bookokrat/document"
)

func (r *renderer) renderParagraph(blk *document.Block, ctx renderCtx) {
	pad := strings.Repeat(" ", ctx.indent)
	lines := r.layoutFlow(blk.Inlines, r.cfg.Width-ctx.indent, pad)
	r.finalizeLines(lines, ctx)
	r.appendLines(blk.Index, collectAnchorIDs(blk), lines)
}

func (r *renderer) renderHeading(blk *document.Block, ctx renderCtx) {
	pad := strings.Repeat(" ", ctx.indent)
	inlines := blk.Inlines
	if blk.HeadingLevel == 1 {
		inlines = upperInlines(inlines)
	}
	lines := r.layoutFlow(inlines, r.cfg.Width-ctx.indent, pad)
	for i := range lines {
		lines[i].Kind = document.LineHeading
		lines[i].HeadingLevel = blk.HeadingLevel
	}
	if len(lines) > 0 {
		lines[len(lines)-1].HeadingDecoration = blk.HeadingLevel == 1 || blk.HeadingLevel == 2
	}
	r.finalizeLines(lines, ctx)
	r.appendLines(blk.Index, r.headingAnchorIDs(blk), lines)

	switch blk.HeadingLevel {
	case 1:
		r.lines = append(r.lines, r.rulerLine('═', ctx.indent))
	case 2:
		r.lines = append(r.lines, r.rulerLine('─', ctx.indent))
	}
	r.lines = append(r.lines, document.RenderedLine{Kind: document.LineEmpty})
}

func upperInlines(inlines []document.Inline) []document.Inline {
	out := make([]document.Inline, len(inlines))
	for i, in := range inlines {
		out[i] = in
		if in.Kind == document.InlineText {
			out[i].Text = strings.ToUpper(in.Text)
		}
	}
	return out
}

func (r *renderer) rulerLine(ch rune, indent int) document.RenderedLine {
	pad := strings.Repeat(" ", indent)
	barWidth := r.cfg.Width - indent
	if barWidth < 1 {
		barWidth = 1
	}
	raw := pad + strings.Repeat(string(ch), barWidth)
	return document.RenderedLine{Kind: document.LineHorizontalRule, Raw: raw, Spans: []document.Span{{Text: raw}}}
}

func (r *renderer) renderList(blk *document.Block, ctx renderCtx) {
	for i, item := range blk.Items {
		var bullet string
		if blk.ListKindValue == document.ListOrdered {
			start := blk.ListStart
			if start == 0 {
				start = 1
			}
			bullet = strconv.Itoa(start+i) + ". "
		} else {
			bullet = "• "
		}
		outerFirst := ""
		if i == 0 {
			outerFirst = ctx.firstPrefix
		}
		r.renderListItem(item, ctx.indent, bullet, outerFirst, blk.ListKindValue)
	}
}

func (r *renderer) renderListItem(item *document.Block, indent int, bullet, outerFirstPrefix string, kind document.ListKind) {
	itemIndent := indent + utf8.RuneCountInString(bullet)
	var ownFirstPrefix string
	if outerFirstPrefix != "" {
		ownFirstPrefix = outerFirstPrefix + bullet
	} else {
		ownFirstPrefix = strings.Repeat(" ", indent) + bullet
	}

	childCtx := renderCtx{indent: itemIndent, inList: true, listIndent: itemIndent, listKind: kind}
	startGlobal := len(r.lines)
	for i, child := range item.Children {
		cc := childCtx
		if i == 0 {
			cc.firstPrefix = ownFirstPrefix
		}
		r.renderBlock(child, cc)
	}
	if item.AnchorID != "" && len(r.lines) > startGlobal {
		r.anchorPositions[item.AnchorID] = startGlobal
	}
	r.finishNode(item.Index)
}

func (r *renderer) renderCodeBlock(blk *document.Block, ctx renderCtx) {
	pad := strings.Repeat(" ", ctx.indent)
	rawLines := strings.Split(blk.CodeText, "\n")
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}
	lines := make([]document.RenderedLine, 0, len(rawLines))
	for i, lt := range rawLines {
		raw := pad + lt
		lines = append(lines, document.RenderedLine{
			Kind:         document.LineCodeBlock,
			Raw:          raw,
			Spans:        []document.Span{{Text: raw, Style: document.StyleCode}},
			CodeLanguage: blk.CodeLanguage,
			CodeLine:     &document.CodeLineRef{NodeIndex: blk.Index, LogicalLine: i},
		})
	}
	r.finalizeLines(lines, ctx)
	r.appendLines(blk.Index, collectAnchorIDs(blk), lines)
}

func (r *renderer) renderThematicBreak(blk *document.Block, ctx renderCtx) {
	lines := []document.RenderedLine{r.rulerLine('─', ctx.indent)}
	r.finalizeLines(lines, ctx)
	r.appendLines(blk.Index, collectAnchorIDs(blk), lines)
}

// layoutFlow word-wraps a run of inlines, splitting the flow into separate
// wrapped segments around any InlineImage (which always breaks onto its own
// placeholder row). Every produced line is prefixed with pad.
func (r *renderer) layoutFlow(inlines []document.Inline, width int, pad string) []document.RenderedLine {
	var out []document.RenderedLine
	var segment []document.Inline

	flushSegment := func() {
		if len(segment) == 0 {
			return
		}
		tokens, links := tokenize(segment)
		for _, wl := range wrapTokens(tokens, width, r.cfg.Hyphenator) {
			out = append(out, toRenderedLine(wl, pad, links))
		}
		segment = nil
	}

	for _, in := range inlines {
		if in.Kind == document.InlineImage {
			flushSegment()
			out = append(out, imagePlaceholderLine(in, pad))
			continue
		}
		segment = append(segment, in)
	}
	flushSegment()
	return out
}

func toRenderedLine(wl wrappedLine, pad string, links []linkInfo) document.RenderedLine {
	raw := pad + wl.raw
	spans := make([]document.Span, 0, len(wl.spans)+1)
	if pad != "" {
		spans = append(spans, document.Span{Text: pad})
	}
	spans = append(spans, wl.spans...)

	offset := utf8.RuneCountInString(pad)
	var occ []document.LinkOccurrence
	for _, lr := range wl.links {
		info := links[lr.linkIdx]
		occ = append(occ, document.LinkOccurrence{
			Start:    lr.start + offset,
			End:      lr.end + offset,
			URL:      info.url,
			LinkType: info.linkType,
		})
	}
	return document.RenderedLine{Kind: document.LineText, Raw: raw, Spans: spans, Links: occ}
}

func imagePlaceholderLine(in document.Inline, pad string) document.RenderedLine {
	label := "[image]"
	if in.ImageAlt != "" {
		label = "[image: " + in.ImageAlt + "]"
	}
	raw := pad + label
	return document.RenderedLine{
		Kind:     document.LineImagePlaceholder,
		Raw:      raw,
		Spans:    []document.Span{{Text: raw}},
		ImageSrc: in.ImageURL,
	}
}

func (r *renderer) renderTableBlock(blk *document.Block, ctx renderCtx) {
	lines := r.renderTable(blk, ctx.indent)
	r.finalizeLines(lines, ctx)
	r.appendLines(blk.Index, collectAnchorIDs(blk), lines)
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func cellText(c document.TableCell) string {
	if len(c.Blocks) > 0 {
		parts := make([]string, len(c.Blocks))
		for i, b := range c.Blocks {
			parts[i] = b.JoinedText()
		}
		return strings.Join(parts, " ")
	}
	tmp := &document.Block{Inlines: c.Inlines}
	return tmp.JoinedText()
}

// renderTable lays a table out into simple ASCII cells: columns split the
// available width evenly (any remainder going to the last column), with a
// "│"-separated, space-padded grid and a rule under the header row. Cells
// with rich block content fall back to their plain joined text; this does
// not attempt nested inline formatting or per-column CSS-style sizing.
func (r *renderer) renderTable(blk *document.Block, indent int) []document.RenderedLine {
	pad := strings.Repeat(" ", indent)
	width := r.cfg.Width - indent

	colCount := 0
	if blk.TableHeader != nil {
		colCount = len(blk.TableHeader.Cells)
	}
	for _, row := range blk.TableRows {
		if len(row.Cells) > colCount {
			colCount = len(row.Cells)
		}
	}
	if colCount == 0 {
		return nil
	}

	const sep = " │ "
	avail := width - utf8.RuneCountInString(sep)*(colCount-1)
	if avail < colCount {
		avail = colCount
	}
	colWidth := avail / colCount
	if colWidth < 1 {
		colWidth = 1
	}
	extra := avail - colWidth*colCount

	var out []document.RenderedLine
	renderRow := func(row document.TableRow, bold bool) {
		cellLines := make([][]string, colCount)
		rowHeight := 1
		for i := 0; i < colCount; i++ {
			cw := colWidth
			if i == colCount-1 {
				cw += extra
			}
			text := ""
			if i < len(row.Cells) {
				text = cellText(row.Cells[i])
			}
			wrapped := wrapPlainText(text, cw)
			if len(wrapped) == 0 {
				wrapped = []string{""}
			}
			cellLines[i] = wrapped
			if len(wrapped) > rowHeight {
				rowHeight = len(wrapped)
			}
		}
		style := document.StyleNone
		if bold {
			style = document.StyleStrong
		}
		for li := 0; li < rowHeight; li++ {
			var sb strings.Builder
			sb.WriteString(pad)
			for i := 0; i < colCount; i++ {
				cw := colWidth
				if i == colCount-1 {
					cw += extra
				}
				cell := ""
				if li < len(cellLines[i]) {
					cell = cellLines[i][li]
				}
				sb.WriteString(padRight(cell, cw))
				if i < colCount-1 {
					sb.WriteString(sep)
				}
			}
			raw := sb.String()
			out = append(out, document.RenderedLine{Kind: document.LineText, Raw: raw, Spans: []document.Span{{Text: raw, Style: style}}})
		}
	}

	if blk.TableHeader != nil {
		renderRow(*blk.TableHeader, true)
		ruleRaw := pad + strings.Repeat("─", max(1, width))
		out = append(out, document.RenderedLine{Kind: document.LineHorizontalRule, Raw: ruleRaw, Spans: []document.Span{{Text: ruleRaw}}})
	}
	for _, row := range blk.TableRows {
		renderRow(row, false)
	}
	return out
}
