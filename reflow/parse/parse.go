// Package parse turns an EPUB chapter's (X)HTML bytes into a document.Document:
// walk the DOM emitting blocks and text runs, classify inline formatting and
// links, and apply the dialog-grouping and href-decoding post-processing passes.
package parse

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bugzmanov/bookokrat/css"
	"github.com/bugzmanov/bookokrat/document"
)

// Context carries the information needed to classify a link's LinkType: the
// href of the chapter being parsed (for same-chapter anchor detection) and a
// predicate recognizing other spine hrefs (for internal-chapter links). It
// also carries the raw bytes of any externally linked stylesheets
// (<link rel="stylesheet">) the caller resolved against the EPUB manifest;
// embedded <style> elements need no such help, Parse finds and parses those
// itself.
type Context struct {
	ChapterHref string
	IsSpineHref func(hrefWithoutFragment string) bool
	ExternalCSS [][]byte
}

// Parse walks data as (X)HTML and returns the resulting Document. Class
// selectors from embedded <style> blocks and ctx.ExternalCSS are resolved
// into a best-effort document.Style per class, used to classify inline runs
// whose formatting comes from a CSS rule rather than a <b>/<em>/<code> tag.
func Parse(data []byte, ctx Context) (*document.Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	body := findBody(root)
	if body == nil {
		body = root
	}

	b := document.NewBuilder()
	p := &parser{b: b, ctx: ctx, classStyles: collectClassStyles(root, ctx.ExternalCSS)}
	p.walkChildren(body, func(blk *document.Block) { b.Append(blk) })

	doc := b.Build()
	groupDialogParagraphs(doc)
	return doc, nil
}

// collectClassStyles parses every embedded <style> element found anywhere
// in root plus externalCSS, and resolves each simple class selector
// (".foo", never "p.foo" or descendant forms) to a single best-effort
// document.Style from its declared properties.
func collectClassStyles(root *html.Node, externalCSS [][]byte) map[string]document.Style {
	var buf bytes.Buffer
	collectStyleText(root, &buf)
	for _, sheet := range externalCSS {
		buf.Write(sheet)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return nil
	}

	sheet := css.NewParser(nil).Parse(buf.Bytes(), "chapter")
	out := make(map[string]document.Style)
	for _, item := range sheet.Items {
		if item.Rule == nil {
			continue
		}
		sel := item.Rule.Selector
		if sel.Class == "" || sel.Element != "" || sel.IsDescendant() {
			continue
		}
		if st, ok := styleFromProperties(item.Rule.Properties); ok {
			out[sel.Class] = st
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func collectStyleText(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Style {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
				buf.WriteByte('\n')
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectStyleText(c, buf)
	}
}

// styleFromProperties picks one document.Style from a rule's declared CSS
// properties, in the same priority order the rule's properties would visibly
// compete in: bold beats italic beats monospace beats strikethrough.
func styleFromProperties(props map[string]css.Value) (document.Style, bool) {
	if v, ok := props["font-weight"]; ok {
		switch strings.ToLower(v.Raw) {
		case "bold", "bolder", "700", "800", "900":
			return document.StyleStrong, true
		}
	}
	if v, ok := props["font-style"]; ok && strings.ToLower(v.Raw) == "italic" {
		return document.StyleEmphasis, true
	}
	if v, ok := props["font-family"]; ok {
		fam := strings.ToLower(v.Raw)
		if strings.Contains(fam, "mono") || strings.Contains(fam, "courier") {
			return document.StyleCode, true
		}
	}
	if v, ok := props["text-decoration"]; ok && strings.Contains(strings.ToLower(v.Raw), "line-through") {
		return document.StyleStrikethrough, true
	}
	return document.StyleNone, false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

type parser struct {
	b           *document.Builder
	ctx         Context
	classStyles map[string]document.Style
}

// walkChildren emits one or more top-level blocks for each child of n,
// handing each to emit. Consecutive inline/text content is accumulated into
// an implicit paragraph.
func (p *parser) walkChildren(n *html.Node, emit func(*document.Block)) {
	var pending []document.Inline
	flush := func() {
		pending = trimInlineWhitespace(pending)
		if len(pending) == 0 {
			return
		}
		blk := p.b.Next(document.BlockParagraph)
		blk.Inlines = pending
		emit(blk)
		pending = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			pending = append(pending, document.Inline{Kind: document.InlineText, Text: c.Data})
		case html.ElementNode:
			if c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Head {
				continue
			}
			if blk, ok := p.blockForElement(c); ok {
				flush()
				emit(blk)
				continue
			}
			if isInlineContainer(c.DataAtom) {
				pending = append(pending, p.inlineNode(c, document.StyleNone)...)
				continue
			}
			// Unknown/transparent container: flush the pending inline run,
			// then recurse so its children become blocks of their own.
			flush()
			p.walkChildren(c, emit)
		}
	}
	flush()
}

// blockForElement returns the Block for n if n maps directly to a block
// kind (heading/list/table/blockquote/math/code/hr), and false otherwise —
// callers should then treat n as inline or a transparent container.
func (p *parser) blockForElement(n *html.Node) (*document.Block, bool) {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level, _ := strconv.Atoi(strings.TrimPrefix(n.Data, "h"))
		blk := p.b.Next(document.BlockHeading)
		blk.HeadingLevel = level
		blk.HeadingID = attr(n, "id")
		blk.AnchorID = blk.HeadingID
		blk.Inlines = p.inlineRun(n)
		return blk, true
	case atom.P:
		blk := p.b.Next(document.BlockParagraph)
		blk.AnchorID = attr(n, "id")
		blk.Inlines = p.inlineRun(n)
		return blk, true
	case atom.Ul, atom.Ol:
		return p.listBlock(n), true
	case atom.Table:
		return p.tableBlock(n), true
	case atom.Blockquote:
		blk := p.b.Next(document.BlockBlockQuote)
		blk.AnchorID = attr(n, "id")
		p.walkChildren(n, func(c *document.Block) { blk.Children = append(blk.Children, c) })
		return blk, true
	case atom.Hr:
		return p.b.Next(document.BlockThematicBreak), true
	case atom.Pre:
		blk := p.b.Next(document.BlockCodeBlock)
		blk.CodeText = textContent(n)
		blk.CodeLanguage = codeLanguageOf(n)
		return blk, true
	case atom.Dl:
		blk := p.b.Next(document.BlockDefinitionList)
		p.walkChildren(n, func(c *document.Block) { blk.Children = append(blk.Children, c) })
		return blk, true
	}
	if n.Data == "math" {
		return p.mathBlock(n), true
	}
	if group := epubType(n); group != "" && isEpubGroupContainer(n.DataAtom) {
		blk := p.b.Next(document.BlockEpubBlock)
		blk.AnchorID = attr(n, "id")
		blk.EpubGroupName = group
		p.walkChildren(n, func(c *document.Block) { blk.Children = append(blk.Children, c) })
		return blk, true
	}
	return nil, false
}

func isEpubGroupContainer(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Aside:
		return true
	default:
		return false
	}
}

// inlineRun collects n's descendants as a flat run of Inline values,
// tracking a single active Style at a time (styles never nest).
func (p *parser) inlineRun(n *html.Node) []document.Inline {
	run := p.inlinesFor(n, document.StyleNone)
	return trimInlineWhitespace(run)
}

func (p *parser) inlinesFor(n *html.Node, style document.Style) []document.Inline {
	var out []document.Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data == "" {
				continue
			}
			out = append(out, document.Inline{Kind: document.InlineText, Text: c.Data, Style: style})
		case html.ElementNode:
			out = append(out, p.inlineNode(c, style)...)
		}
	}
	return out
}

// inlineNode returns the Inline value(s) a single inline-context element n
// contributes, given the Style in effect from its ancestors.
func (p *parser) inlineNode(n *html.Node, style document.Style) []document.Inline {
	switch n.DataAtom {
	case atom.Script, atom.Style:
		return nil
	case atom.Br:
		return []document.Inline{{Kind: document.InlineHardBreak}}
	case atom.Strong, atom.B:
		return p.inlinesFor(n, document.StyleStrong)
	case atom.Em, atom.I:
		return p.inlinesFor(n, document.StyleEmphasis)
	case atom.Code:
		return p.inlinesFor(n, document.StyleCode)
	case atom.Del, atom.S, atom.Strike:
		return p.inlinesFor(n, document.StyleStrikethrough)
	case atom.A:
		return []document.Inline{p.linkInline(n)}
	case atom.Img:
		return []document.Inline{p.imageInline(n)}
	default:
		return p.inlinesFor(n, p.classStyle(n, style))
	}
}

// classStyle resolves n's class attribute against the chapter's collected
// class selectors, returning the first match or the inherited style if none
// of n's classes carry a rule.
func (p *parser) classStyle(n *html.Node, inherited document.Style) document.Style {
	if len(p.classStyles) == 0 {
		return inherited
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if st, ok := p.classStyles[class]; ok {
			return st
		}
	}
	return inherited
}

func (p *parser) linkInline(n *html.Node) document.Inline {
	href := decodeHrefPercent(attr(n, "href"))
	return document.Inline{
		Kind:     document.InlineLink,
		LinkURL:  href,
		LinkText: textContent(n),
		LinkType: p.classifyLink(href),
	}
}

func (p *parser) imageInline(n *html.Node) document.Inline {
	return document.Inline{
		Kind:     document.InlineImage,
		ImageAlt: attr(n, "alt"),
		ImageURL: decodeHrefPercent(attr(n, "src")),
	}
}

// classifyLink determines whether href is external, points elsewhere in the
// spine, or is a same-chapter anchor.
func (p *parser) classifyLink(href string) document.LinkType {
	if href == "" {
		return document.LinkExternal
	}
	if strings.HasPrefix(href, "#") {
		return document.LinkInternalAnchor
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return document.LinkExternal
	}

	target := resolveRelative(p.ctx.ChapterHref, href)
	if target == p.ctx.ChapterHref {
		return document.LinkInternalAnchor
	}
	if p.ctx.IsSpineHref != nil && p.ctx.IsSpineHref(target) {
		return document.LinkInternalChapter
	}
	return document.LinkExternal
}

func resolveRelative(base, href string) string {
	withoutFragment, _, _ := strings.Cut(href, "#")
	if withoutFragment == "" {
		return base
	}
	if strings.HasPrefix(withoutFragment, "/") {
		return strings.TrimPrefix(withoutFragment, "/")
	}
	dir := path.Dir(base)
	if dir == "." {
		dir = ""
	}
	return path.Clean(path.Join(dir, withoutFragment))
}

func decodeHrefPercent(href string) string {
	decoded, err := url.PathUnescape(href)
	if err != nil {
		return href
	}
	return decoded
}

func (p *parser) listBlock(n *html.Node) *document.Block {
	blk := p.b.Next(document.BlockList)
	blk.AnchorID = attr(n, "id")
	if n.DataAtom == atom.Ol {
		blk.ListKindValue = document.ListOrdered
		blk.ListStart = 1
		if v, err := strconv.Atoi(attr(n, "start")); err == nil {
			blk.ListStart = v
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			blk.Items = append(blk.Items, p.listItemBlock(c))
		}
	}
	return blk
}

func (p *parser) listItemBlock(n *html.Node) *document.Block {
	blk := p.b.Next(document.BlockListItem)
	blk.AnchorID = attr(n, "id")
	p.walkChildren(n, func(c *document.Block) { blk.Children = append(blk.Children, c) })
	return blk
}

func (p *parser) tableBlock(n *html.Node) *document.Block {
	blk := p.b.Next(document.BlockTable)
	blk.AnchorID = attr(n, "id")

	var bodyRows []*html.Node
	forEachChildElement(n, func(c *html.Node) {
		switch c.DataAtom {
		case atom.Thead:
			forEachChildElement(c, func(tr *html.Node) {
				if tr.DataAtom == atom.Tr && blk.TableHeader == nil {
					row := p.tableRow(tr)
					blk.TableHeader = &row
				}
			})
		case atom.Tbody, atom.Tfoot:
			forEachChildElement(c, func(tr *html.Node) {
				if tr.DataAtom == atom.Tr {
					bodyRows = append(bodyRows, tr)
				}
			})
		case atom.Tr:
			bodyRows = append(bodyRows, c)
		}
	})

	if blk.TableHeader == nil && len(bodyRows) > 0 && rowIsAllHeaderCells(bodyRows[0]) {
		row := p.tableRow(bodyRows[0])
		blk.TableHeader = &row
		bodyRows = bodyRows[1:]
	}

	for _, tr := range bodyRows {
		blk.TableRows = append(blk.TableRows, p.tableRow(tr))
	}
	return blk
}

func rowIsAllHeaderCells(tr *html.Node) bool {
	found := false
	allTh := true
	forEachChildElement(tr, func(c *html.Node) {
		if c.DataAtom != atom.Th && c.DataAtom != atom.Td {
			return
		}
		found = true
		if c.DataAtom != atom.Th {
			allTh = false
		}
	})
	return found && allTh
}

func (p *parser) tableRow(tr *html.Node) document.TableRow {
	var row document.TableRow
	forEachChildElement(tr, func(c *html.Node) {
		if c.DataAtom != atom.Td && c.DataAtom != atom.Th {
			return
		}
		if hasRichCellContent(c) {
			var children []*document.Block
			p.walkChildren(c, func(blk *document.Block) { children = append(children, blk) })
			row.Cells = append(row.Cells, document.TableCell{Blocks: children})
		} else {
			row.Cells = append(row.Cells, document.TableCell{Inlines: p.inlineRun(c)})
		}
	})
	return row
}

func hasRichCellContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.P, atom.Ul, atom.Ol, atom.Table, atom.Blockquote, atom.Div:
				return true
			}
		}
	}
	return false
}

func forEachChildElement(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			fn(c)
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func epubType(n *html.Node) string {
	return attr(n, "epub:type")
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func codeLanguageOf(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			for _, class := range strings.Fields(attr(c, "class")) {
				if lang, ok := strings.CutPrefix(class, "language-"); ok {
					return lang
				}
			}
		}
	}
	return ""
}

func trimInlineWhitespace(in []document.Inline) []document.Inline {
	start := 0
	for start < len(in) && in[start].Kind == document.InlineText && strings.TrimSpace(in[start].Text) == "" {
		start++
	}
	end := len(in)
	for end > start && in[end-1].Kind == document.InlineText && strings.TrimSpace(in[end-1].Text) == "" {
		end--
	}
	return in[start:end]
}

// dashPrefixes lists the Unicode dash characters that trigger dialog
// grouping of consecutive paragraphs.
var dashPrefixes = []rune{'-', '‐', '‑', '‒', '–', '—'}

func startsWithDash(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	first := []rune(s)[0]
	for _, d := range dashPrefixes {
		if first == d {
			return true
		}
	}
	return false
}

// groupDialogParagraphs merges runs of consecutive top-level dash-prefixed
// paragraphs into a single paragraph joined by hard breaks.
func groupDialogParagraphs(doc *document.Document) {
	var out []*document.Block
	i := 0
	for i < len(doc.Blocks) {
		blk := doc.Blocks[i]
		if blk.Kind != document.BlockParagraph || len(blk.Inlines) == 0 || !startsWithDash(firstText(blk.Inlines)) {
			out = append(out, blk)
			i++
			continue
		}
		merged := blk
		j := i + 1
		for j < len(doc.Blocks) {
			next := doc.Blocks[j]
			if next.Kind != document.BlockParagraph || len(next.Inlines) == 0 || !startsWithDash(firstText(next.Inlines)) {
				break
			}
			merged.Inlines = append(merged.Inlines, document.Inline{Kind: document.InlineHardBreak})
			merged.Inlines = append(merged.Inlines, next.Inlines...)
			j++
		}
		out = append(out, merged)
		i = j
	}
	doc.Blocks = out
}

func firstText(inlines []document.Inline) string {
	for _, in := range inlines {
		if in.Kind == document.InlineText {
			return in.Text
		}
	}
	return ""
}

// isInlineContainer reports whether a is an inline-formatting element that,
// when found as a direct child of a block-context node, should be merged
// into the surrounding implicit paragraph rather than recursed into as a
// transparent block container.
func isInlineContainer(a atom.Atom) bool {
	switch a {
	case atom.A, atom.Span, atom.Strong, atom.B, atom.Em, atom.I, atom.Code,
		atom.Del, atom.S, atom.Strike, atom.Img, atom.Br, atom.Sup, atom.Sub,
		atom.Small, atom.Abbr, atom.Cite, atom.Mark, atom.U:
		return true
	default:
		return false
	}
}

// mathBlock renders a <math> (MathML) element to an ASCII approximation.
// On failure — an element this converter does not understand — it falls
// back to a code block whose language records the error.
func (p *parser) mathBlock(n *html.Node) *document.Block {
	ascii, err := mathToASCII(n)
	if err != nil {
		blk := p.b.Next(document.BlockCodeBlock)
		blk.CodeLanguage = "mathml-error: " + err.Error()
		blk.CodeText = textContent(n)
		return blk
	}
	blk := p.b.Next(document.BlockParagraph)
	blk.Inlines = []document.Inline{{Kind: document.InlineText, Text: ascii}}
	return blk
}

// mathToASCII converts a small, common subset of MathML presentation markup
// (mrow, mi, mn, mo, msup, msub, mfrac, msqrt) to an ASCII approximation
// (a^b, a_b, (a)/(b), sqrt(a)). Any other element is reported as an error.
func mathToASCII(n *html.Node) (string, error) {
	switch {
	case n.Type == html.TextNode:
		return n.Data, nil
	case n.Type != html.ElementNode:
		return "", nil
	}

	tag := n.Data
	switch tag {
	case "math", "mrow", "mstyle", "mtext", "mi", "mn", "mo", "mpadded":
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			s, err := mathToASCII(c)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	case "msup":
		base, exp, err := mathPair(n)
		if err != nil {
			return "", err
		}
		return base + "^" + exp, nil
	case "msub":
		base, sub, err := mathPair(n)
		if err != nil {
			return "", err
		}
		return base + "_" + sub, nil
	case "mfrac":
		num, den, err := mathPair(n)
		if err != nil {
			return "", err
		}
		return "(" + num + ")/(" + den + ")", nil
	case "msqrt":
		inner, err := mathToASCII(firstElementChild(n))
		if err != nil {
			return "", err
		}
		return "sqrt(" + inner + ")", nil
	default:
		return "", fmt.Errorf("unsupported mathml element %q", tag)
	}
}

func mathPair(n *html.Node) (first, second string, err error) {
	a := firstElementChild(n)
	if a == nil {
		return "", "", fmt.Errorf("mathml %q: missing first operand", n.Data)
	}
	b := nextElementSibling(a)
	if b == nil {
		return "", "", fmt.Errorf("mathml %q: missing second operand", n.Data)
	}
	first, err = mathToASCII(a)
	if err != nil {
		return "", "", err
	}
	second, err = mathToASCII(b)
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

func firstElementChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
