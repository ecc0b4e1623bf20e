package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/document"
)

func parseChapter(t *testing.T, htmlSrc string) *document.Document {
	t.Helper()
	doc, err := Parse([]byte(htmlSrc), Context{
		ChapterHref: "OEBPS/chapter1.xhtml",
		IsSpineHref: func(href string) bool { return href == "OEBPS/chapter2.xhtml" },
	})
	require.NoError(t, err)
	return doc
}

func TestParseHeadingsAndParagraph(t *testing.T) {
	doc := parseChapter(t, `<html><body><h1 id="top">Title</h1><p>Hello <strong>world</strong>.</p></body></html>`)
	require.Len(t, doc.Blocks, 2)

	h := doc.Blocks[0]
	require.Equal(t, document.BlockHeading, h.Kind)
	require.Equal(t, 1, h.HeadingLevel)
	require.Equal(t, "top", h.AnchorID)

	p := doc.Blocks[1]
	require.Equal(t, document.BlockParagraph, p.Kind)
	require.Equal(t, document.InlineText, p.Inlines[0].Kind)
	require.Equal(t, document.StyleStrong, p.Inlines[1].Style)
	require.Equal(t, "world", p.Inlines[1].Text)
}

func TestParseListWithStart(t *testing.T) {
	doc := parseChapter(t, `<html><body><ol start="3"><li>a</li><li>b</li></ol></body></html>`)
	require.Len(t, doc.Blocks, 1)
	list := doc.Blocks[0]
	require.Equal(t, document.BlockList, list.Kind)
	require.Equal(t, document.ListOrdered, list.ListKindValue)
	require.Equal(t, 3, list.ListStart)
	require.Len(t, list.Items, 2)
	require.Equal(t, document.BlockListItem, list.Items[0].Kind)
}

func TestParseTableWithHeaderRow(t *testing.T) {
	doc := parseChapter(t, `<html><body><table><thead><tr><th>A</th><th>B</th></tr></thead>
		<tbody><tr><td>1</td><td>2</td></tr></tbody></table></body></html>`)
	require.Len(t, doc.Blocks, 1)
	tbl := doc.Blocks[0]
	require.Equal(t, document.BlockTable, tbl.Kind)
	require.NotNil(t, tbl.TableHeader)
	require.Len(t, tbl.TableHeader.Cells, 2)
	require.Len(t, tbl.TableRows, 1)
}

func TestParseLinkClassification(t *testing.T) {
	doc := parseChapter(t, `<html><body><p>
		<a href="https://example.com">ext</a>
		<a href="#frag">anchor</a>
		<a href="chapter2.xhtml">other chapter</a>
		<a href="unknown.xhtml">unknown</a>
	</p></body></html>`)
	require.Len(t, doc.Blocks, 1)
	var links []document.Inline
	for _, in := range doc.Blocks[0].Inlines {
		if in.Kind == document.InlineLink {
			links = append(links, in)
		}
	}
	require.Len(t, links, 4)
	require.Equal(t, document.LinkExternal, links[0].LinkType)
	require.Equal(t, document.LinkInternalAnchor, links[1].LinkType)
	require.Equal(t, document.LinkInternalChapter, links[2].LinkType)
	require.Equal(t, document.LinkExternal, links[3].LinkType)
}

func TestParseImageBreaksParagraph(t *testing.T) {
	doc := parseChapter(t, `<html><body><p>before</p><p><img src="cover.png" alt="cover"/></p><p>after</p></body></html>`)
	require.Len(t, doc.Blocks, 3)
	require.Equal(t, document.InlineImage, doc.Blocks[1].Inlines[0].Kind)
	require.Equal(t, "cover.png", doc.Blocks[1].Inlines[0].ImageURL)
}

func TestParseDialogGroupingMergesConsecutiveDashParagraphs(t *testing.T) {
	doc := parseChapter(t, `<html><body><p>— Hello there.</p><p>— General Kenobi.</p><p>Not dialog.</p></body></html>`)
	require.Len(t, doc.Blocks, 2)

	merged := doc.Blocks[0]
	require.Equal(t, document.BlockParagraph, merged.Kind)
	var hasBreak bool
	for _, in := range merged.Inlines {
		if in.Kind == document.InlineHardBreak {
			hasBreak = true
		}
	}
	require.True(t, hasBreak, "expected a hard break joining the grouped paragraphs")

	require.Equal(t, "Not dialog.", firstText(doc.Blocks[1].Inlines))
}

func TestParseBlockquoteNestsChildren(t *testing.T) {
	doc := parseChapter(t, `<html><body><blockquote><p>quoted text</p></blockquote></body></html>`)
	require.Len(t, doc.Blocks, 1)
	bq := doc.Blocks[0]
	require.Equal(t, document.BlockBlockQuote, bq.Kind)
	require.Len(t, bq.Children, 1)
	require.Equal(t, "quoted text", firstText(bq.Children[0].Inlines))
}

func TestParseMathFallsBackToCodeBlockOnUnsupportedElement(t *testing.T) {
	doc := parseChapter(t, `<html><body><math><mfenced><mi>x</mi></mfenced></math></body></html>`)
	require.Len(t, doc.Blocks, 1)
	blk := doc.Blocks[0]
	require.Equal(t, document.BlockCodeBlock, blk.Kind)
	require.Contains(t, blk.CodeLanguage, "mathml-error")
}

func TestParseMathSimpleSuperscript(t *testing.T) {
	doc := parseChapter(t, `<html><body><math><msup><mi>x</mi><mn>2</mn></msup></math></body></html>`)
	require.Len(t, doc.Blocks, 1)
	require.Equal(t, document.BlockParagraph, doc.Blocks[0].Kind)
	require.Equal(t, "x^2", doc.Blocks[0].Inlines[0].Text)
}

func TestParseHardBreak(t *testing.T) {
	doc := parseChapter(t, `<html><body><p>line one<br/>line two</p></body></html>`)
	require.Len(t, doc.Blocks, 1)
	var sawBreak bool
	for _, in := range doc.Blocks[0].Inlines {
		if in.Kind == document.InlineHardBreak {
			sawBreak = true
		}
	}
	require.True(t, sawBreak)
}

func TestParseCodeBlockLanguage(t *testing.T) {
	doc := parseChapter(t, `<html><body><pre><code class="language-go">fmt.Println()</code></pre></body></html>`)
	require.Len(t, doc.Blocks, 1)
	require.Equal(t, document.BlockCodeBlock, doc.Blocks[0].Kind)
	require.Equal(t, "go", doc.Blocks[0].CodeLanguage)
}
