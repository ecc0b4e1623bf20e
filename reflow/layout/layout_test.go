package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/annotation"
	"github.com/bugzmanov/bookokrat/document"
)

func buildParagraph(b *document.Builder, text string) {
	blk := b.Next(document.BlockParagraph)
	blk.Inlines = []document.Inline{{Kind: document.InlineText, Text: text}}
	b.Append(blk)
}

func linesText(lines []document.RenderedLine) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.Raw
	}
	return out
}

func TestLayoutWrapsParagraphToWidth(t *testing.T) {
	b := document.NewBuilder()
	buildParagraph(b, "the quick brown fox jumps over the lazy dog")
	doc := b.Build()

	res := Layout(doc, Config{Width: 10}, nil)
	for _, ln := range res.Lines {
		require.LessOrEqual(t, len([]rune(ln.Raw)), 10)
	}
	require.Equal(t, []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}, linesText(res.Lines))
}

func TestLayoutHeadingUppercaseAndRuler(t *testing.T) {
	b := document.NewBuilder()
	h := b.Next(document.BlockHeading)
	h.HeadingLevel = 1
	h.Inlines = []document.Inline{{Kind: document.InlineText, Text: "chapter one"}}
	b.Append(h)
	doc := b.Build()

	res := Layout(doc, Config{Width: 20}, nil)
	require.Equal(t, "CHAPTER ONE", res.Lines[0].Raw)
	require.Equal(t, document.LineHeading, res.Lines[0].Kind)
	require.True(t, res.Lines[0].HeadingDecoration)
	require.Equal(t, document.LineHorizontalRule, res.Lines[1].Kind)
	require.Equal(t, document.LineEmpty, res.Lines[2].Kind)
}

func TestLayoutHeadingAnchorFallsBackToSlug(t *testing.T) {
	b := document.NewBuilder()
	h := b.Next(document.BlockHeading)
	h.HeadingLevel = 2
	h.Inlines = []document.Inline{{Kind: document.InlineText, Text: "A New Beginning"}}
	b.Append(h)
	doc := b.Build()

	res := Layout(doc, Config{Width: 40}, nil)
	pos, ok := res.AnchorPositions["a-new-beginning"]
	require.True(t, ok)
	require.Equal(t, 0, pos)
}

func TestLayoutUnorderedListBullets(t *testing.T) {
	b := document.NewBuilder()
	list := b.Next(document.BlockList)
	list.ListKindValue = document.ListUnordered
	for _, text := range []string{"first item", "second item"} {
		item := b.Next(document.BlockListItem)
		p := b.Next(document.BlockParagraph)
		p.Inlines = []document.Inline{{Kind: document.InlineText, Text: text}}
		item.Children = []*document.Block{p}
		list.Items = append(list.Items, item)
	}
	b.Append(list)
	doc := b.Build()

	res := Layout(doc, Config{Width: 40}, nil)
	require.Equal(t, []string{"• first item", "• second item"}, linesText(res.Lines))
	for _, ln := range res.Lines {
		require.Equal(t, document.LineListItem, ln.Kind)
		require.Equal(t, 2, ln.ListItemIndent)
	}
}

func TestLayoutOrderedListWrapsContinuationUnderBullet(t *testing.T) {
	b := document.NewBuilder()
	list := b.Next(document.BlockList)
	list.ListKindValue = document.ListOrdered
	list.ListStart = 1
	item := b.Next(document.BlockListItem)
	p := b.Next(document.BlockParagraph)
	p.Inlines = []document.Inline{{Kind: document.InlineText, Text: "one two three four five"}}
	item.Children = []*document.Block{p}
	list.Items = append(list.Items, item)
	b.Append(list)
	doc := b.Build()

	res := Layout(doc, Config{Width: 10}, nil)
	require.Equal(t, []string{"1. one two", "   three", "   four", "   five"}, linesText(res.Lines))
}

func TestLayoutNestedListIndentsFurther(t *testing.T) {
	b := document.NewBuilder()
	outer := b.Next(document.BlockList)
	outer.ListKindValue = document.ListUnordered
	outerItem := b.Next(document.BlockListItem)

	inner := b.Next(document.BlockList)
	inner.ListKindValue = document.ListUnordered
	innerItem := b.Next(document.BlockListItem)
	p := b.Next(document.BlockParagraph)
	p.Inlines = []document.Inline{{Kind: document.InlineText, Text: "nested"}}
	innerItem.Children = []*document.Block{p}
	inner.Items = append(inner.Items, innerItem)

	outerItem.Children = []*document.Block{inner}
	outer.Items = append(outer.Items, outerItem)
	b.Append(outer)
	doc := b.Build()

	res := Layout(doc, Config{Width: 40}, nil)
	require.Equal(t, "• • nested", res.Lines[0].Raw)
}

func TestLayoutImageBreaksParagraphFlow(t *testing.T) {
	b := document.NewBuilder()
	p := b.Next(document.BlockParagraph)
	p.Inlines = []document.Inline{
		{Kind: document.InlineText, Text: "before"},
		{Kind: document.InlineImage, ImageURL: "cover.jpg", ImageAlt: "cover"},
		{Kind: document.InlineText, Text: "after"},
	}
	b.Append(p)
	doc := b.Build()

	res := Layout(doc, Config{Width: 40}, nil)
	require.Equal(t, []string{"before", "[image: cover]", "after"}, linesText(res.Lines))
	require.Equal(t, document.LineImagePlaceholder, res.Lines[1].Kind)
	require.Equal(t, "cover.jpg", res.Lines[1].ImageSrc)
}

func TestLayoutTableAlignsColumnsAndBoldsHeader(t *testing.T) {
	b := document.NewBuilder()
	tbl := b.Next(document.BlockTable)
	tbl.TableHeader = &document.TableRow{Cells: []document.TableCell{
		{Inlines: []document.Inline{{Kind: document.InlineText, Text: "Name"}}},
		{Inlines: []document.Inline{{Kind: document.InlineText, Text: "Age"}}},
	}}
	tbl.TableRows = []document.TableRow{{Cells: []document.TableCell{
		{Inlines: []document.Inline{{Kind: document.InlineText, Text: "Ada"}}},
		{Inlines: []document.Inline{{Kind: document.InlineText, Text: "36"}}},
	}}}
	b.Append(tbl)
	doc := b.Build()

	res := Layout(doc, Config{Width: 30}, nil)
	require.Equal(t, document.StyleStrong, res.Lines[0].Spans[0].Style)
	require.Equal(t, document.LineHorizontalRule, res.Lines[1].Kind)
}

func TestLayoutAttachesCommentQuoteAfterTargetNode(t *testing.T) {
	b := document.NewBuilder()
	buildParagraph(b, "first paragraph")
	buildParagraph(b, "second paragraph")
	doc := b.Build()

	c := annotation.NewComment("chapter1.xhtml", annotation.Target{
		Kind:           annotation.TargetParagraph,
		ParagraphIndex: 0,
	}, "a remark")

	res := Layout(doc, Config{Width: 40}, []annotation.Comment{c})
	require.Equal(t, "first paragraph", res.Lines[0].Raw)
	require.Equal(t, document.LineComment, res.Lines[1].Kind)
	require.Contains(t, res.Lines[1].Raw, "a remark")
	require.Equal(t, "second paragraph", res.Lines[2].Raw)
	require.Len(t, res.Comments, 1)
	require.Equal(t, 0, res.Lines[1].CommentTarget)
}

func TestLayoutSkipsHighlightOnlyComments(t *testing.T) {
	b := document.NewBuilder()
	buildParagraph(b, "some text")
	doc := b.Build()

	c := annotation.NewComment("chapter1.xhtml", annotation.Target{
		Kind:           annotation.TargetParagraph,
		ParagraphIndex: 0,
	}, "")
	c.HighlightOnly = true

	res := Layout(doc, Config{Width: 40}, []annotation.Comment{c})
	require.Len(t, res.Lines, 1)
}

func TestBackfillContextJoinsTargetedNodes(t *testing.T) {
	b := document.NewBuilder()
	buildParagraph(b, "alpha beta")
	buildParagraph(b, "gamma delta")
	doc := b.Build()

	got := BackfillContext(doc, annotation.Target{
		Kind:                annotation.TargetParagraphRange,
		StartParagraphIndex: 0,
		EndParagraphIndex:   1,
	})
	require.Equal(t, "alpha beta gamma delta", got)
}
