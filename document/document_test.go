package document

import "testing"

func TestBuilderAssignsContiguousIndices(t *testing.T) {
	b := NewBuilder()
	p1 := b.Next(BlockParagraph)
	p1.Inlines = []Inline{{Kind: InlineText, Text: "hello"}}
	b.Append(p1)

	list := b.Next(BlockList)
	item := b.Next(BlockListItem)
	child := b.Next(BlockParagraph)
	child.Inlines = []Inline{{Kind: InlineText, Text: "item text"}}
	item.Children = append(item.Children, child)
	list.Items = append(list.Items, item)
	b.Append(list)

	doc := b.Build()

	if p1.Index != 0 {
		t.Fatalf("expected paragraph index 0, got %d", p1.Index)
	}
	if list.Index != 1 || item.Index != 2 || child.Index != 3 {
		t.Fatalf("unexpected indices: list=%d item=%d child=%d", list.Index, item.Index, child.Index)
	}
	if got := doc.NodeCount(); got != 4 {
		t.Fatalf("expected NodeCount 4, got %d", got)
	}
}

func TestWalkVisitsNestedBlocks(t *testing.T) {
	b := NewBuilder()
	item := b.Next(BlockListItem)
	child := b.Next(BlockParagraph)
	item.Children = append(item.Children, child)
	list := b.Next(BlockList)
	list.Items = append(list.Items, item)
	b.Append(list)

	doc := b.Build()

	var visited []NodeIndex
	doc.Walk(func(blk *Block) { visited = append(visited, blk.Index) })

	if len(visited) != 3 {
		t.Fatalf("expected 3 visited blocks, got %d: %v", len(visited), visited)
	}
}

func TestJoinedText(t *testing.T) {
	blk := &Block{
		Inlines: []Inline{
			{Kind: InlineText, Text: "hello"},
			{Kind: InlineSoftBreak},
			{Kind: InlineLink, LinkText: "world"},
		},
	}
	if got := blk.JoinedText(); got != "hello world" {
		t.Fatalf("unexpected joined text: %q", got)
	}
}
