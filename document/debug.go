package document

import (
	"github.com/bugzmanov/bookokrat/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the whole Document. It exists solely for
// manual inspection during debugging (stored in the debug report by
// app.loadChapter when the program is run with --debug).
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Document: %d top-level block(s), %d node(s)", len(d.Blocks), d.NodeCount())
	for _, b := range d.Blocks {
		tw.dumpBlock(1, b)
	}
	return tw.String()
}

func (tw treeWriter) dumpBlock(depth int, b *Block) {
	if b == nil {
		return
	}
	switch b.Kind {
	case BlockParagraph:
		tw.Line(depth, "Paragraph[%d] inlines[%d]", b.Index, len(b.Inlines))
	case BlockHeading:
		tw.Line(depth, "Heading[%d] level[%d] id[%q]", b.Index, b.HeadingLevel, b.HeadingID)
	case BlockList:
		tw.Line(depth, "List[%d] kind[%v] start[%d] items[%d]", b.Index, b.ListKindValue, b.ListStart, len(b.Items))
		for _, item := range b.Items {
			tw.dumpBlock(depth+1, item)
		}
	case BlockListItem:
		tw.Line(depth, "ListItem[%d] children[%d]", b.Index, len(b.Children))
		for _, c := range b.Children {
			tw.dumpBlock(depth+1, c)
		}
	case BlockTable:
		tw.Line(depth, "Table[%d] rows[%d] cols[%d]", b.Index, len(b.TableRows), len(b.TableAlignments))
	case BlockBlockQuote:
		tw.Line(depth, "BlockQuote[%d] children[%d]", b.Index, len(b.Children))
		for _, c := range b.Children {
			tw.dumpBlock(depth+1, c)
		}
	case BlockCodeBlock:
		tw.Line(depth, "CodeBlock[%d] lang[%q] bytes[%d]", b.Index, b.CodeLanguage, len(b.CodeText))
	case BlockThematicBreak:
		tw.Line(depth, "ThematicBreak[%d]", b.Index)
	case BlockDefinitionList:
		tw.Line(depth, "DefinitionList[%d] children[%d]", b.Index, len(b.Children))
		for _, c := range b.Children {
			tw.dumpBlock(depth+1, c)
		}
	case BlockEpubBlock:
		tw.Line(depth, "EpubBlock[%d] group[%q] children[%d]", b.Index, b.EpubGroupName, len(b.Children))
		for _, c := range b.Children {
			tw.dumpBlock(depth+1, c)
		}
	default:
		tw.Line(depth, "Block[%d] kind[%v]", b.Index, b.Kind)
	}
}
