// Package document defines the reflowed-book data model: a Document is an
// ordered sequence of blocks produced by reflow/parse from chapter HTML and
// consumed by reflow/layout to produce rendered lines. Every block carries a
// stable node index, assigned in document order, that annotations and
// position-restoration key off of.
package document

// NodeIndex is a stable ordinal of a block within its Document, assigned in
// document order. It is the primary key for annotations and for restoring
// reading position across reflows.
type NodeIndex int

// Style is the set of inline text styles a Run may carry. Only one style
// applies per run; nested formatting (e.g. bold+italic) by adjacent runs
// sharing the same span of text is not attempted.
type Style int

const (
	StyleNone Style = iota
	StyleStrong
	StyleEmphasis
	StyleCode
	StyleStrikethrough
)

// LinkType classifies where a link points, derived at parse time from the
// href relative to the current chapter and the book's spine.
type LinkType int

const (
	LinkExternal LinkType = iota
	LinkInternalChapter
	LinkInternalAnchor
)

// Inline is one piece of a paragraph's inline content: exactly one of Text,
// Link, Image, Anchor, HardBreak, or SoftBreak is meaningful, selected by Kind.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineLink
	InlineImage
	InlineAnchor
	InlineHardBreak
	InlineSoftBreak
)

type Inline struct {
	Kind InlineKind

	// InlineText
	Text  string
	Style Style

	// InlineLink
	LinkURL  string
	LinkText string
	LinkType LinkType

	// InlineImage
	ImageAlt string
	ImageURL string

	// InlineAnchor
	AnchorID string
}

// BlockKind discriminates the variant a Block holds.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockList
	BlockListItem
	BlockTable
	BlockBlockQuote
	BlockCodeBlock
	BlockThematicBreak
	BlockDefinitionList
	BlockEpubBlock
)

// ListKind distinguishes ordered from unordered lists.
type ListKind int

const (
	ListUnordered ListKind = iota
	ListOrdered
)

// TableAlignment is the column alignment declared for a table column.
type TableAlignment int

const (
	AlignNone TableAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// TableCell holds either simple inline content or nested rich blocks.
type TableCell struct {
	Inlines []Inline
	Blocks  []*Block // non-nil only for rich cell content
}

// TableRow is one row of cells.
type TableRow struct {
	Cells []TableCell
}

// Block is one node of a reflowed Document. Its meaning is selected by Kind;
// fields not relevant to Kind are left zero.
type Block struct {
	Index NodeIndex
	Kind  BlockKind

	// BlockParagraph
	Inlines []Inline

	// BlockHeading
	HeadingLevel int // 1..6
	HeadingID    string

	// BlockList
	ListKindValue ListKind
	ListStart     int // ol[start], defaults to 1
	Items         []*Block

	// BlockListItem: nested content of a single <li>
	Children []*Block

	// BlockTable
	TableHeader     *TableRow
	TableRows       []TableRow
	TableAlignments []TableAlignment

	// BlockBlockQuote / BlockEpubBlock / BlockDefinitionList: nested blocks
	// (BlockEpubBlock additionally carries a semantic group name, e.g.
	// "footnotes", in EpubGroupName)
	EpubGroupName string

	// BlockCodeBlock
	CodeLanguage string
	CodeText     string

	// Anchor id explicitly set via HTML id attribute (any block kind).
	AnchorID string
}

// Document is an ordered sequence of blocks with all node indices assigned.
type Document struct {
	Blocks []*Block
}

// NodeCount returns the number of distinct node indices assigned; equal to
// the number of top-level and nested blocks that were given an index by the
// builder (see Builder in builder.go).
func (d *Document) NodeCount() int {
	max := -1
	for _, b := range d.Blocks {
		max = maxNodeIndex(b, max)
	}
	return max + 1
}

func maxNodeIndex(b *Block, max int) int {
	if int(b.Index) > max {
		max = int(b.Index)
	}
	for _, c := range b.Items {
		max = maxNodeIndex(c, max)
	}
	for _, c := range b.Children {
		max = maxNodeIndex(c, max)
	}
	return max
}

// Walk visits every block in the Document in document order, depth-first,
// including nested list items and block-quote/epub-group children.
func (d *Document) Walk(fn func(*Block)) {
	for _, b := range d.Blocks {
		walkBlock(b, fn)
	}
}

func walkBlock(b *Block, fn func(*Block)) {
	fn(b)
	for _, c := range b.Items {
		walkBlock(c, fn)
	}
	for _, c := range b.Children {
		walkBlock(c, fn)
	}
}

// JoinedText returns the concatenated raw text of a block's inline content,
// used for word-offset resolution of annotation targets.
func (b *Block) JoinedText() string {
	var out []rune
	for _, in := range b.Inlines {
		switch in.Kind {
		case InlineText:
			out = append(out, []rune(in.Text)...)
		case InlineLink:
			out = append(out, []rune(in.LinkText)...)
		case InlineHardBreak, InlineSoftBreak:
			out = append(out, ' ')
		}
	}
	return string(out)
}
