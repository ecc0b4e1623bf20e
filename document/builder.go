package document

// Builder assigns node indices in document order as blocks are appended. It
// is the sole place new Block values are numbered; reflow/parse constructs a
// Document exclusively through it so indices are contiguous and stable.
type Builder struct {
	next   int
	blocks []*Block
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Next assigns the next node index and allocates a *Block with it, without
// appending it anywhere; callers append it either to the Builder (top-level)
// or as a child of another block (nested).
func (b *Builder) Next(kind BlockKind) *Block {
	idx := NodeIndex(b.next)
	b.next++
	return &Block{Index: idx, Kind: kind}
}

// Append adds a top-level block to the Document under construction.
func (b *Builder) Append(blk *Block) {
	b.blocks = append(b.blocks, blk)
}

// Build finalizes the Document.
func (b *Builder) Build() *Document {
	return &Document{Blocks: b.blocks}
}
