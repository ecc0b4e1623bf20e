package textreader

import "github.com/bugzmanov/bookokrat/annotation"

// CommentEditKind discriminates whether a CommentInputState is creating a
// fresh comment or editing an existing one.
type CommentEditKind int

const (
	CommentEditNone CommentEditKind = iota
	CommentEditCreating
	CommentEditEditing
)

// CommentInputState is the popup text-area state for writing or editing a
// paragraph/code-block comment anchored in the current chapter.
type CommentInputState struct {
	Active      bool
	EditKind    CommentEditKind
	CommentID   string // meaningful when EditKind == CommentEditEditing
	ChapterHref string
	Target      annotation.Target
	Text        string
	QuotedText  string
}

// BeginCreate opens the popup for a brand-new comment anchored at target
// within chapterHref.
func (c *CommentInputState) BeginCreate(chapterHref string, target annotation.Target, quotedText string) {
	*c = CommentInputState{Active: true, EditKind: CommentEditCreating, ChapterHref: chapterHref, Target: target, QuotedText: quotedText}
}

// BeginEdit opens the popup pre-filled with an existing comment's text.
func (c *CommentInputState) BeginEdit(chapterHref string, comment annotation.Comment) {
	*c = CommentInputState{
		Active:      true,
		EditKind:    CommentEditEditing,
		CommentID:   comment.ID,
		ChapterHref: chapterHref,
		Target:      comment.Target,
		Text:        comment.Content,
		QuotedText:  comment.Context,
	}
}

// Cancel closes the popup, discarding its text.
func (c *CommentInputState) Cancel() {
	*c = CommentInputState{}
}

// CommentNavState walks the comments attached to the currently rendered
// chapter with j/k, independent of the normal-mode cursor.
type CommentNavState struct {
	Active bool
	Index  int
}

// Start activates comment-navigation mode.
func (c *CommentNavState) Start() {
	c.Active = true
	c.Index = 0
}

// Stop deactivates comment-navigation mode.
func (c *CommentNavState) Stop() {
	c.Active = false
	c.Index = 0
}

// Next and Prev move the selected index within count comments, wrapping.
func (c *CommentNavState) Next(count int) {
	if count <= 0 {
		c.Index = 0
		return
	}
	c.Index = (c.Index + 1) % count
}

func (c *CommentNavState) Prev(count int) {
	if count <= 0 {
		c.Index = 0
		return
	}
	c.Index = (c.Index - 1 + count) % count
}
