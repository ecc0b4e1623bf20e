package pdfreader

import "github.com/bugzmanov/bookokrat/annotation"

// CommentPopupMinWidth and CommentPopupMaxWidth bound the comment input
// popup's width in columns.
const (
	CommentPopupMinWidth = 20
	CommentPopupMaxWidth = 88
)

// CommentEditKind discriminates whether a CommentInputState is creating a
// fresh comment or editing an existing one.
type CommentEditKind int

const (
	CommentEditNone CommentEditKind = iota
	CommentEditCreating
	CommentEditEditing
)

// CommentInputState is the popup text-area state for writing or editing a
// PDF comment.
type CommentInputState struct {
	Active    bool
	EditKind  CommentEditKind
	CommentID string // meaningful when EditKind == CommentEditEditing
	Target    annotation.Target
	Text      string
	QuotedText string
}

// BeginCreate opens the popup for a brand-new comment anchored at target.
func (c *CommentInputState) BeginCreate(target annotation.Target, quotedText string) {
	*c = CommentInputState{Active: true, EditKind: CommentEditCreating, Target: target, QuotedText: quotedText}
}

// BeginEdit opens the popup pre-filled with an existing comment's text.
func (c *CommentInputState) BeginEdit(comment annotation.Comment) {
	*c = CommentInputState{
		Active:     true,
		EditKind:   CommentEditEditing,
		CommentID:  comment.ID,
		Target:     comment.Target,
		Text:       comment.Content,
		QuotedText: comment.Context,
	}
}

// Cancel closes the popup, discarding its text.
func (c *CommentInputState) Cancel() {
	*c = CommentInputState{}
}

// PopupWidth clamps a caller-proposed width (e.g. a fraction of the viewport)
// into the comment popup's allowed range.
func PopupWidth(proposed int) int {
	if proposed < CommentPopupMinWidth {
		return CommentPopupMinWidth
	}
	if proposed > CommentPopupMaxWidth {
		return CommentPopupMaxWidth
	}
	return proposed
}

// CommentNavState walks the comment sidebar for the current sticky page
// with j/k, independent of the normal-mode cursor.
type CommentNavState struct {
	Active bool
	Page   int
	Index  int
}

// Start activates comment-navigation mode on the given page.
func (c *CommentNavState) Start(page int) {
	c.Active = true
	c.Page = page
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

// SidebarVisible reports whether the comment sidebar fits in the natural
// right margin: it is only ever shown when that margin is at least
// minCols wide (config.ReaderConfig.CommentSidebarMinCols).
func SidebarVisible(naturalMarginCols, minCols int) bool {
	return naturalMarginCols >= minCols
}
