package pdfreader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/annotation"
)

func TestCommentInputBeginCreateAndCancel(t *testing.T) {
	var c CommentInputState
	target := annotation.Target{Kind: annotation.TargetPdf, PdfPage: 2}
	c.BeginCreate(target, "quoted text")
	require.True(t, c.Active)
	require.Equal(t, CommentEditCreating, c.EditKind)
	require.Equal(t, "quoted text", c.QuotedText)

	c.Cancel()
	require.False(t, c.Active)
}

func TestCommentInputBeginEditPrefillsText(t *testing.T) {
	var c CommentInputState
	comment := annotation.NewComment("book.pdf", annotation.Target{Kind: annotation.TargetPdf, PdfPage: 1}, "existing note")
	c.BeginEdit(comment)
	require.Equal(t, CommentEditEditing, c.EditKind)
	require.Equal(t, "existing note", c.Text)
	require.Equal(t, comment.ID, c.CommentID)
}

func TestPopupWidthClampsToRange(t *testing.T) {
	require.Equal(t, CommentPopupMinWidth, PopupWidth(5))
	require.Equal(t, CommentPopupMaxWidth, PopupWidth(500))
	require.Equal(t, 40, PopupWidth(40))
}

func TestCommentNavWrapsAround(t *testing.T) {
	var n CommentNavState
	n.Start(4)
	n.Next(3)
	require.Equal(t, 1, n.Index)
	n.Prev(3)
	n.Prev(3)
	require.Equal(t, 2, n.Index)
}

func TestSidebarVisibleRespectsMinWidth(t *testing.T) {
	require.True(t, SidebarVisible(24, 24))
	require.False(t, SidebarVisible(23, 24))
}
