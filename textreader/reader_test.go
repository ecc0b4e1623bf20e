package textreader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/jumplist"
)

func makeLines(n int) StringLines {
	out := make(StringLines, n)
	for i := range out {
		out[i] = "line content"
	}
	return out
}

func TestSetChapterResetsState(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.NormalMode.Activate(5, 2)
	r.ScrollOffset = 4
	r.Search.Open(4)

	r.SetChapter("chapter2.xhtml", makeLines(30), 10)
	require.Equal(t, "chapter2.xhtml", r.ChapterHref)
	require.Equal(t, 0, r.ScrollOffset)
	require.False(t, r.NormalMode.Active)
	require.False(t, r.Search.Active)
}

func TestToggleNormalModeFreshPositionsAtScrolloff(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.ToggleNormalMode()
	require.True(t, r.NormalMode.Active)
	require.Equal(t, r.cfg.Scrolloff, r.NormalMode.Cursor.Line)
}

func TestToggleNormalModeOffAndOn(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.ToggleNormalMode()
	require.True(t, r.NormalMode.Active)
	r.ToggleNormalMode()
	require.False(t, r.NormalMode.Active)
}

func TestToggleNormalModeRestoresPreviousCursorInViewport(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.ToggleNormalMode()
	r.MoveDown()
	r.MoveDown()
	line := r.NormalMode.Cursor.Line
	r.ToggleNormalMode()
	r.ToggleNormalMode()
	require.Equal(t, line, r.NormalMode.Cursor.Line)
}

func TestMoveDownUpAdjustCursor(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.ToggleNormalMode()
	start := r.NormalMode.Cursor.Line
	r.MoveDown()
	require.Equal(t, start+1, r.NormalMode.Cursor.Line)
	r.MoveUp()
	require.Equal(t, start, r.NormalMode.Cursor.Line)
}

func TestMoveDownScrollsViewportPastBottom(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.ToggleNormalMode()
	for i := 0; i < 10; i++ {
		r.MoveDown()
	}
	require.Greater(t, r.ScrollOffset, 0)
}

func TestMoveLeftRightClampsToLineBounds(t *testing.T) {
	r := newTestReader(StringLines{"abc"}, 10)
	r.NormalMode.Activate(0, 0)
	r.MoveLeft()
	require.Equal(t, 0, r.NormalMode.Cursor.Column)
	r.MoveRight()
	r.MoveRight()
	r.MoveRight()
	require.Equal(t, 2, r.NormalMode.Cursor.Column)
}

func TestLineStartEndFirstNonWhitespace(t *testing.T) {
	r := newTestReader(StringLines{"   hello"}, 10)
	r.NormalMode.Activate(0, 5)
	r.LineEnd()
	require.Equal(t, 7, r.NormalMode.Cursor.Column)
	r.LineStart()
	require.Equal(t, 0, r.NormalMode.Cursor.Column)
	r.FirstNonWhitespace()
	require.Equal(t, 3, r.NormalMode.Cursor.Column)
}

func TestDocumentTopAndBottom(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.NormalMode.Activate(10, 0)
	r.DocumentBottom()
	require.Equal(t, 19, r.NormalMode.Cursor.Line)
	r.DocumentTop()
	require.Equal(t, 0, r.NormalMode.Cursor.Line)
}

func TestRecordJumpAndBackForward(t *testing.T) {
	r := newTestReader(makeLines(20), 10)
	r.Path = "book.epub"
	r.ChapterHref = "ch1.xhtml"
	r.NormalMode.Activate(5, 2)
	r.RecordJump()

	r.NormalMode.Activate(10, 0)
	loc, ok := r.JumpBack()
	require.True(t, ok)
	require.Equal(t, jumplist.LocationEpub, loc.Kind)
	require.Equal(t, "book.epub", loc.Path)
	require.Equal(t, "ch1.xhtml", loc.Chapter)
	require.Equal(t, 5, loc.Node)

	fwd, ok := r.JumpForward()
	require.True(t, ok)
	require.Equal(t, 10, fwd.Node)
}

func TestJumpBackEmptyFails(t *testing.T) {
	r := newTestReader(makeLines(5), 10)
	_, ok := r.JumpBack()
	require.False(t, ok)
}

func TestPendingFindMotion(t *testing.T) {
	r := newTestReader(StringLines{"a,b,c"}, 10)
	r.NormalMode.Activate(0, 0)
	r.SetPendingFind(PendingCharMotionFindForward)
	require.True(t, r.HasPendingFind())
	ok := r.ExecutePendingFind(',')
	require.True(t, ok)
	require.Equal(t, 1, r.NormalMode.Cursor.Column)
	require.False(t, r.HasPendingFind())

	r.NormalMode.Cursor.Column = 0
	ok = r.RepeatLastFind()
	require.True(t, ok)
	require.Equal(t, 1, r.NormalMode.Cursor.Column)
}
