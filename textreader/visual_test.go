package textreader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVisualCharSelectionRange(t *testing.T) {
	r := newTestReader(StringLines{"hello world"}, 10)
	r.NormalMode.Activate(0, 2)
	r.EnterVisual(VisualModeChar)
	r.NormalMode.Cursor.Column = 6
	startLine, startCol, endLine, endCol, ok := r.VisualSelectionRange()
	require.True(t, ok)
	require.Equal(t, 0, startLine)
	require.Equal(t, 2, startCol)
	require.Equal(t, 0, endLine)
	require.Equal(t, 7, endCol)
}

func TestVisualCharSelectionRangeReversed(t *testing.T) {
	r := newTestReader(StringLines{"hello world"}, 10)
	r.NormalMode.Activate(0, 6)
	r.EnterVisual(VisualModeChar)
	r.NormalMode.Cursor.Column = 2
	startLine, startCol, endLine, endCol, ok := r.VisualSelectionRange()
	require.True(t, ok)
	require.Equal(t, 2, startCol)
	require.Equal(t, 7, endCol)
	require.Equal(t, 0, startLine)
	require.Equal(t, 0, endLine)
}

func TestVisualLineSelectionRange(t *testing.T) {
	r := newTestReader(StringLines{"a", "bb", "ccc"}, 10)
	r.NormalMode.Activate(2, 0)
	r.EnterVisual(VisualModeLine)
	r.NormalMode.Cursor.Line = 0
	startLine, startCol, endLine, endCol, ok := r.VisualSelectionRange()
	require.True(t, ok)
	require.Equal(t, 0, startLine)
	require.Equal(t, 0, startCol)
	require.Equal(t, 2, endLine)
	require.Equal(t, 3, endCol)
}

func TestIsInVisualSelectionChar(t *testing.T) {
	r := newTestReader(StringLines{"hello world"}, 10)
	r.NormalMode.Activate(0, 2)
	r.EnterVisual(VisualModeChar)
	r.NormalMode.Cursor.Column = 6
	require.True(t, r.IsInVisualSelection(0, 2))
	require.True(t, r.IsInVisualSelection(0, 6))
	require.False(t, r.IsInVisualSelection(0, 7))
	require.False(t, r.IsInVisualSelection(0, 1))
}

func TestYankVisualSelectionCharMovesCursorToStart(t *testing.T) {
	r := newTestReader(StringLines{"hello world"}, 10)
	r.NormalMode.Activate(0, 6)
	r.EnterVisual(VisualModeChar)
	r.NormalMode.Cursor.Column = 2
	text, ok := r.YankVisualSelection(time.Now())
	require.True(t, ok)
	require.Equal(t, "llo w", text)
	require.False(t, r.IsVisualActive())
	require.Equal(t, 2, r.NormalMode.Cursor.Column)
	require.Equal(t, 0, r.NormalMode.Cursor.Line)
}

func TestYankVisualSelectionLine(t *testing.T) {
	r := newTestReader(StringLines{"a", "bb", "ccc"}, 10)
	r.NormalMode.Activate(0, 0)
	r.EnterVisual(VisualModeLine)
	r.NormalMode.Cursor.Line = 1
	text, ok := r.YankVisualSelection(time.Now())
	require.True(t, ok)
	require.Equal(t, "a\nbb", text)
}

func TestVisualSelectionRangeInactiveIsFalse(t *testing.T) {
	r := newTestReader(StringLines{"abc"}, 10)
	r.NormalMode.Activate(0, 0)
	_, _, _, _, ok := r.VisualSelectionRange()
	require.False(t, ok)
}
