package pdfreader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionDragNormalizesRect(t *testing.T) {
	var s Selection
	s.BeginDrag(2, 50, 60)
	s.ExtendDrag(10, 20)
	require.Len(t, s.Rects, 1)
	require.Equal(t, 10.0, s.Rects[0].X0)
	require.Equal(t, 20.0, s.Rects[0].Y0)
	require.Equal(t, 50.0, s.Rects[0].X1)
	require.Equal(t, 60.0, s.Rects[0].Y1)

	s.EndDrag()
	require.False(t, s.Active)
	require.False(t, s.Empty())
}

func TestNormalModeVisualTracksAnchor(t *testing.T) {
	var n NormalModeState
	n.Enter(1, 5, 5)
	n.EnterVisual()
	n.Move(10, 10, 100, 100)

	r, ok := n.Rect()
	require.True(t, ok)
	require.Equal(t, 5.0, r.X0)
	require.Equal(t, 15.0, r.X1)
}

func TestNormalModeMoveClampsToBounds(t *testing.T) {
	var n NormalModeState
	n.Enter(0, 0, 0)
	n.Move(-5, -5, 100, 100)
	require.Equal(t, 0.0, n.X)
	require.Equal(t, 0.0, n.Y)

	n.Move(1000, 1000, 100, 100)
	require.Equal(t, 100.0, n.X)
	require.Equal(t, 100.0, n.Y)
}

func TestNormalModeExitVisualKeepsCursor(t *testing.T) {
	var n NormalModeState
	n.Enter(0, 3, 4)
	n.EnterVisual()
	n.ExitVisual()
	require.Equal(t, NormalModeNormal, n.Kind)
	require.Equal(t, 3.0, n.X)
}
