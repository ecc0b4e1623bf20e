package pdfreader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/common"
)

func TestKeySeqAccumulatesDigitsAndResets(t *testing.T) {
	var k KeySeq
	require.False(t, k.Pending())
	k.Digit(3)
	k.Digit(0)
	require.True(t, k.Pending())
	require.Equal(t, 30, k.Take())
	require.False(t, k.Pending())
}

func TestKeySeqTakeDefaultsToOne(t *testing.T) {
	var k KeySeq
	require.Equal(t, 1, k.Take())
}

func TestHandleLineMotionScrollsWithinMode(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModeScroll, testPDFConfig(), 100)
	geo := ViewportGeometry{HeightCells: 20, DestHeight: 500}
	r.HandleLineMotion(true, 5, geo)
	z, _ := r.Zoom()
	require.Equal(t, 5, z.GlobalScrollOffset)

	r.HandleLineMotion(false, 2, geo)
	z, _ = r.Zoom()
	require.Equal(t, 3, z.GlobalScrollOffset)
}

func TestHandleHalfPageMotion(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModeScroll, testPDFConfig(), 100)
	geo := ViewportGeometry{HeightCells: 20, DestHeight: 500}
	r.HandleHalfPageMotion(true, geo)
	z, _ := r.Zoom()
	require.Equal(t, 10, z.GlobalScrollOffset)
}

func TestHandleFirstLastPage(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	geo := ViewportGeometry{HeightCells: 20, WidthCells: 80}
	r.HandleLastPage(geo)
	require.Equal(t, 4, r.Page())
	r.HandleFirstPage(geo)
	require.Equal(t, 0, r.Page())
}

func TestHandleZoomKeyReset(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	now := time.Now()
	r.HandleZoomKey('+', ViewportGeometry{HeightCells: 20}, now)
	r.HandleZoomKey('=', ViewportGeometry{HeightCells: 20}, now)
	z, _ := r.Zoom()
	require.Equal(t, 1.0, z.Factor)
}
