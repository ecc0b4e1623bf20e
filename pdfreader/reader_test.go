package pdfreader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/common"
	"github.com/bugzmanov/bookokrat/config"
)

func testPDFConfig() config.PDFConfig {
	return config.DefaultConfig().Reader.PDF
}

func TestNewSetsInitialZoomForKittyModes(t *testing.T) {
	r := New("/book.pdf", 10, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	z, ok := r.Zoom()
	require.True(t, ok)
	require.Equal(t, 1.0, z.Factor)
}

func TestNewHasNoZoomForNonKitty(t *testing.T) {
	r := New("/book.pdf", 10, common.GraphicsProtocolNone, common.PDFRenderModePage, testPDFConfig(), 100)
	_, ok := r.Zoom()
	require.False(t, ok)
	require.Equal(t, 1.0, r.NonKittyZoomFactor)
}

func TestNavigateToClampsToPageCount(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	intent := r.NavigateTo(99, 40, 80, true)
	require.Equal(t, IntentPageChanged, intent.Kind)
	require.Equal(t, 4, r.Page())
}

func TestNavigateToSamePageIsNoop(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	intent := r.NavigateTo(0, 40, 80, true)
	require.Equal(t, IntentNone, intent.Kind)
}

func TestNavigateToRecordsJumpList(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	r.NavigateTo(3, 40, 80, true)
	require.Equal(t, 1, r.JumpList.Len())

	back, ok := r.JumpBack()
	require.True(t, ok)
	require.Equal(t, 0, back.Page)
}

func TestSetZoomFactorClampsAndSetsHud(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	now := time.Now()
	r.SetZoomFactor(10, 40, now)
	z, _ := r.Zoom()
	require.Equal(t, 4.0, z.Factor)

	msg, ok := r.HUD.Current(now)
	require.True(t, ok)
	require.Equal(t, "Zoom 400%", msg.Text)
}

func TestStepZoomMultipliesByConfiguredStep(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	now := time.Now()
	r.StepZoom(true, 40, now)
	z, _ := r.Zoom()
	require.InDelta(t, 1.1, z.Factor, 1e-9)
}

func TestScrollByClampsToDestHeight(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModePage, testPDFConfig(), 100)
	r.ScrollBy(1000, 100, 20)
	z, _ := r.Zoom()
	require.Equal(t, 80, z.GlobalScrollOffset)
}

func TestUpdateCurrentPageFromScrollHonorsStickyBias(t *testing.T) {
	r := New("/book.pdf", 5, common.GraphicsProtocolKitty, common.PDFRenderModeScroll, testPDFConfig(), 100)
	changed := r.UpdateCurrentPageFromScroll(1, 0.6, 0.45, 0.40)
	require.False(t, changed)
	require.Equal(t, 0, r.Page())

	changed = r.UpdateCurrentPageFromScroll(1, 0.6, 0.30, 0.40)
	require.True(t, changed)
	require.Equal(t, 1, r.Page())
}
