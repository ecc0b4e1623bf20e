package termgfx

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeITerm2Inline(t *testing.T) {
	s := EncodeITerm2Inline([]byte("png-bytes"), 40, 12)
	require.True(t, strings.HasPrefix(s, esc+"]1337;File=inline=1;width=40;height=12"))
	require.True(t, strings.HasSuffix(s, "\a"))
}

func TestEncodeSixelProducesFramedStream(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	s := EncodeSixel(img)
	require.True(t, strings.HasPrefix(s, esc+"Pq"))
	require.True(t, strings.HasSuffix(s, esc+"\\"))
	require.Contains(t, s, "#")
}

func TestEncodeSixelEmptyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	require.Equal(t, "", EncodeSixel(img))
}
