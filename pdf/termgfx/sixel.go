package termgfx

import (
	"fmt"
	"image"
	"image/color/palette"
	"strings"

	"golang.org/x/image/draw"
)

// EncodeSixel rasterizes img into a DEC Sixel graphics string, the other
// tiled-protocol backend alongside iTerm2. Colors are quantized against the
// standard Plan9 palette with Floyd-Steinberg dithering
// (golang.org/x/image/draw), since the terminal sixel palette is limited;
// this keeps the encoder correct without a dedicated quantizer.
func EncodeSixel(img image.Image) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	quantized := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
	draw.FloydSteinberg.Draw(quantized, quantized.Bounds(), img, bounds.Min)

	var sb strings.Builder
	sb.WriteString(esc + "Pq")
	for i, c := range quantized.Palette {
		r, g, b, _ := c.RGBA()
		sb.WriteString(fmt.Sprintf("#%d;2;%d;%d;%d", i, to100(r), to100(g), to100(b)))
	}

	for bandTop := 0; bandTop < h; bandTop += 6 {
		bandHeight := min(6, h-bandTop)
		writeBand(&sb, quantized, w, bandTop, bandHeight)
		sb.WriteByte('-')
	}

	sb.WriteString(esc + "\\")
	return sb.String()
}

func to100(v uint32) int {
	return int(v * 100 / 0xffff)
}

// writeBand emits one 6-pixel-tall sixel band: for every palette index that
// appears in the band, a color-select ("#<n>") followed by one sixel
// character per column, run-length compressed with "!<count><char>".
func writeBand(sb *strings.Builder, img *image.Paletted, w, top, height int) {
	colIndex := make([][]uint8, w)
	used := make(map[uint8]bool)
	for x := 0; x < w; x++ {
		colIndex[x] = make([]uint8, height)
		for y := 0; y < height; y++ {
			idx := img.ColorIndexAt(x, top+y)
			colIndex[x][y] = idx
			used[idx] = true
		}
	}

	for idx := range used {
		sb.WriteString(fmt.Sprintf("#%d", idx))
		var runChar byte
		runCount := 0
		flush := func() {
			if runCount == 0 {
				return
			}
			if runCount > 1 {
				sb.WriteString(fmt.Sprintf("!%d%c", runCount, runChar))
			} else {
				sb.WriteByte(runChar)
			}
			runCount = 0
		}
		for x := 0; x < w; x++ {
			var mask byte
			for y := 0; y < height; y++ {
				if colIndex[x][y] == idx {
					mask |= 1 << uint(y)
				}
			}
			ch := byte(63 + mask)
			if runCount > 0 && ch == runChar {
				runCount++
				continue
			}
			flush()
			runChar = ch
			runCount = 1
		}
		flush()
		sb.WriteByte('$') // return to start of band for next color
	}
}
