package epub

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DecodeImage decodes raw image bytes (cover or inline `<img>`), using
// disintegration/imaging for broad format support (JPEG/PNG/GIF/BMP/TIFF)
// beyond what the stdlib image package registers by default.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("epub: decode image: %w", err)
	}
	return img, nil
}

// FitToCells resizes img to fit within maxW x maxH pixels (a caller-computed
// terminal-cell-to-pixel budget), preserving aspect ratio, for the PDF/EPUB
// image placeholders the converter rasterizes inline.
func FitToCells(img image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 || maxH <= 0 {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// Cover decodes and returns the book's cover image, if one is declared.
func (b *Book) Cover() (image.Image, error) {
	href, ok := b.CoverHref()
	if !ok {
		return nil, fmt.Errorf("epub: no cover image declared")
	}
	data, err := b.Resource(href)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}
