// Package images prepares captured frames for display in Tk.
package images

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	_ = enc.Encode(&buf, img)
	return buf.Bytes()
}

// FitSize returns the largest size within maxW x maxH with the aspect ratio of
// src. Sizes never drop below 1x1.
func FitSize(src image.Point, maxW, maxH int) image.Point {
	if src.X <= 0 || src.Y <= 0 || (src.X <= maxW && src.Y <= maxH) {
		return src
	}
	maxW, maxH = max(maxW, 1), max(maxH, 1)
	ratio := min(float64(maxW)/float64(src.X), float64(maxH)/float64(src.Y))
	return image.Pt(
		max(int(float64(src.X)*ratio+0.5), 1),
		max(int(float64(src.Y)*ratio+0.5), 1),
	)
}

// ScaleToFit scales src bilinearly so that it fits within maxW x maxH,
// preserving aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	size := FitSize(b.Size(), maxW, maxH)
	if size == b.Size() {
		return src
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
