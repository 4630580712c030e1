package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		src        image.Point
		maxW, maxH int
		want       image.Point
	}{
		{image.Pt(640, 480), 800, 600, image.Pt(640, 480)},
		{image.Pt(1280, 720), 640, 480, image.Pt(640, 360)},
		{image.Pt(720, 1280), 640, 640, image.Pt(360, 640)},
		{image.Pt(1000, 10), 0, 0, image.Pt(1, 1)},
	}
	for _, c := range cases {
		if got := FitSize(c.src, c.maxW, c.maxH); got != c.want {
			t.Fatalf("FitSize(%v, %d, %d) = %v, want %v", c.src, c.maxW, c.maxH, got, c.want)
		}
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	if got := ScaleToFit(src, 400, 400); got != image.Image(src) {
		t.Fatalf("expected original image when it already fits")
	}
	got := ScaleToFit(src, 100, 100)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 50 {
		t.Fatalf("unexpected scaled bounds %v", got.Bounds())
	}
	if ScaleToFit(nil, 10, 10) != nil {
		t.Fatalf("nil source must give nil")
	}
}

func TestEncodePNG(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image must encode to nil")
	}
	b := EncodePNG(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}
