package capture

import (
	"image"

	pkgerrors "github.com/pkg/errors"
	"github.com/vova616/screenshot"

	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/vision/cv"
)

// Screen captures a region of the primary screen, or the whole screen when
// the region is empty.
type Screen struct {
	rect image.Rectangle
}

// NewScreen returns a screen source for rect.
func NewScreen(rect image.Rectangle) *Screen { return &Screen{rect: rect.Canon()} }

// Grab returns a screen capture of the configured area.
func (s *Screen) Grab() (*image.RGBA, error) {
	if s.rect.Empty() {
		return screenshot.CaptureScreen()
	}
	return screenshot.CaptureRect(s.rect)
}

func (s *Screen) Read() (vision.Frame, error) {
	img, err := s.Grab()
	if err != nil {
		return nil, pkgerrors.Wrap(ErrNoFrame, err.Error())
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoFrame
	}
	return cv.FrameFromImage(img)
}

func (s *Screen) Close() error { return nil }
