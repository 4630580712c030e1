// Package vision describes the frames, detectors and recognizers the capture
// loop works with. Concrete OpenCV-backed implementations live in vision/cv;
// everything here is free of cgo so the loop and the editor can be tested
// with fakes.
package vision

import (
	"errors"
	"image"
	"image/color"

	"github.com/soocke/angora-go/domain/label"
)

var (
	// ErrUntrained is returned by Model.Predict before the first commit.
	ErrUntrained = errors.New("recognizer not trained")
	// ErrPrediction is returned when the recognizer cannot score a sample,
	// typically because the loaded model is corrupt or incompatible.
	ErrPrediction = errors.New("prediction failed")
)

// Frame is a single captured image. Implementations cache the grayscale
// planes used for detection and cropping. A Frame is owned by the loop
// iteration that read it and must be closed once that iteration ends.
type Frame interface {
	Bounds() image.Rectangle
	// Crop returns the histogram-equalized grayscale region r.
	Crop(r image.Rectangle) (Sample, error)
	// Annotate outlines rects on the colour image.
	Annotate(rects []image.Rectangle, c color.RGBA, thickness int)
	// Mirror flips the colour image horizontally.
	Mirror()
	// Image exports the colour image for display.
	Image() (image.Image, error)
	Close() error
}

// Sample is a cropped face region ready for training or prediction.
type Sample interface {
	Close() error
}

// Detector finds object regions in a frame.
type Detector interface {
	Detect(f Frame) ([]image.Rectangle, error)
	Close() error
}

// Recognizer is the LBPH style model a Model wraps. Train replaces all state,
// Update adds examples to a trained recognizer.
type Recognizer interface {
	Train(s Sample, id label.ID) error
	Update(s Sample, id label.ID) error
	Predict(s Sample) (MatchResult, error)
	Save(path string) error
	Load(path string) error
}

// RecognizerFactory returns a fresh, untrained recognizer.
type RecognizerFactory func() Recognizer

// MatchResult is the closest known label for a sample. Smaller distances
// mean closer matches; there is no upper bound.
type MatchResult struct {
	Label    label.ID
	Distance float64
}

// Text returns the decoded label or a placeholder when it cannot be decoded.
func (m MatchResult) Text() string {
	s, err := label.Decode(m.Label)
	if err != nil {
		return "?"
	}
	return s
}
