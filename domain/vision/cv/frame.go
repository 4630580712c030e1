// Package cv implements the vision contracts on top of OpenCV via gocv.
package cv

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/soocke/angora-go/domain/geom"
	"github.com/soocke/angora-go/domain/vision"
)

// Frame wraps a BGR gocv.Mat. Grayscale and equalized planes are computed on
// first use and shared by every detector that looks at the frame.
type Frame struct {
	color     gocv.Mat
	gray      gocv.Mat
	equalized gocv.Mat
	prepared  bool
}

// NewFrame takes ownership of m.
func NewFrame(m gocv.Mat) *Frame { return &Frame{color: m} }

// FrameFromImage converts an RGBA capture (for example a screenshot) into a
// frame.
func FrameFromImage(img image.Image) (*Frame, error) {
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "convert image to mat")
	}
	return NewFrame(m), nil
}

func (f *Frame) prepare() {
	if f.prepared {
		return
	}
	f.gray = gocv.NewMat()
	f.equalized = gocv.NewMat()
	gocv.CvtColor(f.color, &f.gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(f.gray, &f.equalized)
	f.prepared = true
}

// Equalized returns the equalized grayscale plane used for detection.
func (f *Frame) Equalized() gocv.Mat {
	f.prepare()
	return f.equalized
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.color.Cols(), f.color.Rows())
}

// Crop equalizes the grayscale region r on its own, matching how samples are
// prepared when the model was trained.
func (f *Frame) Crop(r image.Rectangle) (vision.Sample, error) {
	clipped, err := geom.ClampToBounds(r, f.Bounds())
	if err != nil {
		return nil, err
	}
	f.prepare()
	region := f.gray.Region(clipped)
	defer region.Close()
	out := gocv.NewMat()
	gocv.EqualizeHist(region, &out)
	return &Sample{mat: out}, nil
}

func (f *Frame) Annotate(rects []image.Rectangle, c color.RGBA, thickness int) {
	for _, r := range rects {
		gocv.Rectangle(&f.color, r, c, thickness)
	}
}

func (f *Frame) Mirror() {
	flipped := gocv.NewMat()
	gocv.Flip(f.color, &flipped, 1)
	f.color.Close()
	f.color = flipped
}

func (f *Frame) Image() (image.Image, error) {
	img, err := f.color.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "export frame")
	}
	return img, nil
}

func (f *Frame) Close() error {
	if f.prepared {
		f.gray.Close()
		f.equalized.Close()
		f.prepared = false
	}
	return f.color.Close()
}

// Sample is an equalized grayscale face crop.
type Sample struct{ mat gocv.Mat }

func (s *Sample) Close() error { return s.mat.Close() }

func asFrame(f vision.Frame) (*Frame, error) {
	cf, ok := f.(*Frame)
	if !ok || cf == nil {
		return nil, errors.Errorf("unsupported frame type %T", f)
	}
	return cf, nil
}

func asSample(s vision.Sample) (*Sample, error) {
	cs, ok := s.(*Sample)
	if !ok || cs == nil {
		return nil, errors.Errorf("unsupported sample type %T", s)
	}
	return cs, nil
}
