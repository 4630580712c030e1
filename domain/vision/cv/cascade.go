package cv

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/soocke/angora-go/domain/vision"
)

// cascadeScaleImage is OpenCV's CASCADE_SCALE_IMAGE flag.
const cascadeScaleImage = 2

// CascadeOptions tunes DetectMultiScale.
type CascadeOptions struct {
	ScaleFactor  float64
	MinNeighbors int
	// MinSizeProportion is the minimum detection side as a fraction of the
	// shorter frame dimension.
	MinSizeProportion float64
}

// CascadeDetector runs a pre-built cascade classifier over the equalized
// grayscale plane of a frame.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	opts       CascadeOptions
}

// LoadCascade reads the cascade definition at path.
func LoadCascade(path string, opts CascadeOptions) (*CascadeDetector, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "cascade %s", path)
	}
	c := gocv.NewCascadeClassifier()
	if !c.Load(path) {
		c.Close()
		return nil, errors.Errorf("cascade %s could not be loaded", path)
	}
	if opts.ScaleFactor <= 1 {
		opts.ScaleFactor = 1.3
	}
	if opts.MinNeighbors < 0 {
		opts.MinNeighbors = 0
	}
	return &CascadeDetector{classifier: c, opts: opts}, nil
}

// MinSize returns the minimum detection size for a frame of the given bounds.
func (d *CascadeDetector) MinSize(bounds image.Rectangle) image.Point {
	shorter := bounds.Dx()
	if bounds.Dy() < shorter {
		shorter = bounds.Dy()
	}
	side := int(float64(shorter) * d.opts.MinSizeProportion)
	return image.Pt(side, side)
}

func (d *CascadeDetector) Detect(f vision.Frame) ([]image.Rectangle, error) {
	cf, err := asFrame(f)
	if err != nil {
		return nil, err
	}
	rects := d.classifier.DetectMultiScaleWithParams(
		cf.Equalized(),
		d.opts.ScaleFactor,
		d.opts.MinNeighbors,
		cascadeScaleImage,
		d.MinSize(cf.Bounds()),
		image.Pt(0, 0),
	)
	return rects, nil
}

func (d *CascadeDetector) Close() error { return d.classifier.Close() }
