// Package capture provides frame sources for the capture loop: a camera
// device read through OpenCV and a screen region grabbed with screenshot.
package capture

import (
	"errors"
	"image"
	"log/slog"

	pkgerrors "github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/vision/cv"
)

// ErrNoFrame reports a read that produced no image this tick.
var ErrNoFrame = errors.New("no frame available")

// Camera reads BGR frames from a video capture device.
type Camera struct {
	dev    *gocv.VideoCapture
	size   image.Point
	logger *slog.Logger
}

// OpenCamera opens device and asks for the preferred frame size. Cameras
// are free to pick a different resolution; Size reports what was granted.
func OpenCamera(device int, preferred image.Point, logger *slog.Logger) (*Camera, error) {
	dev, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open camera %d", device)
	}
	if !dev.IsOpened() {
		dev.Close()
		return nil, pkgerrors.Errorf("camera %d is not available", device)
	}
	if preferred.X > 0 && preferred.Y > 0 {
		dev.Set(gocv.VideoCaptureFrameWidth, float64(preferred.X))
		dev.Set(gocv.VideoCaptureFrameHeight, float64(preferred.Y))
	}
	c := &Camera{
		dev:    dev,
		size:   image.Pt(int(dev.Get(gocv.VideoCaptureFrameWidth)), int(dev.Get(gocv.VideoCaptureFrameHeight))),
		logger: logger,
	}
	if logger != nil {
		logger.Info("camera opened", "device", device, "width", c.size.X, "height", c.size.Y)
	}
	return c, nil
}

// Size returns the negotiated frame size.
func (c *Camera) Size() image.Point { return c.size }

// Read grabs the next frame. An empty read returns ErrNoFrame.
func (c *Camera) Read() (vision.Frame, error) {
	m := gocv.NewMat()
	if ok := c.dev.Read(&m); !ok || m.Empty() {
		m.Close()
		return nil, ErrNoFrame
	}
	return cv.NewFrame(m), nil
}

// Close releases the device.
func (c *Camera) Close() error { return c.dev.Close() }
