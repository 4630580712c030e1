package geom

import (
	"errors"
	"image"
)

// ErrOutOfBounds is returned when a rectangle does not intersect the frame.
var ErrOutOfBounds = errors.New("rectangle outside frame bounds")

// ClampToBounds clips r to bounds. Detections near the frame edge may extend
// a few pixels past it; the clipped rectangle is safe to crop. An error is
// returned when nothing of r remains inside bounds.
func ClampToBounds(r, bounds image.Rectangle) (image.Rectangle, error) {
	clipped := r.Canon().Intersect(bounds)
	if clipped.Empty() {
		return image.Rectangle{}, ErrOutOfBounds
	}
	return clipped, nil
}
