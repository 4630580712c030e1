// Package visiontest provides in-memory vision implementations for tests.
package visiontest

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
)

// Frame is a fake frame tagged with an id so detectors can script results.
type Frame struct {
	ID        int
	Rect      image.Rectangle
	Annotated [][]image.Rectangle
	Mirrored  bool
	Closed    bool
}

// NewFrame returns a 640x480 frame.
func NewFrame(id int) *Frame { return &Frame{ID: id, Rect: image.Rect(0, 0, 640, 480)} }

func (f *Frame) Bounds() image.Rectangle { return f.Rect }

func (f *Frame) Crop(r image.Rectangle) (vision.Sample, error) {
	if r.Intersect(f.Rect).Empty() {
		return nil, errors.New("crop outside frame")
	}
	return &Sample{FrameID: f.ID, Rect: r}, nil
}

func (f *Frame) Annotate(rects []image.Rectangle, _ color.RGBA, _ int) {
	f.Annotated = append(f.Annotated, append([]image.Rectangle(nil), rects...))
}

func (f *Frame) Mirror() { f.Mirrored = !f.Mirrored }

func (f *Frame) Image() (image.Image, error) { return image.NewRGBA(f.Rect), nil }

func (f *Frame) Close() error { f.Closed = true; return nil }

// Sample remembers where it was cropped from.
type Sample struct {
	FrameID int
	Rect    image.Rectangle
	Closed  bool
}

func (s *Sample) Close() error { s.Closed = true; return nil }

// Source replays a fixed list of frames; nil entries simulate a failed read.
// Once exhausted it calls Done (if set) and then reports no frame.
type Source struct {
	mu     sync.Mutex
	Frames []*Frame
	Done   func()
	next   int
	Closed bool
}

// ErrNoFrame is returned for nil entries and after the script runs out.
var ErrNoFrame = errors.New("no frame")

func (s *Source) Read() (vision.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.Frames) {
		if s.Done != nil {
			done := s.Done
			s.Done = nil
			done()
		}
		return nil, ErrNoFrame
	}
	f := s.Frames[s.next]
	s.next++
	if f == nil {
		return nil, ErrNoFrame
	}
	return f, nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Detector returns scripted rectangles keyed by frame id.
type Detector struct {
	ByFrame map[int][]image.Rectangle
	Calls   int
}

func (d *Detector) Detect(f vision.Frame) ([]image.Rectangle, error) {
	d.Calls++
	ff, ok := f.(*Frame)
	if !ok {
		return nil, errors.New("unexpected frame type")
	}
	return d.ByFrame[ff.ID], nil
}

func (d *Detector) Close() error { return nil }

// Recognizer scores samples by a scripted distance and persists its labels
// as JSON so file handling can be exercised.
type Recognizer struct {
	Labels      []label.ID
	Distance    float64
	PredictErr  error
	Predictions int
	Trains      int
	Updates     int
}

type recognizerFile struct {
	Labels []label.ID `json:"labels"`
}

func (r *Recognizer) Train(_ vision.Sample, id label.ID) error {
	r.Trains++
	r.Labels = []label.ID{id}
	return nil
}

func (r *Recognizer) Update(_ vision.Sample, id label.ID) error {
	r.Updates++
	r.Labels = append(r.Labels, id)
	return nil
}

func (r *Recognizer) Predict(vision.Sample) (vision.MatchResult, error) {
	r.Predictions++
	if r.PredictErr != nil {
		return vision.MatchResult{}, r.PredictErr
	}
	if len(r.Labels) == 0 {
		return vision.MatchResult{Distance: math.MaxFloat64}, vision.ErrPrediction
	}
	return vision.MatchResult{Label: r.Labels[len(r.Labels)-1], Distance: r.Distance}, nil
}

func (r *Recognizer) Save(path string) error {
	b, err := json.Marshal(recognizerFile{Labels: r.Labels})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (r *Recognizer) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var rf recognizerFile
	if err := json.Unmarshal(b, &rf); err != nil {
		return err
	}
	r.Labels = rf.Labels
	return nil
}

// Factory hands out recognizers and keeps every instance it created, so
// tests can inspect the one currently inside a model.
type Factory struct {
	Distance float64
	Made     []*Recognizer
}

// New satisfies vision.RecognizerFactory.
func (f *Factory) New() vision.Recognizer {
	r := &Recognizer{Distance: f.Distance}
	f.Made = append(f.Made, r)
	return r
}

// Last returns the most recently created recognizer.
func (f *Factory) Last() *Recognizer {
	if len(f.Made) == 0 {
		return nil
	}
	return f.Made[len(f.Made)-1]
}
