// Package pipeline assembles frame sources, detectors and models from
// configuration for both executables.
package pipeline

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soocke/angora-go/config"
	"github.com/soocke/angora-go/domain/capture"
	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/vision/cv"
	"github.com/soocke/angora-go/domain/watch"
)

// classColors are assigned to classes in declaration order.
var classColors = []color.RGBA{
	{G: 255, A: 255},         // green
	{R: 255, G: 128, A: 255}, // orange
	{R: 255, A: 255},         // red
	{R: 255, G: 255, A: 255}, // yellow
}

// OpenSource opens the configured frame source and reports its frame size.
func OpenSource(cfg *config.Config, logger *slog.Logger) (watch.Source, image.Point, error) {
	if cfg.Source == config.SourceScreen {
		s := capture.NewScreen(cfg.ScreenRect())
		img, err := s.Grab()
		if err != nil {
			return nil, image.Point{}, errors.Wrap(err, "screen capture")
		}
		size := img.Bounds().Size()
		if logger != nil {
			logger.Info("screen source", "width", size.X, "height", size.Y)
		}
		return s, size, nil
	}
	cam, err := capture.OpenCamera(cfg.CameraDevice, image.Pt(cfg.ImageWidth, cfg.ImageHeight), logger)
	if err != nil {
		return nil, image.Point{}, err
	}
	return cam, cam.Size(), nil
}

// Classes holds the built classes and releases their detectors on Close.
type Classes struct {
	List []watch.Class
}

// Close releases every detector.
func (c *Classes) Close() {
	for _, cl := range c.List {
		if cl.Detector != nil {
			_ = cl.Detector.Close()
		}
	}
}

// Persist saves every trained model, returning the first error.
func (c *Classes) Persist() error {
	var first error
	for _, cl := range c.List {
		if cl.Model == nil {
			continue
		}
		if err := cl.Model.Persist(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Untrained returns the names of classes whose model has no examples.
func (c *Classes) Untrained() []string {
	var out []string
	for _, cl := range c.List {
		if !cl.Model.Trained() {
			out = append(out, cl.Name)
		}
	}
	return out
}

// BuildClasses loads the cascade and model of each named class, in the order
// the classes are declared in cfg. An empty names list builds every class.
// A SuppressBy reference to a class that is not built is dropped.
func BuildClasses(cfg *config.Config, names []string, logger *slog.Logger) (*Classes, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := cfg.Class(n); !ok {
			return nil, errors.Errorf("unknown class %q", n)
		}
		want[n] = true
	}
	built := &Classes{}
	have := make(map[string]bool)
	for i, cc := range cfg.Classes {
		if len(want) > 0 && !want[cc.Name] {
			continue
		}
		det, err := cv.LoadCascade(cc.CascadePath, cv.CascadeOptions{
			ScaleFactor:       cc.ScaleFactor,
			MinNeighbors:      cc.MinNeighbors,
			MinSizeProportion: cc.MinSizeProportion,
		})
		if err != nil {
			built.Close()
			return nil, errors.Wrapf(err, "class %s", cc.Name)
		}
		model, err := vision.OpenModel(cc.ModelPath, cv.NewLBPH, logger)
		if err != nil {
			_ = det.Close()
			built.Close()
			return nil, errors.Wrapf(err, "class %s", cc.Name)
		}
		suppress := cc.SuppressBy
		if !have[suppress] {
			suppress = ""
		}
		built.List = append(built.List, watch.Class{
			Name:        cc.Name,
			Detector:    det,
			Model:       model,
			MaxDistance: cc.MaxDistance,
			SuppressBy:  suppress,
			Color:       classColors[i%len(classColors)],
		})
		have[cc.Name] = true
		if logger != nil {
			logger.Info("class ready", "class", cc.Name, "cascade", cc.CascadePath, "model", cc.ModelPath, "trained", model.Trained())
		}
	}
	return built, nil
}
