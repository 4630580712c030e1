package app

import (
	"image"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soocke/angora-go/config"
	"github.com/soocke/angora-go/domain/pipeline"
	"github.com/soocke/angora-go/domain/watch"
	"github.com/soocke/angora-go/ui/model"
	"github.com/soocke/angora-go/ui/presenter"
	"github.com/soocke/angora-go/ui/view"
)

// AppContainer assembles the source, capture loop, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Source     watch.Source
	FrameSize  image.Point
	Classes    *pipeline.Classes
	Class      watch.Class
	Capture    *watch.Loop
	Bridge     *presenter.Bridge
	Rate       *model.RateModel
	RootView   *view.RootView

	// Presenters, wired after the root view is built.
	Editor *presenter.EditorPresenter
	Stats  *presenter.StatsPresenter
	Loop   *presenter.Loop
}

// BuildContainer opens the source and loads the interactive class. Failures
// here are startup errors: the camera or cascade is missing.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	src, size, err := pipeline.OpenSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Source, c.FrameSize = src, size

	classes, err := pipeline.BuildClasses(cfg, []string{cfg.InteractiveClass}, logger)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	if len(classes.List) != 1 {
		classes.Close()
		_ = src.Close()
		return nil, errors.Errorf("class %q not configured", cfg.InteractiveClass)
	}
	c.Classes = classes
	c.Class = classes.List[0]

	c.Bridge = presenter.NewBridge(logger)
	c.Capture, err = watch.New(watch.Options{
		Source:     src,
		Classes:    classes.List,
		Sink:       c.Bridge,
		Logger:     logger,
		MinOverlap: cfg.MinOverlap,
		Render:     true,
		Mirror:     cfg.Mirrored,
	})
	if err != nil {
		classes.Close()
		_ = src.Close()
		return nil, err
	}
	c.Rate = model.NewRateModel()
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	return c, nil
}

// WirePresenters connects presenters to the built view. quit is invoked for
// Escape and window close; schedule re-arms the Tk update tick.
func (c *AppContainer) WirePresenters(quit, schedule func()) {
	initial := model.NewEditorState(c.Class.Name, c.Class.Model.Trained())
	c.Editor = presenter.NewEditorPresenter(initial, c.RootView, c.Capture, quit, c.Logger)
	c.Stats = presenter.NewStatsPresenter(c.Rate, c.Capture, c.RootView)
	c.Loop = presenter.NewLoop(c.Bridge, c.Editor, c.Stats, schedule)
	c.Loop.Stopped = c.Capture.Done()
	c.Loop.Preview = c.RootView
}

// Close releases the detectors and the source.
func (c *AppContainer) Close() {
	if c.Classes != nil {
		c.Classes.Close()
	}
	if c.Source != nil {
		if err := c.Source.Close(); err != nil && c.Logger != nil {
			c.Logger.Error("close source", "error", err)
		}
	}
}
