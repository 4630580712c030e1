package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/angora-go/ui/presenter"
	"github.com/soocke/angora-go/ui/theme"
	"github.com/soocke/angora-go/ui/view"
)

const (
	tick            = 33 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Editor is the interactive model editor window.
type Editor struct {
	title   string
	c       *AppContainer
	logger  *slog.Logger
	afterID string

	cancel   context.CancelFunc
	quitOnce sync.Once
}

// NewEditor returns the editor for an assembled container.
func NewEditor(title string, c *AppContainer) *Editor {
	return &Editor{title: title, c: c, logger: c.Logger}
}

// Start builds the window, launches the capture worker and blocks in the Tk
// event loop until the window is closed.
func (a *Editor) Start() {
	theme.InitStyles(a.c.Config.DarkMode)
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)

	a.c.RootView.Build(a.c.FrameSize.X, a.c.FrameSize.Y, viewHandlers(a))
	a.c.WirePresenters(a.exitHandler, a.scheduleUpdate)
	WmGeometry(App, fmt.Sprintf("+%d+%d", 100, 100))

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.runCapture(ctx)

	a.scheduleUpdate()
	App.Wait()
}

func viewHandlers(a *Editor) (h view.Handlers) {
	h.OnLabelChanged = func(text string) { a.dispatch(presenter.LabelChanged{Text: text}) }
	h.OnCommit = func() { a.dispatch(presenter.CommitPressed{}) }
	h.OnClear = func() { a.dispatch(presenter.ClearPressed{}) }
	h.OnQuit = func() { a.dispatch(presenter.QuitPressed{}) }
	return h
}

func (a *Editor) dispatch(ev presenter.Event) {
	if a.c.Editor != nil {
		a.c.Editor.Dispatch(ev)
	}
}

func (a *Editor) runCapture(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil && a.logger != nil {
			a.logger.Error("capture worker panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	if err := a.c.Capture.Run(ctx); err != nil && a.logger != nil {
		a.logger.Error("capture loop stopped", "error", err)
	}
}

func (a *Editor) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}

// exitHandler stops the worker, saves the trained model and closes the window.
// When the worker does not stop in time the model and the camera are left to
// it: saving or closing them could race a Read or Predict still in flight.
func (a *Editor) exitHandler() {
	a.quitOnce.Do(func() {
		if a.afterID != "" {
			TclAfterCancel(a.afterID)
		}
		stopped := true
		if a.cancel != nil {
			a.cancel()
			stopped = a.c.Capture.Wait(shutdownTimeout)
		}
		if !stopped {
			if a.logger != nil {
				a.logger.Warn("capture worker did not stop in time; skipping model save and source close", "timeout", shutdownTimeout)
			}
			Destroy(App)
			return
		}
		if err := a.c.Classes.Persist(); err != nil && a.logger != nil {
			a.logger.Error("save model", "error", err)
		}
		a.c.Close()
		Destroy(App)
	})
}
