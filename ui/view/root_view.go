package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/angora-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews and satisfies the editor and stats view contracts.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Preview     CapturePreview
	Controls    ControlsPanel
	Stats       StatsBar
	ConfigPanel ConfigPanel
}

// Handlers are invoked on user actions.
type Handlers struct {
	ControlsHandlers
	OnQuit func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. previewW and previewH are the camera frame size;
// the preview is scaled down to fit.
func (rv *RootView) Build(previewW, previewH int, h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: preview, row 1: controls, row 2: stats, row 3: settings
	rv.Preview = NewCapturePreview(0, min(previewW, maxPreviewW), min(previewH, maxPreviewH))
	rv.Controls = NewControlsPanel(1, h.ControlsHandlers)
	rv.Stats = NewStatsBar(2)
	if rv.cfg != nil {
		rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
		rv.ConfigPanel.Build(3)
	}
	if h.OnQuit != nil {
		Bind(App, "<Escape>", Command(h.OnQuit))
	}
}

// ShowFrame proxies to the capture preview.
func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.ShowFrame(img)
	}
}

// SetStatus updates the recognition status text.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetStatus(text)
	}
}

// SetCommitEnabled toggles the "Add to Model" button.
func (rv *RootView) SetCommitEnabled(enabled bool) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetCommitEnabled(enabled)
	}
}

// SetClearEnabled toggles the "Clear Model" button.
func (rv *RootView) SetClearEnabled(enabled bool) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetClearEnabled(enabled)
	}
}

// SetStats proxies to the stats bar.
func (rv *RootView) SetStats(running time.Duration, fps float64, skipped uint64, avgProcess time.Duration) {
	if rv != nil && rv.Stats != nil {
		rv.Stats.SetStats(running, fps, skipped, avgProcess)
	}
}

// PreviewReset clears the capture preview.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}
