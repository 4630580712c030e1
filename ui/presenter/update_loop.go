package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It drains the bridge into the editor, ticks the stats presenter and
// invokes a scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Bridge   *Bridge
	Editor   *EditorPresenter
	Stats    *StatsPresenter
	Schedule func()

	// Stopped is closed when the capture worker exits. The preview is then
	// reset once so a dead camera does not leave a frozen frame on screen.
	Stopped <-chan struct{}
	Preview PreviewResetter
	reset   bool
}

// PreviewResetter narrows the view to clearing the preview.
type PreviewResetter interface {
	PreviewReset()
}

func NewLoop(bridge *Bridge, editor *EditorPresenter, stats *StatsPresenter, schedule func()) *Loop {
	return &Loop{Bridge: bridge, Editor: editor, Stats: stats, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	if l.Bridge != nil && l.Editor != nil {
		l.Bridge.Drain(l.Editor.Dispatch)
	}
	if l.Stats != nil {
		l.Stats.Tick(time.Now())
	}
	if !l.reset && l.Stopped != nil && l.Preview != nil {
		select {
		case <-l.Stopped:
			l.reset = true
			l.Preview.PreviewReset()
		default:
		}
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
