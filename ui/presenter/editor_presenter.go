package presenter

import (
	"image"
	"log/slog"

	"github.com/soocke/angora-go/ui/model"
)

// EditorView is the widget surface the editor presenter drives.
type EditorView interface {
	ShowFrame(img image.Image)
	SetStatus(text string)
	SetCommitEnabled(enabled bool)
	SetClearEnabled(enabled bool)
}

// ModelCommands narrows the capture loop to the editing requests it accepts.
type ModelCommands interface {
	Commit(class, text string) bool
	Clear(class string) bool
}

// EditorPresenter owns the editor state and applies reducer effects.
// All methods must be called on the Tk thread.
type EditorPresenter struct {
	state  model.EditorState
	view   EditorView
	cmds   ModelCommands
	quit   func()
	logger *slog.Logger
}

// NewEditorPresenter starts from initial and pushes it to view.
func NewEditorPresenter(initial model.EditorState, view EditorView, cmds ModelCommands, quit func(), logger *slog.Logger) *EditorPresenter {
	initial.CommitEnabled = CanCommit(initial)
	initial.ClearEnabled = initial.Trained
	p := &EditorPresenter{state: initial, view: view, cmds: cmds, quit: quit, logger: logger}
	if view != nil {
		view.SetStatus(initial.Status)
		view.SetCommitEnabled(initial.CommitEnabled)
		view.SetClearEnabled(initial.ClearEnabled)
	}
	return p
}

// State returns a copy of the current state.
func (p *EditorPresenter) State() model.EditorState {
	if p == nil {
		return model.EditorState{}
	}
	return p.state
}

// Dispatch runs ev through Reduce and applies the resulting effects.
func (p *EditorPresenter) Dispatch(ev Event) {
	if p == nil {
		return
	}
	prevErr := p.state.LastError
	next, effects := Reduce(p.state, ev)
	p.state = next
	if next.LastError != "" && next.LastError != prevErr && p.logger != nil {
		p.logger.Warn("model edit rejected", "class", next.Class, "error", next.LastError)
	}
	for _, eff := range effects {
		p.apply(eff)
	}
}

func (p *EditorPresenter) apply(eff Effect) {
	switch e := eff.(type) {
	case ShowFrame:
		if p.view != nil {
			p.view.ShowFrame(e.Image)
		}
	case SetStatus:
		if p.view != nil {
			p.view.SetStatus(e.Text)
		}
	case SetCommitEnabled:
		if p.view != nil {
			p.view.SetCommitEnabled(e.Enabled)
		}
	case SetClearEnabled:
		if p.view != nil {
			p.view.SetClearEnabled(e.Enabled)
		}
	case RequestCommit:
		if p.cmds != nil && !p.cmds.Commit(e.Class, e.Label) && p.logger != nil {
			p.logger.Warn("commit dropped, worker busy", "class", e.Class)
		}
	case RequestClear:
		if p.cmds != nil && !p.cmds.Clear(e.Class) && p.logger != nil {
			p.logger.Warn("clear dropped, worker busy", "class", e.Class)
		}
	case RequestQuit:
		if p.quit != nil {
			p.quit()
		}
	}
}
