package presenter

import (
	"fmt"
	"image"

	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/watch"
	"github.com/soocke/angora-go/ui/model"
)

// Event is something that happened to the editor: user input or loop output.
type Event interface{ isEvent() }

// LabelChanged carries the current text of the label field.
type LabelChanged struct{ Text string }

// FrameReady carries a processed frame from the capture loop.
type FrameReady struct{ Outcome watch.Outcome }

// NoticeReceived carries the result of a command or a model reset.
type NoticeReceived struct{ Notice watch.Notice }

// CommitPressed is the "Add to Model" button.
type CommitPressed struct{}

// ClearPressed is the "Clear Model" button.
type ClearPressed struct{}

// QuitPressed is Escape or the window close button.
type QuitPressed struct{}

func (LabelChanged) isEvent()   {}
func (FrameReady) isEvent()     {}
func (NoticeReceived) isEvent() {}
func (CommitPressed) isEvent()  {}
func (ClearPressed) isEvent()   {}
func (QuitPressed) isEvent()    {}

// Effect is an action the presenter performs after a state transition.
type Effect interface{ isEffect() }

type (
	ShowFrame        struct{ Image image.Image }
	SetStatus        struct{ Text string }
	SetCommitEnabled struct{ Enabled bool }
	SetClearEnabled  struct{ Enabled bool }
	RequestCommit    struct{ Class, Label string }
	RequestClear     struct{ Class string }
	RequestQuit      struct{}
)

func (ShowFrame) isEffect()        {}
func (SetStatus) isEffect()        {}
func (SetCommitEnabled) isEffect() {}
func (SetClearEnabled) isEffect()  {}
func (RequestCommit) isEffect()    {}
func (RequestClear) isEffect()     {}
func (RequestQuit) isEffect()      {}

// PredictionText formats a match for the status line.
func PredictionText(m vision.MatchResult) string {
	return fmt.Sprintf("This looks most like %s.\nThe distance is %.0f.", m.Text(), m.Distance)
}

// StatusText picks the status line for a frame result.
func StatusText(co watch.ClassOutcome) string {
	if !co.Trained {
		return model.InstructionsText
	}
	if m, ok := co.FirstMatch(); ok {
		return PredictionText(m)
	}
	return model.BlankStatus
}

// CanCommit reports whether "Add to Model" may be pressed.
func CanCommit(s model.EditorState) bool {
	return s.HasRegion && label.Validate(s.Label) == nil
}

// Reduce maps an event onto the next state and the effects needed to bring
// the view and the loop in line with it. It has no side effects.
func Reduce(s model.EditorState, ev Event) (model.EditorState, []Effect) {
	prev := s
	var out []Effect
	switch e := ev.(type) {
	case LabelChanged:
		s.Label = e.Text
	case FrameReady:
		if e.Outcome.Image != nil {
			out = append(out, ShowFrame{Image: e.Outcome.Image})
		}
		co, ok := e.Outcome.Class(s.Class)
		if !ok {
			break
		}
		s.HasRegion = co.Highlighted()
		s.Trained = co.Trained
		s.Status = StatusText(co)
	case NoticeReceived:
		n := e.Notice
		if n.Class != s.Class {
			break
		}
		switch n.Kind {
		case watch.NoticeCommitted, watch.NoticeCleared, watch.NoticeModelReset:
			s.Trained = n.Trained
			s.LastError = ""
			if !s.Trained {
				s.Status = model.InstructionsText
			}
		case watch.NoticeRejected, watch.NoticeFailed:
			s.Trained = n.Trained
			if n.Err != nil {
				s.LastError = n.Err.Error()
			}
		}
	case CommitPressed:
		if CanCommit(s) {
			out = append(out, RequestCommit{Class: s.Class, Label: s.Label})
		}
	case ClearPressed:
		if s.Trained {
			out = append(out, RequestClear{Class: s.Class})
		}
	case QuitPressed:
		out = append(out, RequestQuit{})
	}

	s.CommitEnabled = CanCommit(s)
	s.ClearEnabled = s.Trained
	if s.Status != prev.Status {
		out = append(out, SetStatus{Text: s.Status})
	}
	if s.CommitEnabled != prev.CommitEnabled {
		out = append(out, SetCommitEnabled{Enabled: s.CommitEnabled})
	}
	if s.ClearEnabled != prev.ClearEnabled {
		out = append(out, SetClearEnabled{Enabled: s.ClearEnabled})
	}
	return s, out
}
