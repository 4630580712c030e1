package model

import "github.com/soocke/angora-go/domain/label"

// Status texts shown under the preview.
const (
	InstructionsText = "When an object is highlighted, type its name\n(max 4 chars) and click \"Add to Model\"."
	// BlankStatus keeps the status line two rows tall.
	BlankStatus = "\n"
)

// EditorState is the presentation state of the model editor. It is a plain
// value: the reducer returns a new copy for every event.
type EditorState struct {
	// Class is the tracked class the editor trains.
	Class string
	// Label is the current content of the label field.
	Label string
	// HasRegion is true while the latest frame highlights a detection.
	HasRegion bool
	Trained   bool
	Status    string

	CommitEnabled bool
	ClearEnabled  bool
	// LastError is the text of the most recent rejected or failed command.
	LastError string
}

// NewEditorState returns the state shown before the first frame arrives.
func NewEditorState(class string, trained bool) EditorState {
	s := EditorState{Class: class, Trained: trained, Status: BlankStatus}
	if !trained {
		s.Status = InstructionsText
	}
	s.ClearEnabled = trained
	return s
}

// LimitLabel cuts text to the longest label the codec accepts. The label
// field applies it as the user types.
func LimitLabel(text string) string {
	r := []rune(text)
	if len(r) <= label.MaxLen {
		return text
	}
	return string(r[:label.MaxLen])
}
