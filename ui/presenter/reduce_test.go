package presenter

import (
	"errors"
	"image"
	"testing"

	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/watch"
	"github.com/soocke/angora-go/ui/model"
)

func outcomeFor(class string, trained bool, dets ...watch.Detection) watch.Outcome {
	return watch.Outcome{
		Seq:     1,
		Image:   image.NewRGBA(image.Rect(0, 0, 4, 4)),
		Classes: []watch.ClassOutcome{{Class: class, Trained: trained, Detections: dets}},
	}
}

func matchOf(t *testing.T, text string, distance float64) *vision.MatchResult {
	t.Helper()
	id, err := label.Encode(text)
	if err != nil {
		t.Fatalf("encode %q: %v", text, err)
	}
	return &vision.MatchResult{Label: id, Distance: distance}
}

func hasEffect[T Effect](effects []Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestReduce_UntrainedShowsInstructions(t *testing.T) {
	s := model.NewEditorState("human", false)
	s.Status = model.BlankStatus
	s, effects := Reduce(s, FrameReady{Outcome: outcomeFor("human", false, watch.Detection{Rect: image.Rect(0, 0, 10, 10)})})

	if s.Status != model.InstructionsText {
		t.Fatalf("expected instructions, got %q", s.Status)
	}
	if st, ok := hasEffect[SetStatus](effects); !ok || st.Text != model.InstructionsText {
		t.Fatalf("expected SetStatus effect with instructions, got %#v", effects)
	}
	if _, ok := hasEffect[ShowFrame](effects); !ok {
		t.Fatalf("expected ShowFrame effect")
	}
	if !s.HasRegion || s.CommitEnabled {
		t.Fatalf("region without label must keep commit disabled: %+v", s)
	}
}

func TestReduce_TrainedPrediction(t *testing.T) {
	s := model.NewEditorState("human", true)
	s, _ = Reduce(s, FrameReady{Outcome: outcomeFor("human", true, watch.Detection{Match: matchOf(t, "Joe", 12.4)})})

	want := "This looks most like Joe.\nThe distance is 12."
	if s.Status != want {
		t.Fatalf("status %q, want %q", s.Status, want)
	}

	s, _ = Reduce(s, FrameReady{Outcome: outcomeFor("human", true)})
	if s.Status != model.BlankStatus || s.HasRegion {
		t.Fatalf("trained without region must blank the status: %+v", s)
	}
	if !s.ClearEnabled {
		t.Fatalf("clear must stay enabled while trained")
	}
}

func TestReduce_CommitEnablement(t *testing.T) {
	s := model.NewEditorState("human", false)
	s, _ = Reduce(s, FrameReady{Outcome: outcomeFor("human", false, watch.Detection{})})

	cases := []struct {
		text string
		want bool
	}{
		{"", false},
		{"Ann", true},
		{"ABCD", true},
		{"TOOLONG", false},
		{"é", false},
	}
	for _, c := range cases {
		next, _ := Reduce(s, LabelChanged{Text: c.text})
		if next.CommitEnabled != c.want {
			t.Fatalf("label %q: commit enabled %v, want %v", c.text, next.CommitEnabled, c.want)
		}
	}

	s, effects := Reduce(s, LabelChanged{Text: "Ann"})
	if e, ok := hasEffect[SetCommitEnabled](effects); !ok || !e.Enabled {
		t.Fatalf("expected commit to be enabled, got %#v", effects)
	}
	// Region disappears: commit disabled again.
	s, effects = Reduce(s, FrameReady{Outcome: outcomeFor("human", false)})
	if e, ok := hasEffect[SetCommitEnabled](effects); !ok || e.Enabled || s.CommitEnabled {
		t.Fatalf("expected commit to be disabled, got %#v", effects)
	}
}

func TestReduce_CommitPressed(t *testing.T) {
	s := model.NewEditorState("cat", false)
	_, effects := Reduce(s, CommitPressed{})
	if _, ok := hasEffect[RequestCommit](effects); ok {
		t.Fatalf("commit without region must not be requested")
	}

	s, _ = Reduce(s, FrameReady{Outcome: outcomeFor("cat", false, watch.Detection{})})
	s, _ = Reduce(s, LabelChanged{Text: "Puss"})
	_, effects = Reduce(s, CommitPressed{})
	rc, ok := hasEffect[RequestCommit](effects)
	if !ok || rc.Class != "cat" || rc.Label != "Puss" {
		t.Fatalf("expected commit request for cat/Puss, got %#v", effects)
	}
}

func TestReduce_NoticesUpdateTraining(t *testing.T) {
	s := model.NewEditorState("human", false)
	s, effects := Reduce(s, NoticeReceived{Notice: watch.Notice{Kind: watch.NoticeCommitted, Class: "human", Trained: true}})
	if !s.Trained || !s.ClearEnabled {
		t.Fatalf("commit notice must enable clear: %+v", s)
	}
	if e, ok := hasEffect[SetClearEnabled](effects); !ok || !e.Enabled {
		t.Fatalf("expected SetClearEnabled(true), got %#v", effects)
	}

	_, effects = Reduce(s, ClearPressed{})
	if rc, ok := hasEffect[RequestClear](effects); !ok || rc.Class != "human" {
		t.Fatalf("expected clear request, got %#v", effects)
	}

	s, _ = Reduce(s, NoticeReceived{Notice: watch.Notice{Kind: watch.NoticeModelReset, Class: "human", Err: errors.New("bad model")}})
	if s.Trained || s.ClearEnabled || s.Status != model.InstructionsText {
		t.Fatalf("model reset must return to instructions: %+v", s)
	}

	_, effects = Reduce(s, ClearPressed{})
	if _, ok := hasEffect[RequestClear](effects); ok {
		t.Fatalf("clear must not be requested while untrained")
	}
}

func TestReduce_RejectionRecorded(t *testing.T) {
	s := model.NewEditorState("human", false)
	s, _ = Reduce(s, NoticeReceived{Notice: watch.Notice{Kind: watch.NoticeRejected, Class: "human", Err: errors.New("no region highlighted")}})
	if s.LastError != "no region highlighted" {
		t.Fatalf("expected rejection to be recorded, got %q", s.LastError)
	}
	// Notices for other classes are ignored.
	next, effects := Reduce(s, NoticeReceived{Notice: watch.Notice{Kind: watch.NoticeCommitted, Class: "cat", Trained: true}})
	if next.Trained || len(effects) != 0 {
		t.Fatalf("foreign notice changed state: %+v %#v", next, effects)
	}
}

func TestReduce_Quit(t *testing.T) {
	_, effects := Reduce(model.NewEditorState("human", false), QuitPressed{})
	if _, ok := hasEffect[RequestQuit](effects); !ok {
		t.Fatalf("expected quit request")
	}
}
