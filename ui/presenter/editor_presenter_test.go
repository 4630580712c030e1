package presenter

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/soocke/angora-go/domain/watch"
	"github.com/soocke/angora-go/ui/model"
)

type mockEditorView struct {
	frames        int
	status        string
	commitEnabled bool
	clearEnabled  bool
}

func (v *mockEditorView) ShowFrame(image.Image)   { v.frames++ }
func (v *mockEditorView) SetStatus(s string)      { v.status = s }
func (v *mockEditorView) SetCommitEnabled(b bool) { v.commitEnabled = b }
func (v *mockEditorView) SetClearEnabled(b bool)  { v.clearEnabled = b }

type mockCommands struct {
	commits []string
	clears  int
	full    bool
}

func (m *mockCommands) Commit(_, text string) bool { m.commits = append(m.commits, text); return !m.full }
func (m *mockCommands) Clear(string) bool          { m.clears++; return !m.full }

func TestEditorPresenter_InitialStatePushed(t *testing.T) {
	view := &mockEditorView{}
	NewEditorPresenter(model.NewEditorState("human", true), view, nil, nil, nil)
	if view.status != model.BlankStatus || !view.clearEnabled || view.commitEnabled {
		t.Fatalf("initial view state unexpected: %+v", view)
	}
}

func TestEditorPresenter_CommitFlow(t *testing.T) {
	view := &mockEditorView{}
	cmds := &mockCommands{}
	p := NewEditorPresenter(model.NewEditorState("human", false), view, cmds, nil, nil)

	p.Dispatch(FrameReady{Outcome: outcomeFor("human", false, watch.Detection{})})
	p.Dispatch(LabelChanged{Text: "Ann"})
	if !view.commitEnabled || view.frames != 1 {
		t.Fatalf("expected commit enabled after label and region: %+v", view)
	}
	p.Dispatch(CommitPressed{})
	if len(cmds.commits) != 1 || cmds.commits[0] != "Ann" {
		t.Fatalf("expected one commit of Ann, got %v", cmds.commits)
	}
	p.Dispatch(NoticeReceived{Notice: watch.Notice{Kind: watch.NoticeCommitted, Class: "human", Trained: true}})
	if !view.clearEnabled || !p.State().Trained {
		t.Fatalf("commit notice must enable clear")
	}
	p.Dispatch(ClearPressed{})
	if cmds.clears != 1 {
		t.Fatalf("expected clear request, got %d", cmds.clears)
	}
}

func TestEditorPresenter_Quit(t *testing.T) {
	quits := 0
	p := NewEditorPresenter(model.NewEditorState("human", false), &mockEditorView{}, nil, func() { quits++ }, nil)
	p.Dispatch(QuitPressed{})
	if quits != 1 {
		t.Fatalf("expected quit callback, got %d", quits)
	}
}

func TestEditorPresenter_NilSafe(t *testing.T) {
	var p *EditorPresenter
	p.Dispatch(QuitPressed{})
	if p.State().Class != "" {
		t.Fatalf("nil presenter must return zero state")
	}
	// No view and no commands attached.
	q := NewEditorPresenter(model.NewEditorState("human", false), nil, nil, nil, nil)
	q.Dispatch(FrameReady{Outcome: outcomeFor("human", false, watch.Detection{})})
	q.Dispatch(CommitPressed{})
}

func TestBridge_KeepsNewestFrameAndAllNotices(t *testing.T) {
	b := NewBridge(nil)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		if b.Outcome(ctx, watch.Outcome{Seq: uint64(i)}) {
			t.Fatalf("bridge must never stop the loop")
		}
	}
	b.Notice(watch.Notice{Kind: watch.NoticeCommitted})
	b.Notice(watch.Notice{Kind: watch.NoticeCleared})

	var got []Event
	b.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 3 {
		t.Fatalf("expected 2 notices and 1 frame, got %d events", len(got))
	}
	if n, ok := got[0].(NoticeReceived); !ok || n.Notice.Kind != watch.NoticeCommitted {
		t.Fatalf("notices must come first and in order: %#v", got)
	}
	f, ok := got[2].(FrameReady)
	if !ok || f.Outcome.Seq != 3 {
		t.Fatalf("expected newest frame seq 3, got %#v", got[2])
	}

	got = got[:0]
	b.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 0 {
		t.Fatalf("second drain must be empty, got %d", len(got))
	}
}

func TestBridge_DropsFrameOlderThanNotice(t *testing.T) {
	b := NewBridge(nil)
	ctx := context.Background()
	b.Outcome(ctx, watch.Outcome{Seq: 4})
	b.Notice(watch.Notice{Kind: watch.NoticeCleared, Seq: 5})

	var got []Event
	b.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 1 {
		t.Fatalf("expected only the notice, got %#v", got)
	}
	if _, ok := got[0].(NoticeReceived); !ok {
		t.Fatalf("expected notice, got %#v", got[0])
	}

	// A stale frame arriving on a later tick is dropped too.
	b.Outcome(ctx, watch.Outcome{Seq: 4})
	got = got[:0]
	b.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 0 {
		t.Fatalf("stale frame delivered: %#v", got)
	}

	b.Outcome(ctx, watch.Outcome{Seq: 5})
	b.Drain(func(e Event) { got = append(got, e) })
	if len(got) != 1 {
		t.Fatalf("expected the frame reflecting the notice, got %#v", got)
	}
	if f, ok := got[0].(FrameReady); !ok || f.Outcome.Seq != 5 {
		t.Fatalf("expected frame seq 5, got %#v", got[0])
	}
}

func TestBridge_NoticeOverflowDropsOldest(t *testing.T) {
	b := NewBridge(nil)
	for i := 0; i < noticeQueueSize+2; i++ {
		b.Notice(watch.Notice{Label: string(rune('a' + i))})
	}
	var labels []string
	b.Drain(func(e Event) {
		if n, ok := e.(NoticeReceived); ok {
			labels = append(labels, n.Notice.Label)
		}
	})
	if len(labels) != noticeQueueSize || labels[0] != "c" {
		t.Fatalf("expected %d newest notices starting at c, got %v", noticeQueueSize, labels)
	}
}

type mockStatsSource struct{ s watch.Stats }

func (m *mockStatsSource) Stats() watch.Stats { return m.s }

type mockStatsView struct {
	calls   int
	skipped uint64
}

func (v *mockStatsView) SetStats(_ time.Duration, _ float64, skipped uint64, _ time.Duration) {
	v.calls++
	v.skipped = skipped
}

func TestUpdateLoop_Tick(t *testing.T) {
	b := NewBridge(nil)
	view := &mockEditorView{}
	editor := NewEditorPresenter(model.NewEditorState("human", false), view, nil, nil, nil)
	sv := &mockStatsView{}
	stats := NewStatsPresenter(model.NewRateModel(), &mockStatsSource{s: watch.Stats{Frames: 3, Skipped: 2}}, sv)
	scheduled := 0
	l := NewLoop(b, editor, stats, func() { scheduled++ })

	b.Outcome(context.Background(), outcomeFor("human", false, watch.Detection{}))
	l.Tick()
	if view.frames != 1 || !editor.State().HasRegion {
		t.Fatalf("tick must deliver the queued frame")
	}
	if sv.calls != 1 || sv.skipped != 2 {
		t.Fatalf("tick must refresh stats: %+v", sv)
	}
	if scheduled != 1 {
		t.Fatalf("tick must reschedule, got %d", scheduled)
	}

	var nilLoop *Loop
	nilLoop.Tick()
}

type mockPreview struct{ resets int }

func (m *mockPreview) PreviewReset() { m.resets++ }

func TestUpdateLoop_ResetsPreviewOnceWhenCaptureStops(t *testing.T) {
	stopped := make(chan struct{})
	preview := &mockPreview{}
	l := &Loop{Stopped: stopped, Preview: preview}

	l.Tick()
	if preview.resets != 0 {
		t.Fatalf("preview reset while capture is running")
	}
	close(stopped)
	l.Tick()
	l.Tick()
	if preview.resets != 1 {
		t.Fatalf("expected one reset after capture stopped, got %d", preview.resets)
	}
}
