// Package watch runs the capture, detect and recognize loop shared by the
// interactive editor and the unattended watcher.
package watch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/soocke/angora-go/domain/geom"
	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
)

const (
	statsLogInterval = 5 * time.Second
	readBackoff      = 10 * time.Millisecond
	commandQueueSize = 8
)

// Options configures a Loop.
type Options struct {
	Source  Source
	Classes []Class
	Sink    Sink
	Logger  *slog.Logger
	// MinOverlap is the fraction of the smaller rectangle two detections must
	// share before the suppressed one is dropped; zero means any overlap.
	MinOverlap float64
	// Render exports an annotated image with every outcome.
	Render bool
	// Mirror flips rendered images horizontally.
	Mirror bool
	// PredictAll scores every detection instead of only the first.
	PredictAll bool
	// Thickness of the outline drawn around detections.
	Thickness int
	// Unattended resets a model that fails to predict in memory only, so its
	// file survives for the next start, and ends Run with
	// ErrNoTrainedModels once no class is trained any more.
	Unattended bool
}

// ErrNoTrainedModels is returned by an unattended Run after every model was
// reset.
var ErrNoTrainedModels = errors.New("watch: no trained models left")

type commandKind int

const (
	cmdCommit commandKind = iota + 1
	cmdClear
)

type command struct {
	kind  commandKind
	class string
	text  string
}

// Loop pulls frames, detects, recognizes and forwards outcomes to a Sink.
// Models are only touched on the goroutine running Run; editing requests
// from other goroutines are queued with Commit and Clear.
type Loop struct {
	opts     Options
	logger   *slog.Logger
	commands chan command
	done     chan struct{}
	started  atomic.Bool

	// highlighted holds the sample of the first detection per class, kept
	// until the next frame so a commit can use it.
	highlighted map[string]vision.Sample

	frames       atomic.Uint64
	skipped      atomic.Uint64
	processNanos atomic.Uint64
	lastFrame    atomic.Int64
	sequence     uint64
}

// New validates opts and returns a loop ready to Run.
func New(opts Options) (*Loop, error) {
	if opts.Source == nil {
		return nil, errors.New("watch: nil source")
	}
	if opts.Sink == nil {
		return nil, errors.New("watch: nil sink")
	}
	seen := make(map[string]bool, len(opts.Classes))
	for _, c := range opts.Classes {
		if c.Name == "" || c.Detector == nil {
			return nil, fmt.Errorf("watch: class %q needs a name and a detector", c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("watch: duplicate class %q", c.Name)
		}
		if c.SuppressBy != "" && !seen[c.SuppressBy] {
			return nil, fmt.Errorf("watch: class %q is suppressed by %q which must be declared before it", c.Name, c.SuppressBy)
		}
		seen[c.Name] = true
	}
	if opts.Thickness <= 0 {
		opts.Thickness = 1
	}
	return &Loop{
		opts:        opts,
		logger:      opts.Logger,
		commands:    make(chan command, commandQueueSize),
		done:        make(chan struct{}),
		highlighted: make(map[string]vision.Sample),
	}, nil
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Wait blocks until Run returns or timeout elapses and reports whether Run
// returned. Models, detectors and the source stay owned by the loop until it
// has.
func (l *Loop) Wait(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-l.done:
		return true
	case <-t.C:
		return false
	}
}

// Commit asks the loop to add the highlighted region of class under text.
// It reports false when the request queue is full.
func (l *Loop) Commit(class, text string) bool {
	return l.enqueue(command{kind: cmdCommit, class: class, text: text})
}

// Clear asks the loop to discard the model of class.
func (l *Loop) Clear(class string) bool {
	return l.enqueue(command{kind: cmdClear, class: class})
}

func (l *Loop) enqueue(c command) bool {
	select {
	case l.commands <- c:
		return true
	default:
		return false
	}
}

// Run processes frames until ctx is cancelled or the sink asks to stop.
func (l *Loop) Run(ctx context.Context) (err error) {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("watch: loop already running")
	}
	defer close(l.done)
	defer l.releaseHighlights()
	defer func() {
		if r := recover(); r != nil {
			if l.logger != nil {
				l.logger.Error("capture loop panic", "error", r, "stack", string(debug.Stack()))
			}
			err = fmt.Errorf("watch: loop panic: %v", r)
		}
	}()

	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	backoff := time.NewTimer(0)
	defer backoff.Stop()
	<-backoff.C

	for {
		if ctx.Err() != nil {
			return nil
		}
		l.drainCommands()

		stop, ok := l.tick(ctx)
		if stop {
			return nil
		}
		if ok && l.opts.Unattended && !l.anyTrained() {
			return ErrNoTrainedModels
		}
		if !ok {
			backoff.Reset(readBackoff)
			select {
			case <-ctx.Done():
				return nil
			case <-backoff.C:
			}
		}

		select {
		case <-logTicker.C:
			l.logStats()
		default:
		}
	}
}

func (l *Loop) drainCommands() {
	for {
		select {
		case c := <-l.commands:
			l.execute(c)
		default:
			return
		}
	}
}

// tick runs one iteration. ok is false when no frame was available.
func (l *Loop) tick(ctx context.Context) (stop, ok bool) {
	frame, err := l.opts.Source.Read()
	if err != nil || frame == nil {
		l.skipped.Add(1)
		return false, false
	}
	defer frame.Close()

	start := time.Now()
	l.sequence++
	out := Outcome{Seq: l.sequence, CapturedAt: start, Classes: make([]ClassOutcome, 0, len(l.opts.Classes))}
	rectsByClass := make(map[string][]image.Rectangle, len(l.opts.Classes))

	for i := range l.opts.Classes {
		c := &l.opts.Classes[i]
		co := l.processClass(c, frame, rectsByClass)
		out.Classes = append(out.Classes, co)
	}

	if l.opts.Render {
		if l.opts.Mirror {
			frame.Mirror()
		}
		img, err := frame.Image()
		if err != nil {
			if l.logger != nil {
				l.logger.Error("render frame", "error", err)
			}
		} else {
			out.Image = img
		}
	}

	l.frames.Add(1)
	l.processNanos.Add(uint64(time.Since(start).Nanoseconds()))
	l.lastFrame.Store(start.UnixNano())

	return l.opts.Sink.Outcome(ctx, out), true
}

func (l *Loop) processClass(c *Class, frame vision.Frame, rectsByClass map[string][]image.Rectangle) ClassOutcome {
	co := ClassOutcome{Class: c.Name, Trained: c.Model.Trained(), MaxDistance: c.MaxDistance}

	rects, err := c.Detector.Detect(frame)
	if err != nil {
		if l.logger != nil {
			l.logger.Error("detect", "class", c.Name, "error", err)
		}
		rects = nil
	}
	if c.SuppressBy != "" {
		before := len(rects)
		rects = geom.Difference(rects, rectsByClass[c.SuppressBy], l.opts.MinOverlap)
		co.Suppressed = before - len(rects)
	}
	rectsByClass[c.Name] = rects
	frame.Annotate(rects, c.Color, l.opts.Thickness)

	l.setHighlight(c.Name, nil)
	co.Detections = make([]Detection, 0, len(rects))
	for i, r := range rects {
		d := Detection{Rect: r}
		if i == 0 || l.opts.PredictAll {
			sample, err := frame.Crop(r)
			if err != nil {
				if l.logger != nil {
					l.logger.Debug("crop", "class", c.Name, "rect", r.String(), "error", err)
				}
				co.Detections = append(co.Detections, d)
				continue
			}
			if co.Trained {
				d.Match = l.predict(c, sample)
				co.Trained = c.Model.Trained()
			}
			if i == 0 {
				l.setHighlight(c.Name, sample)
			} else {
				sample.Close()
			}
		}
		co.Detections = append(co.Detections, d)
	}
	return co
}

// predict scores sample. A failing model is discarded and recreated empty;
// unattended loops keep its file.
func (l *Loop) predict(c *Class, sample vision.Sample) *vision.MatchResult {
	res, err := c.Model.Predict(sample)
	if err == nil {
		return &res
	}
	if errors.Is(err, vision.ErrUntrained) {
		return nil
	}
	if l.logger != nil {
		l.logger.Warn("recreating model due to error", "class", c.Name, "error", err, "keep_file", l.opts.Unattended)
	}
	if l.opts.Unattended {
		c.Model.Reset()
	} else if cerr := c.Model.Clear(); cerr != nil && l.logger != nil {
		l.logger.Error("clear model", "class", c.Name, "error", cerr)
	}
	l.emit(Notice{Kind: NoticeModelReset, Class: c.Name, Err: err, Seq: l.sequence})
	return nil
}

func (l *Loop) setHighlight(class string, s vision.Sample) {
	if prev := l.highlighted[class]; prev != nil {
		prev.Close()
	}
	if s == nil {
		delete(l.highlighted, class)
		return
	}
	l.highlighted[class] = s
}

func (l *Loop) releaseHighlights() {
	for name := range l.highlighted {
		l.setHighlight(name, nil)
	}
}

// emit stamps n with the sequence of the next outcome unless it is already
// stamped and hands it to the sink.
func (l *Loop) emit(n Notice) {
	if n.Seq == 0 {
		n.Seq = l.sequence + 1
	}
	l.opts.Sink.Notice(n)
}

func (l *Loop) anyTrained() bool {
	for i := range l.opts.Classes {
		if l.opts.Classes[i].Model.Trained() {
			return true
		}
	}
	return false
}

func (l *Loop) class(name string) *Class {
	for i := range l.opts.Classes {
		if l.opts.Classes[i].Name == name {
			return &l.opts.Classes[i]
		}
	}
	return nil
}

func (l *Loop) execute(cmd command) {
	c := l.class(cmd.class)
	if c == nil || c.Model == nil {
		l.emit(Notice{Kind: NoticeRejected, Class: cmd.class, Err: fmt.Errorf("no model for class %q", cmd.class)})
		return
	}
	switch cmd.kind {
	case cmdCommit:
		l.commit(c, cmd.text)
	case cmdClear:
		n := Notice{Kind: NoticeCleared, Class: c.Name}
		if err := c.Model.Clear(); err != nil {
			n = Notice{Kind: NoticeFailed, Class: c.Name, Err: err}
		} else if l.logger != nil {
			l.logger.Info("model cleared", "class", c.Name, "path", c.Model.Path())
		}
		n.Trained = c.Model.Trained()
		l.emit(n)
	}
}

func (l *Loop) commit(c *Class, text string) {
	id, err := label.Encode(text)
	if err != nil {
		l.emit(Notice{Kind: NoticeRejected, Class: c.Name, Label: text, Trained: c.Model.Trained(), Err: err})
		return
	}
	sample := l.highlighted[c.Name]
	if sample == nil {
		l.emit(Notice{Kind: NoticeRejected, Class: c.Name, Label: text, Trained: c.Model.Trained(), Err: errors.New("no region highlighted")})
		return
	}
	if err := c.Model.Commit(sample, id); err != nil {
		l.emit(Notice{Kind: NoticeFailed, Class: c.Name, Label: text, Trained: c.Model.Trained(), Err: err})
		return
	}
	if l.logger != nil {
		l.logger.Info("model updated", "class", c.Name, "label", text)
	}
	l.emit(Notice{Kind: NoticeCommitted, Class: c.Name, Label: text, Trained: true})
}

// Stats summarises loop activity.
type Stats struct {
	Frames     uint64
	Skipped    uint64
	AvgProcess time.Duration
	LastFrame  time.Time
}

// Stats is safe to call from any goroutine.
func (l *Loop) Stats() Stats {
	frames := l.frames.Load()
	var avg time.Duration
	if frames > 0 {
		avg = time.Duration(l.processNanos.Load() / frames)
	}
	var last time.Time
	if ns := l.lastFrame.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return Stats{Frames: frames, Skipped: l.skipped.Load(), AvgProcess: avg, LastFrame: last}
}

func (l *Loop) logStats() {
	if l.logger == nil {
		return
	}
	s := l.Stats()
	l.logger.Debug("capture.stats",
		"frames", s.Frames,
		"skipped", s.Skipped,
		"avg_process", s.AvgProcess,
	)
}
