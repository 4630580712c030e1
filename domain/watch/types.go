package watch

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/soocke/angora-go/domain/vision"
)

// Source supplies frames to the loop. Read errors are treated as transient.
type Source interface {
	Read() (vision.Frame, error)
	Close() error
}

// Class is one tracked object class (for example "human" or "cat").
type Class struct {
	Name     string
	Detector vision.Detector
	// Model may be nil for detect-only classes.
	Model       *vision.Model
	MaxDistance float64
	// SuppressBy names an earlier class whose detections remove overlapping
	// detections of this class.
	SuppressBy string
	Color      color.RGBA
}

// Detection is one retained region and, when the class model is trained and
// the region was scored, its closest match.
type Detection struct {
	Rect  image.Rectangle
	Match *vision.MatchResult
}

// ClassOutcome is the per-class result for a frame.
type ClassOutcome struct {
	Class       string
	Trained     bool
	MaxDistance float64
	Detections  []Detection
	Suppressed  int
}

// Highlighted reports whether a region is available for committing.
func (c ClassOutcome) Highlighted() bool { return len(c.Detections) > 0 }

// FirstMatch returns the match of the highlighted region, if it was scored.
func (c ClassOutcome) FirstMatch() (vision.MatchResult, bool) {
	if len(c.Detections) == 0 || c.Detections[0].Match == nil {
		return vision.MatchResult{}, false
	}
	return *c.Detections[0].Match, true
}

// Outcome is the immutable result of one loop iteration.
type Outcome struct {
	Seq        uint64
	CapturedAt time.Time
	// Image is the annotated (and possibly mirrored) frame; nil unless the
	// loop renders.
	Image   image.Image
	Classes []ClassOutcome
}

// Class returns the outcome for name.
func (o Outcome) Class(name string) (ClassOutcome, bool) {
	for _, c := range o.Classes {
		if c.Class == name {
			return c, true
		}
	}
	return ClassOutcome{}, false
}

// NoticeKind classifies command results and model events.
type NoticeKind int

const (
	NoticeCommitted NoticeKind = iota + 1
	NoticeCleared
	NoticeRejected
	NoticeFailed
	NoticeModelReset
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeCommitted:
		return "committed"
	case NoticeCleared:
		return "cleared"
	case NoticeRejected:
		return "rejected"
	case NoticeFailed:
		return "failed"
	case NoticeModelReset:
		return "model-reset"
	default:
		return "unknown"
	}
}

// Notice reports the result of a command or a model reset.
type Notice struct {
	Kind    NoticeKind
	Class   string
	Label   string
	Trained bool
	Err     error
	// Seq is the first outcome sequence that reflects the notice. Outcomes
	// with a lower Seq were produced before it.
	Seq uint64
}

// Sink consumes loop output. Outcome returning true stops the loop.
// Both methods are called on the loop goroutine.
type Sink interface {
	Outcome(ctx context.Context, o Outcome) (stop bool)
	Notice(n Notice)
}
