package presenter

import (
	"context"
	"log/slog"

	"github.com/soocke/angora-go/domain/watch"
)

const noticeQueueSize = 16

// Bridge is the watch.Sink of the editor. It runs on the capture goroutine
// and never touches widgets: outcomes and notices are queued for the Tk
// thread, which drains them on its update tick. Only the newest frame is
// kept; stale frames are dropped.
type Bridge struct {
	frames  chan watch.Outcome
	notices chan watch.Notice
	logger  *slog.Logger

	// minSeq is the oldest outcome sequence still consistent with the
	// notices delivered so far. Only Drain touches it.
	minSeq uint64
}

// NewBridge returns a bridge with a single-slot frame queue.
func NewBridge(logger *slog.Logger) *Bridge {
	return &Bridge{
		frames:  make(chan watch.Outcome, 1),
		notices: make(chan watch.Notice, noticeQueueSize),
		logger:  logger,
	}
}

// Outcome replaces any frame the Tk thread has not picked up yet. The editor
// never stops the loop from here; shutdown goes through the context.
func (b *Bridge) Outcome(_ context.Context, o watch.Outcome) bool {
	select {
	case b.frames <- o:
	default:
		select {
		case <-b.frames:
		default:
		}
		select {
		case b.frames <- o:
		default:
		}
	}
	return false
}

// Notice queues n, dropping the oldest notice when the queue is full.
func (b *Bridge) Notice(n watch.Notice) {
	select {
	case b.notices <- n:
		return
	default:
	}
	select {
	case old := <-b.notices:
		if b.logger != nil {
			b.logger.Warn("notice dropped", "kind", old.Kind.String(), "class", old.Class)
		}
	default:
	}
	select {
	case b.notices <- n:
	default:
	}
}

// Drain hands every queued notice and then the newest frame to dispatch as
// events. A frame produced before a delivered notice is dropped. It does not
// block.
func (b *Bridge) Drain(dispatch func(Event)) {
	for {
		select {
		case n := <-b.notices:
			if n.Seq > b.minSeq {
				b.minSeq = n.Seq
			}
			dispatch(NoticeReceived{Notice: n})
		default:
			goto frames
		}
	}

frames:
	select {
	case o := <-b.frames:
		if o.Seq < b.minSeq {
			return
		}
		dispatch(FrameReady{Outcome: o})
	default:
	}
}
