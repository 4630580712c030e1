package notify

import (
	"context"
	"log/slog"

	"github.com/soocke/angora-go/domain/watch"
)

// AlertSink feeds recognized detections of a watch loop to a Dispatcher.
type AlertSink struct {
	Dispatcher *Dispatcher
	// StopAfterAlert ends the loop after the first delivered alert.
	StopAfterAlert bool
	Logger         *slog.Logger

	sent int
}

// Sent returns how many alerts were delivered.
func (s *AlertSink) Sent() int { return s.sent }

// Outcome considers every scored detection in class order.
func (s *AlertSink) Outcome(ctx context.Context, o watch.Outcome) bool {
	for _, c := range o.Classes {
		for _, d := range c.Detections {
			if d.Match == nil {
				continue
			}
			sighting := Sighting{
				Class:       c.Class,
				Label:       d.Match.Text(),
				Distance:    d.Match.Distance,
				MaxDistance: c.MaxDistance,
			}
			if s.Logger != nil {
				s.Logger.Debug("sighting", "seq", o.Seq, "class", sighting.Class, "label", sighting.Label, "distance", sighting.Distance)
			}
			sent, err := s.Dispatcher.Consider(ctx, sighting)
			if err != nil || !sent {
				continue
			}
			s.sent++
			if s.StopAfterAlert {
				return true
			}
		}
	}
	return false
}

// Notice logs model events; the watcher issues no commands.
func (s *AlertSink) Notice(n watch.Notice) {
	if s.Logger == nil {
		return
	}
	if n.Err != nil {
		s.Logger.Warn("model notice", "kind", n.Kind.String(), "class", n.Class, "error", n.Err)
		return
	}
	s.Logger.Info("model notice", "kind", n.Kind.String(), "class", n.Class)
}
