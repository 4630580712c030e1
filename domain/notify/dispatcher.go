// Package notify emails alerts when a known subject is sighted.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "Angora Blue"

// ErrUnreachable reports that the mail server could not be contacted.
var ErrUnreachable = errors.New("mail server unreachable")

// Message is a composed plain-text alert.
type Message struct {
	From    string
	To      []string
	Cc      []string
	Subject string
	Body    string
}

// Transport delivers a message.
type Transport interface {
	Send(ctx context.Context, m Message) error
}

// Sighting is one recognized detection considered for an alert.
type Sighting struct {
	Class       string
	Label       string
	Distance    float64
	MaxDistance float64
}

// Body returns the alert text for s.
func (s Sighting) Body() string {
	return fmt.Sprintf("We have sighted the %s known as %s.", s.Class, s.Label)
}

// Dispatcher decides whether a sighting is close enough to report and sends
// the alert through Transport.
type Dispatcher struct {
	Transport Transport
	From      string
	To        []string
	Cc        []string
	Subject   string
	Logger    *slog.Logger
}

// Consider sends one alert when s.Distance is within s.MaxDistance. sent is
// true only when the transport accepted the message. Unreachable servers are
// logged and reported as not sent without an error so the caller keeps going.
func (d *Dispatcher) Consider(ctx context.Context, s Sighting) (sent bool, err error) {
	if s.Distance > s.MaxDistance {
		return false, nil
	}
	if d.Transport == nil {
		return false, errors.New("notify: no transport")
	}
	subject := d.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	msg := Message{
		From:    d.From,
		To:      d.To,
		Cc:      d.Cc,
		Subject: subject,
		Body:    s.Body(),
	}
	if err := d.Transport.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrUnreachable) {
			if d.Logger != nil {
				d.Logger.Warn("unable to reach email server", "class", s.Class, "label", s.Label, "error", err)
			}
			return false, nil
		}
		if d.Logger != nil {
			d.Logger.Error("email problems", "class", s.Class, "label", s.Label, "error", err)
		}
		return false, err
	}
	if d.Logger != nil {
		d.Logger.Info("alert sent", "class", s.Class, "label", s.Label, "distance", s.Distance)
	}
	return true, nil
}
