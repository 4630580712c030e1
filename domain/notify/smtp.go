package notify

import (
	"context"
	"errors"
	"net"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 15 * time.Second

// SMTPOptions describe the outgoing mail server.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPTransport sends alerts with go-mail. STARTTLS is used when offered.
type SMTPTransport struct {
	opts SMTPOptions
}

// NewSMTPTransport validates opts and returns a transport. No connection is
// made until Send.
func NewSMTPTransport(opts SMTPOptions) (*SMTPTransport, error) {
	if opts.Host == "" {
		return nil, errors.New("notify: smtp host is required")
	}
	if opts.Port <= 0 {
		opts.Port = mail.DefaultPortTLS
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSMTPTimeout
	}
	return &SMTPTransport{opts: opts}, nil
}

func (t *SMTPTransport) clientOptions() []mail.Option {
	o := []mail.Option{
		mail.WithPort(t.opts.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(t.opts.Timeout),
	}
	if t.opts.Username != "" {
		o = append(o,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.opts.Username),
			mail.WithPassword(t.opts.Password),
		)
	}
	return o
}

// Send composes m and delivers it in a single session.
func (t *SMTPTransport) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}
	c, err := mail.NewClient(t.opts.Host, t.clientOptions()...)
	if err != nil {
		return pkgerrors.Wrap(err, "create smtp client")
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return classify(err)
	}
	return nil
}

func buildMsg(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, pkgerrors.Wrapf(err, "from address %q", m.From)
	}
	if len(m.To) == 0 {
		return nil, errors.New("notify: no recipients")
	}
	if err := msg.To(m.To...); err != nil {
		return nil, pkgerrors.Wrap(err, "to addresses")
	}
	if len(m.Cc) > 0 {
		if err := msg.Cc(m.Cc...); err != nil {
			return nil, pkgerrors.Wrap(err, "cc addresses")
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

// classify marks network level failures as ErrUnreachable.
func classify(err error) error {
	var dnsErr *net.DNSError
	var opErr *net.OpError
	var netErr net.Error
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return pkgerrors.Wrap(errors.Join(ErrUnreachable, err), "send mail")
	}
	return pkgerrors.Wrap(err, "send mail")
}
