package notify

import (
	"context"
	"encoding/json"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers emails through a plain SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *SMTPSender) message(msg *Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

// Send has no provider payload; it returns once the relay accepted the message
// or ctx is done, whichever comes first.
func (s *SMTPSender) Send(ctx context.Context, msg *Email) (json.RawMessage, error) {
	m := s.message(msg)
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.dialer.DialAndSend(m)
	}()
	select {
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
