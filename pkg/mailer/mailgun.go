package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var ErrNoRecipient = errors.New("mailer: no recipient")

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	client  *mg.MailgunImpl
	from    string
	Timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), from: sender, Timeout: 10 * time.Second}
}

// Send delivers one message. html is optional.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return ErrNoRecipient
	}
	msg := m.client.NewMessage(m.from, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(ctx, msg)
	return err
}

var _ Sender = (*Mailgun)(nil)
