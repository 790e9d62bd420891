// Package mail is the outbound notification sink. Delivery is best-effort:
// callers log failures and never surface them to the request that triggered
// the mail.
package mail

import (
	"io"

	"gopkg.in/gomail.v2"

	"github.com/mintickets/helpdesk/internal/config"
)

// Part is a named binary payload, either inlined into the HTML body or
// attached as a file.
type Part struct {
	Name     string
	MimeType string
	Content  []byte
}

// Message is a composed notification.
type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Inline      []Part
	Attachments []Part
}

// Sender delivers composed messages.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers messages over SMTP using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.FromAddress,
	}
}

// Send assembles the MIME message and delivers it in one dial.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, part := range msg.Inline {
		m.Embed(part.Name, copyFunc(part), contentType(part))
	}
	for _, part := range msg.Attachments {
		m.Attach(part.Name, copyFunc(part), contentType(part))
	}

	return s.dialer.DialAndSend(m)
}

func copyFunc(part Part) gomail.FileSetting {
	content := part.Content
	return gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

func contentType(part Part) gomail.FileSetting {
	return gomail.SetHeader(map[string][]string{"Content-Type": {part.MimeType}})
}
