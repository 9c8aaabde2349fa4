package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// SMTPMailer sends messages through an authenticated SMTP server. Port 587
// upgrades the connection with STARTTLS; port 465 uses implicit TLS.
type SMTPMailer struct {
	dial func() (gomail.SendCloser, error)
}

// NewSMTPMailer creates a mailer for host:port authenticated as username.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	if host == "" {
		host = DefaultSMTPHost
	}
	if port == 0 {
		port = DefaultSMTPPort
	}
	dialer := gomail.NewDialer(host, port, username, password)
	return &SMTPMailer{dial: dialer.Dial}
}

// Send delivers msg as a single-recipient HTML email.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.From == "" {
		return fmt.Errorf("sender address is not configured")
	}

	email := gomail.NewMessage()
	email.SetHeader("From", msg.From)
	email.SetHeader("To", msg.To)
	email.SetHeader("Subject", msg.Subject)
	email.SetBody("text/html", msg.HTMLBody)

	conn, err := m.dial()
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	if err := gomail.Send(conn, email); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
