package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
)

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	FromAddress   string
	FromName      string
	SkipTLSVerify bool
	Timeout       time.Duration
}

// SMTPTransport delivers HTML mail through an SMTP relay using STARTTLS.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport validates the configuration and returns a transport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" || cfg.FromAddress == "" {
		return nil, fmt.Errorf("smtp not configured: host and from address are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPTransport{cfg: cfg}, nil
}

// Send dials the relay for each message. The context bounds the whole exchange.
func (t *SMTPTransport) Send(ctx context.Context, to, subject, html string) error {
	m := mail.NewMessage()
	m.SetAddressHeader("From", t.cfg.FromAddress, t.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(t.cfg.Host, t.cfg.Port, t.cfg.Username, t.cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         t.cfg.Host,
		InsecureSkipVerify: t.cfg.SkipTLSVerify,
	}
	d.Timeout = t.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < d.Timeout {
			d.Timeout = remaining
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}
