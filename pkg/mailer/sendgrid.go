package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridTransport delivers mail through the SendGrid v3 API.
type SendGridTransport struct {
	key  string
	from *sgmail.Email
}

// NewSendGridTransport builds a transport for the given API key and sender.
func NewSendGridTransport(key, fromName, fromAddress string) (*SendGridTransport, error) {
	if key == "" || fromAddress == "" {
		return nil, fmt.Errorf("sendgrid not configured: api key and from address are required")
	}
	return &SendGridTransport{key: key, from: sgmail.NewEmail(fromName, fromAddress)}, nil
}

// Send posts a single HTML message. A 4xx/5xx answer is reported as an error.
func (t *SendGridTransport) Send(ctx context.Context, to, subject, html string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))

	m := sgmail.NewV3Mail()
	m.SetFrom(t.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", html))

	req := sendgrid.GetRequest(t.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	type result struct {
		status int
		body   string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		res, err := sendgrid.API(req)
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{status: res.StatusCode, body: res.Body}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("sendgrid send: %w", r.err)
		}
		if r.status >= http.StatusBadRequest {
			return fmt.Errorf("sendgrid send: status %d: %s", r.status, r.body)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sendgrid send: %w", ctx.Err())
	}
}
