package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// LogTransport writes messages to the logger instead of sending them.
// It is the default in development.
type LogTransport struct {
	logger zerolog.Logger
}

// NewLogTransport constructs a logging transport.
func NewLogTransport(logger zerolog.Logger) *LogTransport {
	return &LogTransport{logger: logger.With().Str("component", "mail_log_transport").Logger()}
}

// Send logs the envelope and body size.
func (t *LogTransport) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Int("html_bytes", len(html)).
		Msg("email delivery simulated")
	return nil
}
