package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/phrazzld/taskhub-api/internal/config"
)

// Mailer sends a single notification email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewMailer builds a Mailer from the mail configuration. A missing API key
// or from-address means mail is not configured; jobs then skip the send step
// silently instead of failing.
func NewMailer(cfg config.MailConfig, log *slog.Logger) Mailer {
	if log == nil {
		log = slog.Default()
	}

	if cfg.SendGridAPIKey == "" || cfg.FromAddress == "" {
		log.Info("outbound mail not configured, email delivery disabled")
		return &NoopMailer{logger: log}
	}

	return &SendGridMailer{
		apiKey:   cfg.SendGridAPIKey,
		fromName: cfg.FromName,
		fromAddr: cfg.FromAddress,
		logger:   log.With(slog.String("component", "mailer")),
	}
}

// SendGridMailer delivers mail through the SendGrid API.
type SendGridMailer struct {
	apiKey   string
	fromName string
	fromAddr string
	logger   *slog.Logger
}

// Ensure SendGridMailer implements Mailer.
var _ Mailer = (*SendGridMailer)(nil)

// Send implements Mailer. Any non-2xx response is an error so the enclosing
// job fails and the queue's retry policy applies.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, "<p>"+body+"</p>")

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	m.logger.Debug("email sent", "status", resp.StatusCode)
	return nil
}

// NoopMailer is used when mail is not configured. Sends succeed without
// doing anything.
type NoopMailer struct {
	logger *slog.Logger
}

// Ensure NoopMailer implements Mailer.
var _ Mailer = (*NoopMailer)(nil)

// Send implements Mailer as a silent skip.
func (m *NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Debug("mail disabled, skipping send", "to", to, "subject", subject)
	return nil
}
