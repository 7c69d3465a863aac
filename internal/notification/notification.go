package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civiceye/civiceye/internal/mailer"
)

const (
	// KindNewComplaint indicates a freshly registered complaint.
	KindNewComplaint = "new_complaint"

	dispatchTimeout = 15 * time.Second
)

// Message describes a notification payload.
type Message struct {
	Kind    string
	Subject string
	Body    string
}

// Notifier delivers notifications to downstream recipients.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// NewComplaint builds the notification for a registered complaint.
func NewComplaint(id int64, title, city, address, priority string) Message {
	return Message{
		Kind:    KindNewComplaint,
		Subject: fmt.Sprintf("New complaint #%d registered", id),
		Body: fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
  <h2>New complaint registered</h2>
  <p><strong>Title:</strong> %s</p>
  <p><strong>Location:</strong> %s</p>
  <p><strong>Address:</strong> %s</p>
  <p><strong>Priority:</strong> %s</p>
</div>`, title, city, address, priority),
	}
}

// MailNotifier delivers notifications to a fixed recipient by email.
type MailNotifier struct {
	mail mailer.Mailer
	to   string
}

// NewMailNotifier constructs a mail-backed notifier.
func NewMailNotifier(mail mailer.Mailer, to string) *MailNotifier {
	return &MailNotifier{mail: mail, to: to}
}

// Send delivers the message to the configured recipient.
func (n *MailNotifier) Send(ctx context.Context, message Message) error {
	return n.mail.Send(ctx, n.to, message.Subject, message.Body)
}

// LoggerNotifier writes notifications to the logger. Used when no recipient
// is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "subject", message.Subject)
	return nil
}

// Dispatch delivers the message on a detached goroutine. The request path
// never waits on it; failures are logged and never retried.
func Dispatch(logger *slog.Logger, notifier Notifier, message Message) {
	if notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := notifier.Send(ctx, message); err != nil && logger != nil {
			logger.Warn("notification failed", "kind", message.Kind, "error", err)
		}
	}()
}
