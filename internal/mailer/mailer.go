package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/civiceye/civiceye/internal/config"
)

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a plain SMTP relay. The dial carries an explicit
// timeout so a hung provider cannot hang the request that is waiting on it.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	timeout  time.Duration

	// tlsConfig overrides the client TLS configuration. Tests use it to
	// trust a self-signed relay; production leaves it nil.
	tlsConfig *tls.Config
}

// NewSMTP builds an SMTP mailer from configuration.
func NewSMTP(cfg config.Config) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		fromName: cfg.MailFromName,
		timeout:  cfg.MailTimeout,
	}
}

// Send delivers the message, honoring both the mailer timeout and ctx.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return ctx.Err()
	}

	addr := net.JoinHostPort(m.host, fmt.Sprintf("%d", m.port))

	done := make(chan error, 1)
	go func() {
		done <- m.deliver(addr, to, subject, body, timeout)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTP) deliver(addr, to, subject, body string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(m.clientTLSConfig()); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(m.message(to, subject, body))); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

// clientTLSConfig returns the configuration for the STARTTLS handshake. The
// server name must match the relay host or the handshake is rejected.
func (m *SMTP) clientTLSConfig() *tls.Config {
	if m.tlsConfig != nil {
		return m.tlsConfig
	}
	return &tls.Config{ServerName: m.host}
}

func (m *SMTP) message(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// LogMailer writes mail to the logger instead of sending it. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer stub.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("mail", "to", to, "subject", subject, "bytes", len(body))
	return nil
}
