package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
)

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Pass != ""
}

// SMTPNotifier emails every submission to the site owner.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier returns a notifier for cfg.
func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if !cfg.Configured() {
		return nil, errors.New("contact: SMTP credentials not configured")
	}
	return &SMTPNotifier{cfg: cfg, logger: logger, send: smtp.SendMail}, nil
}

// Notify sends the submission. net/smtp has no context support, so ctx is
// only checked before dialing.
func (n *SMTPNotifier) Notify(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := composeMail(n.cfg.User, n.cfg.To, s)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.User, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("contact: send mail: %w", err)
	}
	n.logger.Info("contact email sent", "id", s.ID)
	return nil
}

func composeMail(from, to string, s Submission) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", oneLine(s.Message.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Message.Name, s.Message.Email, s.Message.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + oneLine(s.Message.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// oneLine keeps user input from injecting extra mail headers.
func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\r' || r == '\n' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
