package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

const waTemplate = "Hola, soy {{.Name}}.\nEmail: {{.Email}}\n\nTe escribo por {{.Message}}"

func TestRedirectURL(t *testing.T) {
	c, err := NewComposer("+593 93 913 3960", waTemplate)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.RedirectURL(Message{Name: "Ana Pérez", Email: "ana@example.com", Message: "un proyecto & más"})
	if err != nil {
		t.Fatal(err)
	}

	prefix := "https://wa.me/593939133960?text="
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("url = %s", got)
	}
	q := strings.TrimPrefix(got, prefix)
	for _, bad := range []string{" ", "+", "\n", "&"} {
		if strings.Contains(q, bad) {
			t.Errorf("query %q contains unencoded %q", q, bad)
		}
	}
	if !strings.HasPrefix(q, "Hola%2C%20soy%20Ana%20P%C3%A9rez.%0AEmail%3A%20ana%40example.com%0A%0ATe%20escribo") {
		t.Errorf("unexpected encoding: %s", q)
	}
}

func TestNewComposerRejectsBadInput(t *testing.T) {
	if _, err := NewComposer("n/a", waTemplate); err == nil {
		t.Error("expected error for phone without digits")
	}
	if _, err := NewComposer("123", "{{.Name"); err == nil {
		t.Error("expected template parse error")
	}
	c, err := NewComposer("123", "{{.Phone}}")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Text(Message{}); err == nil {
		t.Error("expected execution error for unknown field")
	}
}

func TestTrimmed(t *testing.T) {
	m := Message{Name: "  Ana ", Email: "a@b.co\n", Message: "\thola "}.Trimmed()
	if m.Name != "Ana" || m.Email != "a@b.co" || m.Message != "hola" {
		t.Errorf("Trimmed = %+v", m)
	}
}

func TestSMTPNotifier(t *testing.T) {
	if _, err := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.com"}, slog.Default()); err == nil {
		t.Fatal("expected error without credentials")
	}

	cfg := SMTPConfig{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "secret", To: "owner@example.com"}
	n, err := NewSMTPNotifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}

	var gotAddr string
	var gotMsg []byte
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotMsg = addr, msg
		if from != cfg.User || len(to) != 1 || to[0] != cfg.To {
			t.Errorf("from=%s to=%v", from, to)
		}
		return nil
	}

	sub := Submission{ID: "abc", Message: Message{Name: "Eve\r\nBcc: x@evil.test", Email: "eve@example.com", Message: "hi"}, CreatedAt: time.Now()}
	if err := n.Notify(context.Background(), sub); err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %s", gotAddr)
	}
	headers := strings.SplitN(string(gotMsg), "\r\n\r\n", 2)[0]
	if strings.Contains(headers, "\r\nBcc:") {
		t.Errorf("header injection in:\n%s", headers)
	}
	if !strings.Contains(headers, "Reply-To: eve@example.com") {
		t.Errorf("missing Reply-To in:\n%s", headers)
	}

	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("boom") }
	if err := n.Notify(context.Background(), sub); err == nil {
		t.Error("expected send error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Notify(ctx, sub); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
