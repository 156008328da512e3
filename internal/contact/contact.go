// Package contact turns contact-form submissions into a prefilled WhatsApp
// conversation and, when SMTP is configured, an email to the site owner.
package contact

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"
)

// Message is a contact-form submission. The form tags drive gin's binding
// and validation.
type Message struct {
	Name    string `form:"name" json:"name" binding:"required,max=120"`
	Email   string `form:"email" json:"email" binding:"required,email,max=254"`
	Message string `form:"message" json:"message" binding:"required,max=4000"`
}

// Trimmed returns m with surrounding whitespace removed from every field.
func (m Message) Trimmed() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

// Submission is a stored message.
type Submission struct {
	ID        string    `json:"id"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier delivers a submission to the site owner.
type Notifier interface {
	Notify(ctx context.Context, s Submission) error
}

// Discard is a Notifier that drops every submission.
type Discard struct{}

func (Discard) Notify(context.Context, Submission) error { return nil }

// Composer renders the prefilled WhatsApp message and redirect URL.
type Composer struct {
	phone string
	tmpl  *template.Template
}

// NewComposer parses the message template. phone may contain formatting;
// only its digits are used.
func NewComposer(phone, messageTemplate string) (*Composer, error) {
	digits := Digits(phone)
	if digits == "" {
		return nil, fmt.Errorf("contact: phone %q has no digits", phone)
	}
	tmpl, err := template.New("whatsapp").Option("missingkey=error").Parse(messageTemplate)
	if err != nil {
		return nil, fmt.Errorf("contact: parse message template: %w", err)
	}
	return &Composer{phone: digits, tmpl: tmpl}, nil
}

// Text renders the chat message for m.
func (c *Composer) Text(m Message) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("contact: render message: %w", err)
	}
	return buf.String(), nil
}

// RedirectURL returns the wa.me link opening a chat with the owner,
// prefilled with the rendered message.
func (c *Composer) RedirectURL(m Message) (string, error) {
	text, err := c.Text(m)
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + c.phone + "?text=" + EncodeComponent(text), nil
}

// EncodeComponent percent-encodes s for use inside a query value, encoding
// spaces as %20 rather than '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
