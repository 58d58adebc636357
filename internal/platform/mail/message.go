package mail

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Template names a body template under templates/.
type Template string

const (
	TemplateConfirm       Template = "confirm"
	TemplateResetPassword Template = "reset-password"
)

const (
	confirmSubject       = "Your Verification Code from UETodo App"
	resetPasswordSubject = "Reset Your Password from UETodo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message is an email waiting to be rendered and sent.
type Message struct {
	To       string
	Subject  string
	Template Template
	Data     TemplateData
}

// TemplateData is the data available to every body template.
type TemplateData struct {
	Name      string
	Code      string
	ExpiresIn string
}

// NewConfirmMessage builds the email carrying an account verification code.
func NewConfirmMessage(to, name, code string, lifetime time.Duration) Message {
	return Message{
		To:       to,
		Subject:  confirmSubject,
		Template: TemplateConfirm,
		Data:     TemplateData{Name: name, Code: code, ExpiresIn: humanize(lifetime)},
	}
}

// NewResetPasswordMessage builds the email carrying a password reset code.
func NewResetPasswordMessage(to, name, code string, lifetime time.Duration) Message {
	return Message{
		To:       to,
		Subject:  resetPasswordSubject,
		Template: TemplateResetPassword,
		Data:     TemplateData{Name: name, Code: code, ExpiresIn: humanize(lifetime)},
	}
}

// Renderer executes the embedded body templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render returns the HTML body for msg.
func (r *Renderer) Render(msg Message) (string, error) {
	var b strings.Builder
	if err := r.templates.ExecuteTemplate(&b, string(msg.Template)+".html", msg.Data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", msg.Template, err)
	}
	return b.String(), nil
}

func humanize(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d.Round(time.Minute)/time.Minute), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
