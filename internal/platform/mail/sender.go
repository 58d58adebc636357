package mail

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/uetodo/uetodo-api/internal/config"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
)

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// dialer is the part of *gomail.Dialer used for delivery.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender renders messages and sends them through an SMTP server.
type SMTPSender struct {
	dialer   dialer
	from     string
	renderer *Renderer
	logger   *slog.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) (*SMTPSender, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.From,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "smtp_sender")),
	}, nil
}

// Send implements Sender. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	body, err := s.renderer.Render(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Error("failed to send email",
			slog.String("template", string(msg.Template)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to send %s email: %w", msg.Template, err)
	}

	log.Info("email sent", slog.String("template", string(msg.Template)))
	return nil
}

// LogSender stands in for SMTP when delivery is disabled. It renders the
// message so template errors still surface, then only logs it.
type LogSender struct {
	renderer *Renderer
	logger   *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a sender that never leaves the process.
func NewLogSender(logger *slog.Logger) (*LogSender, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &LogSender{
		renderer: renderer,
		logger:   logger.With(slog.String("component", "log_sender")),
	}, nil
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if _, err := s.renderer.Render(msg); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("mail delivery disabled, email not sent",
		slog.String("template", string(msg.Template)),
		slog.String("subject", msg.Subject))
	return nil
}

// NewSender returns an SMTP sender when mail is enabled and a LogSender otherwise.
func NewSender(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	if !cfg.Enabled {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}
