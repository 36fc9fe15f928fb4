package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-platform/internal/config"
)

// Sender delivers transactional email. The reset flow depends on delivery
// outcome: a failed send must roll the ticket back.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// MailgunSender implements Sender on the Mailgun API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
	from   string
	logger *zap.Logger
}

// NewMailgunSender builds a sender from config. Returns an error when the
// Mailgun credentials are missing.
func NewMailgunSender(cfg config.MailConfig, logger *zap.Logger) (*MailgunSender, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("incomplete mailgun configuration")
	}
	return &MailgunSender{
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendPasswordReset emails the reset link. The link embeds the plaintext
// secret, which is never persisted server-side.
func (s *MailgunSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body := fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Open the link below within 10 minutes to choose a new password:\n\n%s\n\n"+
			"If you did not request this, ignore this email and your password will remain unchanged.\n",
		resetURL,
	)

	message := s.client.NewMessage(s.from, "Password Reset (valid for 10 min)", body, to)

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, id, err := s.client.Send(sendCtx, message)
	if err != nil {
		return err
	}
	s.logger.Debug("reset email queued", zap.String("message_id", id))
	return nil
}

// LogSender is a development fallback that only logs the reset URL.
type LogSender struct {
	Logger *zap.Logger
}

// SendPasswordReset logs instead of delivering. Development only.
func (s *LogSender) SendPasswordReset(_ context.Context, to, resetURL string) error {
	s.Logger.Info("password reset link (mail disabled)",
		zap.String("to", to),
		zap.String("url", resetURL))
	return nil
}
