package email

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"interview-prep-backend/internal/config"
	"interview-prep-backend/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*SMTPMailer)(nil)

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zerolog.Logger
}

func NewSMTPMailer(cfg *config.SMTPConfig, logger *zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
		log:    logger,
	}
}

func (m *SMTPMailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your verification code")
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	m.log.Debug().Str("to", to).Msg("OTP mail sent")
	return nil
}

var _ adapter.Mailer = (*LogMailer)(nil)

// LogMailer writes codes to the log instead of sending mail. Dev mode only.
type LogMailer struct {
	Log *zerolog.Logger
}

func (m *LogMailer) SendOTP(to, code string) error {
	m.Log.Info().Str("to", to).Str("code", code).Msg("OTP (dev mode, not sent)")
	return nil
}
