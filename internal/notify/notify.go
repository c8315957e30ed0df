// Package notify sends the end-of-run status email. Sending is
// fire-and-forget: callers log the returned error and move on, a failed
// notification never fails the run.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"

	"github.com/fvhmifvreed/thingsboard-deployment/internal/config"
)

const (
	subject = "ThingsBoard Installation Status"

	// keyringService is the OS keyring entry consulted when no SMTP
	// password is configured; the account is the SMTP username.
	keyringService = "tb-installer"
)

type Mailer struct {
	log  zerolog.Logger
	smtp config.SMTP
	to   string
}

func NewMailer(log zerolog.Logger, smtpCfg config.SMTP, to string) *Mailer {
	return &Mailer{log: log, smtp: smtpCfg, to: to}
}

// Notify sends a plain-text status message for the run.
func (m *Mailer) Notify(success bool) error {
	addr := fmt.Sprintf("%s:%d", m.smtp.Host, m.smtp.Port)
	msg := BuildMessage(m.smtp.From, m.to, success)

	var auth smtp.Auth
	if password := m.password(); m.smtp.Username != "" && password != "" {
		auth = smtp.PlainAuth("", m.smtp.Username, password, m.smtp.Host)
	}

	if err := smtp.SendMail(addr, auth, m.smtp.From, []string{m.to}, msg); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	m.log.Info().Str("to", m.to).Msg("Notification email sent")
	return nil
}

func (m *Mailer) password() string {
	if m.smtp.Password != "" {
		return m.smtp.Password
	}
	if m.smtp.Username == "" {
		return ""
	}
	secret, err := keyring.Get(keyringService, m.smtp.Username)
	if err != nil {
		m.log.Debug().Err(err).Msg("no SMTP password in keyring")
		return ""
	}
	return secret
}

// BuildMessage composes the full RFC 822 message.
func BuildMessage(from, to string, success bool) []byte {
	status := "SUCCESS"
	if !success {
		status = "FAILURE"
	}
	body := fmt.Sprintf("The ThingsBoard installation completed with status: %s", status)
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, to, subject, body))
}
