// Package notify sends transactional mails to users.
package notify

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/config"
	"github.com/walleta/backend/internal/models"
)

// Notifier informs users about changes to their subscription.
type Notifier interface {
	SubscriptionActivated(user models.User) error
	SubscriptionExpired(user models.User) error
}

// New returns a Mailer if SMTP is configured and a Noop notifier otherwise.
func New(cfg config.SMTP) Notifier {
	if !cfg.Enabled() {
		log.Info().Str("component", "notify").Msg("SMTP is not configured, mails will not be sent")
		return Noop{}
	}

	return NewMailer(cfg)
}

// Noop discards all notifications.
type Noop struct{}

func (Noop) SubscriptionActivated(models.User) error { return nil }
func (Noop) SubscriptionExpired(models.User) error { return nil }

// Mailer sends notifications via SMTP.
type Mailer struct {
	cfg config.SMTP

	// Send delivers a composed mail. It defaults to SMTP with PLAIN auth.
	Send func(e *email.Email) error
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg config.SMTP) *Mailer {
	m := &Mailer{cfg: cfg}
	m.Send = m.sendSMTP
	return m
}

func (m *Mailer) SubscriptionActivated(user models.User) error {
	end := "the end of the period"
	if user.SubscriptionEnd != nil {
		end = user.SubscriptionEnd.Format(time.DateOnly)
	}

	body := fmt.Sprintf("Hi %s,\n\n", greeting(user))
	body += fmt.Sprintf("thank you for your payment. Your Walleta subscription is active until %s.\n", end)
	body += "\nBest regards,\nWalleta"

	return m.deliver(user.Email, "Your Walleta subscription is active", body)
}

func (m *Mailer) SubscriptionExpired(user models.User) error {
	body := fmt.Sprintf("Hi %s,\n\n", greeting(user))
	body += "your Walleta subscription has expired. You can renew it at any time from the app.\n"
	body += "\nBest regards,\nWalleta"

	return m.deliver(user.Email, "Your Walleta subscription has expired", body)
}

func (m *Mailer) deliver(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	err := m.Send(e)
	if err != nil {
		log.Error().Str("component", "notify").Str("to", to).Err(err).Msg("Failed to send mail")
		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Debug().Str("component", "notify").Str("to", to).Str("subject", subject).Msg("Mail sent")
	return nil
}

func (m *Mailer) sendSMTP(e *email.Email) error {
	var auth smtp.Auth
	if m.cfg.User != "" {
		host, _, err := net.SplitHostPort(m.cfg.Addr)
		if err != nil {
			return err
		}
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, host)
	}

	return e.Send(m.cfg.Addr, auth)
}

func greeting(user models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
