package infra

import (
	"fmt"
	"net/smtp"

	"github.com/FernandoPintoL/distribuidora-paucara-sub029/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending notification emails.
// Sends go through a circuit breaker so a dead SMTP gateway fast-fails
// instead of stalling the worker pool.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig()),
	}
}

// SendNotificacion sends a plain-text notification email.
func (m *Mailer) SendNotificacion(to, subject, body string) error {
	return m.cb.Execute(func() error {
		e := email.NewEmail()
		e.From = m.user
		e.To = []string{to}
		e.Subject = subject
		e.Text = []byte(body)

		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		return e.Send(m.addr, auth)
	})
}
