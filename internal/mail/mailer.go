// Package mail delivers account emails over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Activation is the data rendered into the activation email.
type Activation struct {
	Name string
	Code string
}

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>Thank you for registering. Use the code below to activate your account:</p>
<h2>{{.Code}}</h2>
<p>The code expires in a few minutes. If you did not register, ignore this email.</p>
</body>
</html>`))

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}
	return nil
}

// Mailer sends email through an SMTP relay.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

// SendActivation mails the activation code to a pending registration.
func (m *Mailer) SendActivation(ctx context.Context, to string, data Activation) error {
	body, err := RenderActivation(data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Activate your account")
	msg.SetBody("text/html", body)
	msg.AddAlternative("text/plain", fmt.Sprintf("Hello %s, your activation code is %s", data.Name, data.Code))

	// gomail has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send activation mail: %w", err)
	}
	return nil
}

func RenderActivation(data Activation) (string, error) {
	var buf bytes.Buffer
	if err := activationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render activation mail: %w", err)
	}
	return buf.String(), nil
}

// LogMailer writes activation codes to the log instead of sending mail.
// It is used in development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) SendActivation(_ context.Context, to string, data Activation) error {
	slog.Info("activation mail (not sent, SMTP disabled)", "to", to, "code", data.Code)
	return nil
}
