package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer delivers verification links. Register fails if it returns an error
type Mailer interface {
	SendVerification(ctx context.Context, to, name, token string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From may contain a display name, e.g. "FaithConnect <noreply@faithconnect.com>"
	From string
	// PublicURL is the externally reachable base URL of the API
	PublicURL string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("no mail host provided")
	}

	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address, %w", err)
	}

	cfg.PublicURL = strings.TrimSuffix(cfg.PublicURL, "/")

	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

var verificationTmpl = template.Must(template.New("verify").Parse(
	`<h1>Welcome to FaithConnect, {{.Name}}!</h1>` +
		`<p>Please verify your email address to activate your account.</p>` +
		`<p><a href="{{.Link}}">Verify my email</a></p>` +
		`<p>If you didn't create an account you can ignore this email.</p>`,
))

// VerificationLink builds the link mailed to users
func VerificationLink(publicURL, token string) string {
	return strings.TrimSuffix(publicURL, "/") + "/api/auth/verify/" + token
}

func verificationBody(name, link string) (string, error) {
	var b strings.Builder

	err := verificationTmpl.Execute(&b, struct {
		Name string
		Link string
	}{name, link})
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

func (m *SMTPMailer) message(to, name, token string) (*gomail.Message, error) {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address, %w", err)
	}

	from, _ := mail.ParseAddress(m.cfg.From)
	if strings.EqualFold(addr.Address, from.Address) {
		return nil, errors.New("refusing to send verification mail to the sender address")
	}

	body, err := verificationBody(name, VerificationLink(m.cfg.PublicURL, token))
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", addr.Address)
	msg.SetHeader("Subject", "Verify your FaithConnect account")
	msg.SetBody("text/html", body)

	return msg, nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, token string) error {
	msg, err := m.message(to, name, token)
	if err != nil {
		return err
	}

	// gomail has no context support, at least don't dial for a request that's gone
	if err := ctx.Err(); err != nil {
		return err
	}

	return m.dialer.DialAndSend(msg)
}
