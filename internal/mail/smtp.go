package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds connection settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var _ Dispatcher = (*SMTPDispatcher)(nil)

// SMTPDispatcher delivers mail over authenticated SMTP.
type SMTPDispatcher struct {
	from   string
	client *gomail.Client
}

// NewSMTPDispatcher validates the config and prepares an SMTP client.
func NewSMTPDispatcher(cfg SMTPConfig) (*SMTPDispatcher, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mail: smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("mail: sender address is required")
	}
	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: smtp client: %w", err)
	}
	return &SMTPDispatcher{from: cfg.From, client: client}, nil
}

func (d *SMTPDispatcher) SendOTP(ctx context.Context, to, code string) error {
	return d.send(ctx, to, otpSubject, otpBody(code))
}

func (d *SMTPDispatcher) SendWelcome(ctx context.Context, to, name string) error {
	return d.send(ctx, to, welcomeSubject, welcomeBody(name))
}

func (d *SMTPDispatcher) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)
	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
