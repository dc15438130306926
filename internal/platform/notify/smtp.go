package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the settings of the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
	Timeout  time.Duration
}

// SMTPNotifier sends activation messages as plain-text emails.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier validates cfg and returns an SMTPNotifier.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("SMTP from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPNotifier{cfg: cfg}, nil
}

// SendActivationCode sends the activation message to to.
func (n *SMTPNotifier) SendActivationCode(ctx context.Context, to, code string) error {
	msg, err := n.buildMessage(ActivationMessage(to, code))
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.cfg.Host, n.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if n.cfg.FromName != "" {
		if err := msg.FromFormat(n.cfg.FromName, n.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(n.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

func (n *SMTPNotifier) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
	}
	if n.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(n.cfg.Timeout))
	}

	// Implicit TLS on 465, STARTTLS otherwise
	if n.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if n.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if n.cfg.Username != "" && n.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	return opts
}
