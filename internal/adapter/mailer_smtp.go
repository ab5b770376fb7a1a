package adapter

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
)

const defaultMailTimeout = 10 * time.Second

// sendFunc delivers a fully rendered message to one recipient.
type sendFunc func(ctx context.Context, to string, msg []byte) error

type smtpMailer struct {
	cfg    config.Mail
	send   sendFunc
	logger *logger.Logger
}

// NewSMTPMailer constructs a [Mailer] that submits plain-text messages to
// cfg.Host:cfg.Port, upgrading to TLS via STARTTLS when offered and
// authenticating with PLAIN when a username is configured.
func NewSMTPMailer(cfg config.Mail, logger *logger.Logger) Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultMailTimeout
	}

	m := &smtpMailer{cfg: cfg, logger: logger}
	m.send = m.sendSMTP
	return m
}

// Send implements [Mailer].
func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContext(ctx)

	msg := buildMessage(m.cfg.From, to, subject, body)

	if err := m.send(ctx, to, msg); err != nil {
		log.Error().
			Str("func", "smtpMailer.Send").
			Str("to", to).
			Err(err).
			Msg("smtp delivery failed")
		return fmt.Errorf("%w: %w", ErrMailFailed, err)
	}

	log.Debug().Str("func", "smtpMailer.Send").Str("to", to).Msg("mail sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(strings.Join([]string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Date: %s", time.Now().UTC().Format(time.RFC1123Z)),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n"))
}

func (m *smtpMailer) sendSMTP(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	dialer := net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(m.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err = c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err = c.Auth(auth); err != nil {
			return err
		}
	}

	if err = c.Mail(m.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
