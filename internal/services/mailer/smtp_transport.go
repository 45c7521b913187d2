package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"
	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// Dialer opens an authenticated SMTP session. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// SMTPTransport keeps one SMTP session open across sends and redials after a failure
type SMTPTransport struct {
	dialer    Dialer
	fromName  string
	fromEmail string

	mu     sync.Mutex
	sender gomail.SendCloser
}

// NewSMTPTransport builds the process-wide transport from configuration.
// Dry-run mode, or missing credentials, swaps the network dialer for one that only logs.
func NewSMTPTransport(cfg *config.MailConfig) *SMTPTransport {
	if cfg.DryRun || !cfg.HasCredentials() {
		logrus.Warn("SMTP dry run enabled: messages will be logged, not delivered")
		return NewSMTPTransportWithDialer(dryRunDialer{}, cfg.FromName, cfg.FromEmail)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.SSL = cfg.SSL
	logrus.Infof("SMTP transport configured for %s:%d", cfg.Host, cfg.Port)
	return NewSMTPTransportWithDialer(d, cfg.FromName, cfg.FromEmail)
}

// NewSMTPTransportWithDialer builds a transport over any Dialer
func NewSMTPTransportWithDialer(dialer Dialer, fromName, fromEmail string) *SMTPTransport {
	return &SMTPTransport{
		dialer:    dialer,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers msg to all of its addresses in one SMTP transaction
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (*SendInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(msg.To) == 0 {
		return nil, errors.New("message has no recipients")
	}

	m, messageID := t.buildMessage(msg)

	t.mu.Lock()
	defer t.mu.Unlock()

	reused := t.sender != nil
	if err := t.sendLocked(m); err != nil {
		if !reused {
			return nil, err
		}
		// Servers drop idle sessions; a kept-open one gets a single retry on a fresh dial.
		logrus.Warnf("SMTP session failed (%v), redialing", err)
		if err := t.sendLocked(m); err != nil {
			return nil, err
		}
	}

	accepted := make([]string, len(msg.To))
	copy(accepted, msg.To)
	return &SendInfo{
		MessageID: messageID,
		Accepted:  accepted,
	}, nil
}

func (t *SMTPTransport) sendLocked(m *gomail.Message) error {
	if t.sender == nil {
		sender, err := t.dialer.Dial()
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		t.sender = sender
	}

	if err := gomail.Send(t.sender, m); err != nil {
		t.closeLocked()
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close ends the SMTP session if one is open
func (t *SMTPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

func (t *SMTPTransport) closeLocked() error {
	if t.sender == nil {
		return nil
	}
	err := t.sender.Close()
	t.sender = nil
	return err
}

func (t *SMTPTransport) buildMessage(msg *Message) (*gomail.Message, string) {
	fromEmail := msg.FromEmail
	fromName := msg.FromName
	if fromEmail == "" {
		fromEmail = t.fromEmail
		if fromName == "" {
			fromName = t.fromName
		}
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), messageIDDomain(fromEmail))

	m := gomail.NewMessage()
	if fromName != "" {
		m.SetAddressHeader("From", fromEmail, fromName)
	} else {
		m.SetHeader("From", fromEmail)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		content := a.Content
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {fmt.Sprintf("%s; name=%q", a.ContentType, a.Filename)},
			}))
		}
		m.Attach(a.Filename, settings...)
	}

	return m, messageID
}

func messageIDDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 && i < len(email)-1 {
		return email[i+1:]
	}
	return "localhost"
}
