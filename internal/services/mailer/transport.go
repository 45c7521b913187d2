// Package mailer sends campaign messages over SMTP.
package mailer

import (
	"context"
)

// Attachment is an in-memory file attached to a message
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one outgoing email. All addresses in To share a single send.
type Message struct {
	FromName    string
	FromEmail   string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendInfo describes an accepted message
type SendInfo struct {
	MessageID string
	Accepted  []string
}

// Transport delivers one message at a time. Any returned error is a failed send for every address in the message.
type Transport interface {
	Send(ctx context.Context, msg *Message) (*SendInfo, error)
	Close() error
}
