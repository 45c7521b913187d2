package mailer

import (
	"bytes"
	"io"

	"github.com/go-gomail/gomail"
	"github.com/sirupsen/logrus"
)

type dryRunDialer struct{}

func (dryRunDialer) Dial() (gomail.SendCloser, error) {
	return &dryRunSender{}, nil
}

// dryRunSender accepts every message and writes it to the log instead of the network
type dryRunSender struct{}

func (s *dryRunSender) Send(from string, to []string, msg io.WriterTo) error {
	entry := logrus.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	})
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		entry.Debugf("Dry run message:\n%s", buf.String())
		return nil
	}
	entry.Info("Dry run: message accepted without delivery")
	return nil
}

func (s *dryRunSender) Close() error {
	return nil
}
