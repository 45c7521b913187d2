package utils

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/sirupsen/logrus"
)

// InitSentry initializes Sentry for error tracking. Without SENTRY_DSN error reporting stays disabled.
func InitSentry() bool {
	dsn := config.GetEnv("SENTRY_DSN", "")
	if dsn == "" {
		logrus.Info("SENTRY_DSN is not set, error reporting disabled")
		return false
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      config.GetEnv("APP_ENV", "development"),
		EnableTracing:    true,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %v", err)
		return false
	}

	logrus.Info("Sentry initialized")
	return true
}

// FlushSentry waits for buffered events before the process exits
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
