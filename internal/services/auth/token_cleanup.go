package auth

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TokenCleaner is implemented by repository.RefreshTokenRepository
type TokenCleaner interface {
	CleanupTokens() (int64, error)
}

type TokenCleanupService struct {
	refreshTokenRepo TokenCleaner
	interval         time.Duration
	stopChan         chan bool
}

func NewTokenCleanupService(refreshTokenRepo TokenCleaner, interval time.Duration) *TokenCleanupService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &TokenCleanupService{
		refreshTokenRepo: refreshTokenRepo,
		interval:         interval,
		stopChan:         make(chan bool),
	}
}

// Start starts the token cleanup service
func (s *TokenCleanupService) Start() {
	go s.run()
	logrus.Info("Token cleanup service started")
}

// Stop stops the token cleanup service
func (s *TokenCleanupService) Stop() {
	s.stopChan <- true
	logrus.Info("Token cleanup service stopped")
}

func (s *TokenCleanupService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

// cleanup deletes expired and revoked refresh tokens
func (s *TokenCleanupService) cleanup() {
	deleted, err := s.refreshTokenRepo.CleanupTokens()
	if err != nil {
		logrus.Errorf("Failed to cleanup tokens: %v", err)
		return
	}

	logrus.Infof("Token cleanup completed, %d token(s) removed", deleted)
}
