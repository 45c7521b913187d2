package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByUsername(username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) Update(user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(userID string) error {
	now := time.Now()
	s.users[userID].LastLoginAt = &now
	return nil
}

func (s *fakeUserStore) IncrementTokenVersion(userID string) error {
	s.users[userID].TokenVersion++
	return nil
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func (s *fakeTokenStore) Create(t *models.RefreshToken) error {
	s.tokens[t.Token] = t
	return nil
}

func (s *fakeTokenStore) GetByToken(token string) (*models.RefreshToken, error) {
	if t, ok := s.tokens[token]; ok && !t.IsRevoked {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTokenStore) RevokeToken(token string) error {
	if t, ok := s.tokens[token]; ok {
		t.IsRevoked = true
	}
	return nil
}

func (s *fakeTokenStore) RevokeAllUserTokens(userID string) error {
	for _, t := range s.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
		}
	}
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := &fakeUserStore{users: map[string]*models.User{}}
	tokens := &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
	cfg := &config.AuthConfig{
		JWTSecret:       []byte("test-secret"),
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		AdminUsername:   "admin",
		AdminPassword:   "s3cret!",
	}
	s := NewAuthService(users, tokens, cfg)
	if err := s.CreateAdminUser(); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return s, users, tokens
}

func TestLoginAndValidateToken(t *testing.T) {
	s, _, _ := newTestAuthService(t)

	resp, err := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 60 || resp.RefreshToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.User.IsAdmin || resp.User.LastLoginAt == nil {
		t.Errorf("expected the admin user with a last login time")
	}

	info, err := s.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("token should validate: %v", err)
	}
	if info.Username != "admin" || info.UserID != resp.User.ID {
		t.Fatalf("unexpected token info %+v", info)
	}

	if _, err := s.Login(&models.LoginRequest{Username: "admin", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(&models.LoginRequest{Username: "ghost", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	s, _, _ := newTestAuthService(t)
	resp, _ := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})

	other := NewAuthService(&fakeUserStore{users: map[string]*models.User{}}, &fakeTokenStore{tokens: map[string]*models.RefreshToken{}},
		&config.AuthConfig{JWTSecret: []byte("other"), AccessTokenTTL: time.Minute})
	if _, err := other.ValidateToken(resp.AccessToken); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	s, _, _ := newTestAuthService(t)
	resp, _ := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})

	next, err := s.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if next.RefreshToken == resp.RefreshToken {
		t.Fatal("refresh token should rotate")
	}
	if _, err := s.RefreshToken(resp.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("used refresh token must be rejected, got %v", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	s, _, tokens := newTestAuthService(t)
	resp, _ := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})
	tokens.tokens[resp.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := s.RefreshToken(resp.RefreshToken); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Fatalf("expected ErrRefreshTokenExpired, got %v", err)
	}
	if !tokens.tokens[resp.RefreshToken].IsRevoked {
		t.Error("expired token should be revoked")
	}
}

func TestLogoutEverywhereInvalidatesAccessTokens(t *testing.T) {
	s, _, _ := newTestAuthService(t)
	resp, _ := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})

	if err := s.Logout("", resp.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := s.ValidateToken(resp.AccessToken); err == nil {
		t.Fatal("access token must be rejected after logout-all")
	}
	if _, err := s.RefreshToken(resp.RefreshToken); err == nil {
		t.Fatal("refresh token must be revoked after logout-all")
	}
}

func TestChangePassword(t *testing.T) {
	s, users, _ := newTestAuthService(t)
	resp, _ := s.Login(&models.LoginRequest{Username: "admin", Password: "s3cret!"})

	if err := s.ChangePassword(resp.User.ID, "nope", "newpass1"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := s.ChangePassword(resp.User.ID, "s3cret!", "newpass1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users.users[resp.User.ID].PasswordHash), []byte("newpass1")); err != nil {
		t.Fatal("password hash was not updated")
	}
	if _, err := s.ValidateToken(resp.AccessToken); err == nil {
		t.Fatal("old access token must be rejected after a password change")
	}
}

func TestCreateAdminUserIsIdempotent(t *testing.T) {
	s, users, _ := newTestAuthService(t)
	if err := s.CreateAdminUser(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected exactly one admin, got %d users", len(users.users))
	}
}

type countingCleaner struct{ calls int }

func (c *countingCleaner) CleanupTokens() (int64, error) {
	c.calls++
	return 3, nil
}

func TestTokenCleanupRunsImmediately(t *testing.T) {
	cleaner := &countingCleaner{}
	s := NewTokenCleanupService(cleaner, time.Hour)
	s.cleanup()
	if cleaner.calls != 1 {
		t.Fatalf("expected one cleanup call, got %d", cleaner.calls)
	}
}
