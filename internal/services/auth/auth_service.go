package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Errors returned to clients of the auth endpoints
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrWrongPassword       = errors.New("current password is incorrect")
)

const tokenIssuer = "campaign-mailer-backend"

// UserStore is implemented by repository.UserRepository
type UserStore interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	UpdateLastLogin(userID string) error
	IncrementTokenVersion(userID string) error
}

// RefreshTokenStore is implemented by repository.RefreshTokenRepository
type RefreshTokenStore interface {
	Create(refreshToken *models.RefreshToken) error
	GetByToken(token string) (*models.RefreshToken, error)
	RevokeToken(token string) error
	RevokeAllUserTokens(userID string) error
}

type AuthService struct {
	userRepo         UserStore
	refreshTokenRepo RefreshTokenStore
	cfg              *config.AuthConfig
}

func NewAuthService(userRepo UserStore, refreshTokenRepo RefreshTokenStore, cfg *config.AuthConfig) *AuthService {
	logrus.Infof("Access token TTL: %s, refresh token TTL: %s", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// Login authenticates a user
func (s *AuthService) Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logrus.Warnf("Failed to update last login for user %s: %v", user.ID, err)
	}

	return s.generateAuthResponse(user)
}

// RefreshToken exchanges a refresh token for a new token pair. The used refresh token is revoked.
func (s *AuthService) RefreshToken(refreshTokenStr string) (*models.AuthResponse, error) {
	refreshToken, err := s.refreshTokenRepo.GetByToken(refreshTokenStr)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if refreshToken.ExpiresAt.Before(time.Now()) {
		if err := s.refreshTokenRepo.RevokeToken(refreshTokenStr); err != nil {
			logrus.Warnf("Failed to revoke expired refresh token: %v", err)
		}
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.userRepo.GetByID(refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := s.refreshTokenRepo.RevokeToken(refreshTokenStr); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.generateAuthResponse(user)
}

// Logout revokes one refresh token, or every session of the user when none is given
func (s *AuthService) Logout(refreshTokenStr string, userID string) error {
	if refreshTokenStr != "" {
		return s.refreshTokenRepo.RevokeToken(refreshTokenStr)
	}

	if err := s.userRepo.IncrementTokenVersion(userID); err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	if err := s.refreshTokenRepo.RevokeAllUserTokens(userID); err != nil {
		return fmt.Errorf("failed to revoke all refresh tokens: %w", err)
	}
	return nil
}

// ValidateToken validates and parses a JWT access token
func (s *AuthService) ValidateToken(tokenString string) (*models.TokenInfo, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.cfg.JWTSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, errors.New("token version mismatch")
	}

	return &models.TokenInfo{
		UserID:       claims.UserID,
		Username:     claims.Username,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// GetUser returns the user behind a validated token
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ChangePassword changes a user's password and invalidates their existing access tokens
func (s *AuthService) ChangePassword(userID string, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.TokenVersion++
	return s.userRepo.Update(user)
}

// CreateAdminUser seeds the configured admin account if it doesn't exist.
// Without ADMIN_PASSWORD a random password is generated and logged once.
func (s *AuthService) CreateAdminUser() error {
	existingUser, err := s.userRepo.GetByUsername(s.cfg.AdminUsername)
	if err == nil && existingUser != nil {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	password := s.cfg.AdminPassword
	if password == "" {
		password, err = randomHex(12)
		if err != nil {
			return err
		}
		logrus.Warnf("ADMIN_PASSWORD is not set, generated password for %q: %s", s.cfg.AdminUsername, password)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := &models.User{
		Username:     s.cfg.AdminUsername,
		PasswordHash: string(hashedPassword),
		DisplayName:  "Administrator",
		IsActive:     true,
		IsAdmin:      true,
	}
	if err := s.userRepo.Create(adminUser); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.Infof("Created admin user %q", adminUser.Username)
	return nil
}

func (s *AuthService) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		User:         *user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWTSecret)
}

// generateRefreshToken creates an opaque refresh token and stores it
func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	token, err := randomHex(32)
	if err != nil {
		return "", err
	}

	refreshToken := &models.RefreshToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return token, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
