package repository

import (
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"

	"gorm.io/gorm"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create creates a new refresh token
func (r *RefreshTokenRepository) Create(refreshToken *models.RefreshToken) error {
	return r.db.Create(refreshToken).Error
}

// GetByToken retrieves an unrevoked refresh token by token string
func (r *RefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.Where("token = ? AND is_revoked = ?", token, false).First(&refreshToken).Error
	if err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

// RevokeToken revokes a specific refresh token
func (r *RefreshTokenRepository) RevokeToken(token string) error {
	return r.db.Model(&models.RefreshToken{}).Where("token = ?", token).Update("is_revoked", true).Error
}

// RevokeAllUserTokens revokes all refresh tokens for a user
func (r *RefreshTokenRepository) RevokeAllUserTokens(userID string) error {
	return r.db.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Update("is_revoked", true).Error
}

// CleanupTokens deletes expired and revoked tokens
func (r *RefreshTokenRepository) CleanupTokens() (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		deleted += result.RowsAffected

		result = tx.Where("is_revoked = ?", true).Delete(&models.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		deleted += result.RowsAffected
		return nil
	})
	return deleted, err
}
