package repository

import (
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"gorm.io/gorm"
)

// CampaignLogRepository is append-only: there is no update or delete
type CampaignLogRepository struct {
	db *gorm.DB
}

func NewCampaignLogRepository(db *gorm.DB) *CampaignLogRepository {
	return &CampaignLogRepository{db: db}
}

// Create creates a new campaign log
func (r *CampaignLogRepository) Create(log *models.CampaignLog) error {
	return r.db.Create(log).Error
}

// GetByID retrieves a campaign log by ID
func (r *CampaignLogRepository) GetByID(id string) (*models.CampaignLog, error) {
	var log models.CampaignLog
	err := r.db.First(&log, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// List retrieves the most recent logs, newest first
func (r *CampaignLogRepository) List(limit int) ([]*models.CampaignLog, error) {
	var logs []*models.CampaignLog
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
