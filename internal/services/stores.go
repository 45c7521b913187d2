package services

import (
	"errors"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"gorm.io/gorm"
)

// EmailTemplateStore persists templates. Implemented by repository.EmailTemplateRepository.
type EmailTemplateStore interface {
	Create(template *models.EmailTemplate) error
	GetByID(id string) (*models.EmailTemplate, error)
	GetAll() ([]*models.EmailTemplate, error)
	FindByName(name string) (*models.EmailTemplate, error)
	Update(template *models.EmailTemplate) error
	Delete(id string) error
}

// RecipientStore persists recipients. Implemented by repository.RecipientRepository.
type RecipientStore interface {
	Create(recipient *models.Recipient) error
	GetByID(id string) (*models.Recipient, error)
	GetAll() ([]*models.Recipient, error)
	FindOwnerOfAny(emails []string, excludeID string) (*models.Recipient, error)
	Update(recipient *models.Recipient) error
	Delete(id string) error
}

// CampaignLogStore is the append-only log table. Implemented by repository.CampaignLogRepository.
type CampaignLogStore interface {
	Create(log *models.CampaignLog) error
	GetByID(id string) (*models.CampaignLog, error)
	List(limit int) ([]*models.CampaignLog, error)
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKey reports a unique index violation (requires gorm's TranslateError)
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
