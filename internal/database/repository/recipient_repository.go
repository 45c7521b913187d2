package repository

import (
	"github.com/lib/pq"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"gorm.io/gorm"
)

type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

// Create creates a new recipient
func (r *RecipientRepository) Create(recipient *models.Recipient) error {
	return r.db.Create(recipient).Error
}

// GetByID retrieves a recipient by ID
func (r *RecipientRepository) GetByID(id string) (*models.Recipient, error) {
	var recipient models.Recipient
	err := r.db.First(&recipient, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &recipient, nil
}

// GetAll retrieves every recipient, newest first
func (r *RecipientRepository) GetAll() ([]*models.Recipient, error) {
	var recipients []*models.Recipient
	err := r.db.Order("created_at DESC").Find(&recipients).Error
	return recipients, err
}

// FindOwnerOfAny returns a recipient, other than excludeID, that already owns one of the given addresses
func (r *RecipientRepository) FindOwnerOfAny(emails []string, excludeID string) (*models.Recipient, error) {
	var recipient models.Recipient
	query := r.db.Where("emails && ?", pq.Array(emails))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&recipient).Error
	if err != nil {
		return nil, err
	}
	return &recipient, nil
}

// Update updates a recipient
func (r *RecipientRepository) Update(recipient *models.Recipient) error {
	return r.db.Save(recipient).Error
}

// Delete deletes a recipient by ID
func (r *RecipientRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Recipient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
