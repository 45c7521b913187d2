package repository

import (
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"gorm.io/gorm"
)

type EmailTemplateRepository struct {
	db *gorm.DB
}

func NewEmailTemplateRepository(db *gorm.DB) *EmailTemplateRepository {
	return &EmailTemplateRepository{db: db}
}

// Create creates a new template
func (r *EmailTemplateRepository) Create(template *models.EmailTemplate) error {
	return r.db.Create(template).Error
}

// GetByID retrieves a template by ID
func (r *EmailTemplateRepository) GetByID(id string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	err := r.db.First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetAll retrieves every template, newest first
func (r *EmailTemplateRepository) GetAll() ([]*models.EmailTemplate, error) {
	var templates []*models.EmailTemplate
	err := r.db.Order("created_at DESC").Find(&templates).Error
	return templates, err
}

// FindByName looks up a template by exact name, ignoring case
func (r *EmailTemplateRepository) FindByName(name string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Update updates a template
func (r *EmailTemplateRepository) Update(template *models.EmailTemplate) error {
	return r.db.Save(template).Error
}

// Delete deletes a template by ID
func (r *EmailTemplateRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.EmailTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
