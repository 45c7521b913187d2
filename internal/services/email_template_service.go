package services

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/sirupsen/logrus"
)

type EmailTemplateService struct {
	templateRepo EmailTemplateStore
}

func NewEmailTemplateService(templateRepo EmailTemplateStore) *EmailTemplateService {
	return &EmailTemplateService{templateRepo: templateRepo}
}

// EncodeBody converts HTML to its stored form
func EncodeBody(html string) string {
	return base64.StdEncoding.EncodeToString([]byte(html))
}

// DecodeBody converts a stored body back to HTML. Legacy raw bodies, which are either not
// base64 or do not decode to UTF-8 text, are returned as they are.
func DecodeBody(body string) string {
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		logrus.Debugf("Template body is not base64, using it as raw HTML: %v", err)
		return body
	}
	if !utf8.Valid(decoded) {
		logrus.Debug("Template body does not decode to UTF-8, using it as raw HTML")
		return body
	}
	return string(decoded)
}

// CreateTemplate validates and stores a new template
func (s *EmailTemplateService) CreateTemplate(req *models.EmailTemplateRequest) (*models.EmailTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if req.Body == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	if err := validateAttachments(req.Attachments); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(name, ""); err != nil {
		return nil, err
	}

	template := &models.EmailTemplate{
		Name:        name,
		Subject:     req.Subject,
		Body:        EncodeBody(req.Body),
		FromName:    strings.TrimSpace(req.FromName),
		FromEmail:   strings.TrimSpace(req.FromEmail),
		Attachments: req.Attachments,
	}

	if err := s.templateRepo.Create(template); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("template name %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	logrus.Infof("Created email template %s (%s)", template.ID, template.Name)
	return template, nil
}

// GetTemplate retrieves a template by ID
func (s *EmailTemplateService) GetTemplate(id string) (*models.EmailTemplate, error) {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("template %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// ListTemplates returns all templates, newest first
func (s *EmailTemplateService) ListTemplates() ([]*models.EmailTemplate, error) {
	templates, err := s.templateRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate applies a partial update
func (s *EmailTemplateService) UpdateTemplate(id string, req *models.EmailTemplateUpdateRequest) (*models.EmailTemplate, error) {
	template, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: invalid name", ErrValidation)
		}
		if err := s.ensureNameAvailable(name, id); err != nil {
			return nil, err
		}
		template.Name = name
	}
	if req.Subject != nil {
		if strings.TrimSpace(*req.Subject) == "" {
			return nil, fmt.Errorf("%w: invalid subject", ErrValidation)
		}
		template.Subject = *req.Subject
	}
	if req.Body != nil {
		if *req.Body == "" {
			return nil, fmt.Errorf("%w: invalid body", ErrValidation)
		}
		template.Body = EncodeBody(*req.Body)
	}
	if req.FromName != nil {
		template.FromName = strings.TrimSpace(*req.FromName)
	}
	if req.FromEmail != nil {
		template.FromEmail = strings.TrimSpace(*req.FromEmail)
	}
	if req.Attachments != nil {
		if err := validateAttachments(*req.Attachments); err != nil {
			return nil, err
		}
		template.Attachments = *req.Attachments
	}

	if err := s.templateRepo.Update(template); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("template name %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

// DeleteTemplate deletes a template by ID
func (s *EmailTemplateService) DeleteTemplate(id string) error {
	if err := s.templateRepo.Delete(id); err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("template %s %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// ensureNameAvailable fails with ErrDuplicate when another template already uses name (case-insensitive)
func (s *EmailTemplateService) ensureNameAvailable(name, selfID string) error {
	existing, err := s.templateRepo.FindByName(name)
	if err != nil {
		if isRecordNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to check template name: %w", err)
	}
	if existing.ID != selfID {
		return fmt.Errorf("template name %w", ErrDuplicate)
	}
	return nil
}

func validateAttachments(attachments []models.TemplateAttachment) error {
	for i, a := range attachments {
		if strings.TrimSpace(a.Filename) == "" {
			return fmt.Errorf("%w: attachment %d has no filename", ErrValidation, i)
		}
	}
	return nil
}
