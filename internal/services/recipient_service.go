package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/sirupsen/logrus"
)

type RecipientService struct {
	recipientRepo RecipientStore
	validate      *validator.Validate
}

func NewRecipientService(recipientRepo RecipientStore) *RecipientService {
	return &RecipientService{
		recipientRepo: recipientRepo,
		validate:      validator.New(),
	}
}

// CreateRecipient validates, normalizes and stores a new recipient
func (s *RecipientService) CreateRecipient(req *models.RecipientRequest) (*models.Recipient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	emails, err := s.normalizeEmails(req.Emails)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailsAvailable(emails, ""); err != nil {
		return nil, err
	}

	recipient := &models.Recipient{
		Name:   name,
		Emails: emails,
	}
	if err := s.recipientRepo.Create(recipient); err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	logrus.Infof("Created recipient %s with %d address(es)", recipient.ID, len(emails))
	return recipient, nil
}

// GetRecipient retrieves a recipient by ID
func (s *RecipientService) GetRecipient(id string) (*models.Recipient, error) {
	recipient, err := s.recipientRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("recipient %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	return recipient, nil
}

// ListRecipients returns all recipients, newest first
func (s *RecipientService) ListRecipients() ([]*models.Recipient, error) {
	recipients, err := s.recipientRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

// UpdateRecipient applies a partial update
func (s *RecipientService) UpdateRecipient(id string, req *models.RecipientUpdateRequest) (*models.Recipient, error) {
	recipient, err := s.GetRecipient(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: invalid name", ErrValidation)
		}
		recipient.Name = name
	}
	if req.Emails != nil {
		emails, err := s.normalizeEmails(req.Emails)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailsAvailable(emails, id); err != nil {
			return nil, err
		}
		recipient.Emails = emails
	}

	if err := s.recipientRepo.Update(recipient); err != nil {
		return nil, fmt.Errorf("failed to update recipient: %w", err)
	}
	return recipient, nil
}

// DeleteRecipient deletes a recipient by ID
func (s *RecipientService) DeleteRecipient(id string) error {
	if err := s.recipientRepo.Delete(id); err != nil {
		if isRecordNotFound(err) {
			return fmt.Errorf("recipient %s %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete recipient: %w", err)
	}
	return nil
}

// normalizeEmails trims, lowercases, validates and de-duplicates addresses, keeping first-seen order
func (s *RecipientService) normalizeEmails(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	emails := make([]string, 0, len(raw))
	for _, e := range raw {
		email := strings.ToLower(strings.TrimSpace(e))
		if email == "" {
			continue
		}
		if err := s.validate.Var(email, "email"); err != nil {
			return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, e)
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: at least one email is required", ErrValidation)
	}
	return emails, nil
}

// ensureEmailsAvailable fails with ErrDuplicate when another recipient already owns one of emails
func (s *RecipientService) ensureEmailsAvailable(emails []string, selfID string) error {
	owner, err := s.recipientRepo.FindOwnerOfAny(emails, selfID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to check recipient emails: %w", err)
	}

	owned := make(map[string]bool, len(owner.Emails))
	for _, e := range owner.Emails {
		owned[e] = true
	}
	for _, e := range emails {
		if owned[e] {
			return fmt.Errorf("recipient with email %s %w", e, ErrDuplicate)
		}
	}
	return fmt.Errorf("recipient email %w", ErrDuplicate)
}
