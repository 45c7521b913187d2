package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/mailer"
	"gorm.io/gorm"
)

type fakeTemplateStore struct {
	templates map[string]*models.EmailTemplate
	getCalls  []string
}

func newFakeTemplateStore(templates ...*models.EmailTemplate) *fakeTemplateStore {
	s := &fakeTemplateStore{templates: map[string]*models.EmailTemplate{}}
	for _, t := range templates {
		s.templates[t.ID] = t
	}
	return s
}

func (s *fakeTemplateStore) Create(t *models.EmailTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.templates[t.ID] = t
	return nil
}

func (s *fakeTemplateStore) GetByID(id string) (*models.EmailTemplate, error) {
	s.getCalls = append(s.getCalls, id)
	t, ok := s.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTemplateStore) GetAll() ([]*models.EmailTemplate, error) {
	var out []*models.EmailTemplate
	for _, t := range s.templates {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTemplateStore) FindByName(name string) (*models.EmailTemplate, error) {
	for _, t := range s.templates {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTemplateStore) Update(t *models.EmailTemplate) error {
	s.templates[t.ID] = t
	return nil
}

func (s *fakeTemplateStore) Delete(id string) error {
	if _, ok := s.templates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.templates, id)
	return nil
}

type fakeRecipientStore struct {
	recipients map[string]*models.Recipient
	getCalls   []string
}

func newFakeRecipientStore(recipients ...*models.Recipient) *fakeRecipientStore {
	s := &fakeRecipientStore{recipients: map[string]*models.Recipient{}}
	for _, r := range recipients {
		s.recipients[r.ID] = r
	}
	return s
}

func (s *fakeRecipientStore) Create(r *models.Recipient) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.recipients[r.ID] = r
	return nil
}

func (s *fakeRecipientStore) GetByID(id string) (*models.Recipient, error) {
	s.getCalls = append(s.getCalls, id)
	r, ok := s.recipients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeRecipientStore) GetAll() ([]*models.Recipient, error) {
	var out []*models.Recipient
	for _, r := range s.recipients {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeRecipientStore) FindOwnerOfAny(emails []string, excludeID string) (*models.Recipient, error) {
	for _, r := range s.recipients {
		if r.ID == excludeID {
			continue
		}
		for _, owned := range r.Emails {
			for _, e := range emails {
				if owned == e {
					return r, nil
				}
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeRecipientStore) Update(r *models.Recipient) error {
	s.recipients[r.ID] = r
	return nil
}

func (s *fakeRecipientStore) Delete(id string) error {
	if _, ok := s.recipients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.recipients, id)
	return nil
}

type fakeLogStore struct {
	logs      []*models.CampaignLog
	createErr error
}

func (s *fakeLogStore) Create(log *models.CampaignLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	s.logs = append(s.logs, log)
	return nil
}

func (s *fakeLogStore) GetByID(id string) (*models.CampaignLog, error) {
	for _, l := range s.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeLogStore) List(limit int) ([]*models.CampaignLog, error) {
	var out []*models.CampaignLog
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.logs[i])
	}
	return out, nil
}

// fakeTransport records every message and fails the sends whose index is in failOn (0-based)
type fakeTransport struct {
	mu     sync.Mutex
	sent   []*mailer.Message
	failOn map[int]bool
}

func (t *fakeTransport) Send(ctx context.Context, msg *mailer.Message) (*mailer.SendInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := len(t.sent)
	t.sent = append(t.sent, msg)
	if t.failOn[idx] {
		return nil, errors.New("connection reset by peer")
	}
	return &mailer.SendInfo{MessageID: fmt.Sprintf("<msg-%d@test>", idx), Accepted: msg.To}, nil
}

func (t *fakeTransport) Close() error { return nil }

type fakePublisher struct {
	queues   []string
	messages []interface{}
	err      error
}

func (p *fakePublisher) PublishMessage(ctx context.Context, queueName string, message interface{}) error {
	p.queues = append(p.queues, queueName)
	p.messages = append(p.messages, message)
	return p.err
}
