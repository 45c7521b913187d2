package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Limits applied to log listing
const (
	DefaultLogListLimit = 50
	MaxLogListLimit     = 1000
)

type CampaignLogService struct {
	logRepo  CampaignLogStore
	sseHub   *SSEHub
	rabbitMQ *RabbitMQService
	now      func() time.Time
	stopChan chan bool
}

func NewCampaignLogService(logRepo CampaignLogStore, sseHub *SSEHub, rabbitMQ *RabbitMQService) *CampaignLogService {
	return &CampaignLogService{
		logRepo:  logRepo,
		sseHub:   sseHub,
		rabbitMQ: rabbitMQ,
		now:      time.Now,
		stopChan: make(chan bool),
	}
}

// Record persists a fully built log. RecipientCount always mirrors Recipients and negative counts are clamped to zero.
func (s *CampaignLogService) Record(log *models.CampaignLog) (*models.CampaignLog, error) {
	log.RecipientCount = len(log.Recipients)
	if log.SuccessCount < 0 {
		log.SuccessCount = 0
	}
	if log.FailedCount < 0 {
		log.FailedCount = 0
	}
	if log.StartedAt.IsZero() {
		log.StartedAt = s.now()
	}

	if err := s.logRepo.Create(log); err != nil {
		return nil, fmt.Errorf("failed to create campaign log: %w", err)
	}

	if s.sseHub != nil {
		s.sseHub.BroadcastLog(log)
	}
	return log, nil
}

// CreateLog ingests a partially specified log, filling in defaults before recording it
func (s *CampaignLogService) CreateLog(req *models.CampaignLogRequest) (*models.CampaignLog, error) {
	log, err := s.buildLog(req)
	if err != nil {
		return nil, err
	}
	return s.Record(log)
}

func (s *CampaignLogService) buildLog(req *models.CampaignLogRequest) (*models.CampaignLog, error) {
	templateName := strings.TrimSpace(req.TemplateName)
	if templateName == "" {
		return nil, fmt.Errorf("%w: templateName is required", ErrValidation)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if len(req.Recipients) == 0 {
		return nil, fmt.Errorf("%w: recipients must be a non-empty array", ErrValidation)
	}

	recipients := make([]models.LogRecipient, len(req.Recipients))
	for i, r := range req.Recipients {
		email := strings.TrimSpace(r.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: recipients[%d].email is required", ErrValidation, i)
		}
		recipients[i] = models.LogRecipient{Name: strings.TrimSpace(r.Name), Email: email}
	}

	perRecipient := make([]models.RecipientStatus, len(req.PerRecipient))
	for i, p := range req.PerRecipient {
		switch p.Status {
		case "":
			p.Status = models.RecipientStatusQueued
		case models.RecipientStatusQueued, models.RecipientStatusSent, models.RecipientStatusFailed:
		default:
			return nil, fmt.Errorf("%w: perRecipient[%d].status %q is not one of queued, sent, failed", ErrValidation, i, p.Status)
		}
		perRecipient[i] = p
	}

	derivedSent, derivedFailed := countStatuses(perRecipient)
	successCount := derivedSent
	if req.SuccessCount != nil {
		successCount = *req.SuccessCount
	}
	failedCount := derivedFailed
	if req.FailedCount != nil {
		failedCount = *req.FailedCount
	}
	if successCount < 0 || failedCount < 0 {
		return nil, fmt.Errorf("%w: counts cannot be negative", ErrValidation)
	}
	if successCount+failedCount > len(recipients) {
		return nil, fmt.Errorf("%w: successCount + failedCount exceeds recipientCount", ErrValidation)
	}
	if req.RecipientCount != nil && *req.RecipientCount != len(recipients) {
		logrus.Debugf("Ignoring recipientCount %d, log has %d recipients", *req.RecipientCount, len(recipients))
	}

	now := s.now()
	startedAt := now
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}
	completedAt := now
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	if completedAt.Before(startedAt) {
		return nil, fmt.Errorf("%w: completedAt is before startedAt", ErrValidation)
	}
	durationMs := completedAt.Sub(startedAt).Milliseconds()
	if req.DurationMs != nil && *req.DurationMs != durationMs {
		logrus.Debugf("Ignoring durationMs %d, timestamps give %d", *req.DurationMs, durationMs)
	}

	var meta datatypes.JSONMap
	if req.Meta != nil {
		meta = datatypes.JSONMap(req.Meta)
	}

	return &models.CampaignLog{
		TemplateName: templateName,
		Subject:      req.Subject,
		BodyPreview:  Preview(req.BodyPreview, BodyPreviewLength),
		Recipients:   recipients,
		PerRecipient: perRecipient,
		SuccessCount: successCount,
		FailedCount:  failedCount,
		StartedAt:    startedAt,
		CompletedAt:  &completedAt,
		DurationMs:   &durationMs,
		Meta:         meta,
	}, nil
}

// GetLog retrieves a campaign log by ID
func (s *CampaignLogService) GetLog(id string) (*models.CampaignLog, error) {
	log, err := s.logRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("campaign log %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get campaign log: %w", err)
	}
	return log, nil
}

// ListLogs returns the newest logs. A non-positive limit means the default.
func (s *CampaignLogService) ListLogs(limit int) ([]*models.CampaignLog, error) {
	if limit <= 0 {
		limit = DefaultLogListLimit
	}
	if limit > MaxLogListLimit {
		limit = MaxLogListLimit
	}

	logs, err := s.logRepo.List(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign logs: %w", err)
	}
	return logs, nil
}

// StartRabbitMQConsumer starts consuming logs published by other send paths
func (s *CampaignLogService) StartRabbitMQConsumer() error {
	if s.rabbitMQ == nil {
		return fmt.Errorf("rabbitmq is not configured")
	}

	msgs, err := s.rabbitMQ.Consume(config.CampaignLogsQueue)
	if err != nil {
		return err
	}

	logrus.Infof("RabbitMQ consumer started for %s queue", config.CampaignLogsQueue)

	go func() {
		for {
			select {
			case <-s.stopChan:
				logrus.Info("RabbitMQ consumer stopped")
				return
			case msg, ok := <-msgs:
				if !ok {
					logrus.Warn("RabbitMQ channel closed")
					return
				}

				if err := s.processLogMessage(msg.Body); err != nil {
					logrus.Errorf("Failed to process campaign log message: %v", err)
				}
			}
		}
	}()

	return nil
}

// StopRabbitMQConsumer stops the consumer
func (s *CampaignLogService) StopRabbitMQConsumer() {
	close(s.stopChan)
}

// processLogMessage ingests one queued log through the same path as POST /v1/logs
func (s *CampaignLogService) processLogMessage(body []byte) error {
	var req models.CampaignLogRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal log message: %w", err)
	}

	log, err := s.CreateLog(&req)
	if err != nil {
		return err
	}

	logrus.Infof("Ingested campaign log %s for template %s from queue", log.ID, log.TemplateName)
	return nil
}

func countStatuses(statuses []models.RecipientStatus) (sent, failed int) {
	for _, st := range statuses {
		switch st.Status {
		case models.RecipientStatusSent:
			sent++
		case models.RecipientStatusFailed:
			failed++
		}
	}
	return sent, failed
}
