package services

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	"github.com/onegreenvn/campaign-mailer-backend/internal/models"
	"github.com/onegreenvn/campaign-mailer-backend/internal/services/mailer"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// CampaignLogRecorder persists a finished campaign log. Implemented by CampaignLogService.
type CampaignLogRecorder interface {
	Record(log *models.CampaignLog) (*models.CampaignLog, error)
}

// EventPublisher publishes campaign events to a queue. Implemented by RabbitMQService.
type EventPublisher interface {
	PublishMessage(ctx context.Context, queueName string, message interface{}) error
}

// CampaignEventCompleted is the event name published after every dispatch
const CampaignEventCompleted = "campaign.completed"

// CampaignService renders a template for each recipient, sends it and records one log per campaign
type CampaignService struct {
	templateRepo  EmailTemplateStore
	recipientRepo RecipientStore
	logRecorder   CampaignLogRecorder
	transport     mailer.Transport
	publisher     EventPublisher
	now           func() time.Time
}

func NewCampaignService(
	templateRepo EmailTemplateStore,
	recipientRepo RecipientStore,
	logRecorder CampaignLogRecorder,
	transport mailer.Transport,
) *CampaignService {
	return &CampaignService{
		templateRepo:  templateRepo,
		recipientRepo: recipientRepo,
		logRecorder:   logRecorder,
		transport:     transport,
		now:           time.Now,
	}
}

// SetEventPublisher enables campaign.completed events (injected after creation since the broker is optional)
func (s *CampaignService) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// SendCampaign dispatches a template to every recipient in order.
// Unknown template or recipient ids fail the whole call before anything is sent.
// Send failures are recorded per address and never abort the campaign; a failed log write is only reported.
func (s *CampaignService) SendCampaign(ctx context.Context, req *models.SendCampaignRequest) (*models.CampaignResult, error) {
	template, err := s.loadTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}
	html := DecodeBody(template.Body)

	recipients, err := s.loadRecipients(req.RecipientIDs)
	if err != nil {
		return nil, err
	}

	// Once sending starts the campaign runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	attachments := toMailAttachments(template.Attachments)
	startedAt := s.now()

	results := make([]models.RecipientStatus, 0, len(recipients))
	logRecipients := make([]models.LogRecipient, 0, len(recipients))
	for _, recipient := range recipients {
		vars := BuildVariables(req.Variables, recipient.Name)
		msg := &mailer.Message{
			FromName:    template.FromName,
			FromEmail:   template.FromEmail,
			To:          []string(recipient.Emails),
			Subject:     Render(template.Subject, vars),
			HTML:        Render(html, vars),
			Attachments: attachments,
		}

		info, sendErr := s.transport.Send(ctx, msg)
		if sendErr != nil {
			logrus.WithFields(logrus.Fields{
				"template_id":  template.ID,
				"recipient_id": recipient.ID,
				"emails":       msg.To,
			}).Warnf("Failed to send campaign email: %v", sendErr)
		}

		sentAt := s.now()
		for _, email := range recipient.Emails {
			results = append(results, recipientStatus(recipient, email, info, sendErr, sentAt))
			logRecipients = append(logRecipients, models.LogRecipient{Name: recipient.Name, Email: email})
		}
	}

	completedAt := s.now()
	durationMs := completedAt.Sub(startedAt).Milliseconds()
	sent, failed := countStatuses(results)

	campaignLog := &models.CampaignLog{
		TemplateName: template.Name,
		Subject:      template.Subject,
		BodyPreview:  Preview(html, BodyPreviewLength),
		Recipients:   logRecipients,
		PerRecipient: results,
		SuccessCount: sent,
		FailedCount:  failed,
		StartedAt:    startedAt,
		CompletedAt:  &completedAt,
		DurationMs:   &durationMs,
		Meta: datatypes.JSONMap{
			"templateId":   template.ID,
			"recipientIds": req.RecipientIDs,
		},
	}

	var logID string
	saved, err := s.logRecorder.Record(campaignLog)
	if err != nil {
		logrus.Warnf("Campaign for template %s was sent but its log could not be saved: %v", template.ID, err)
		sentry.CaptureException(err)
	} else {
		logID = saved.ID
	}

	result := &models.CampaignResult{
		Success: true,
		Sent:    sent,
		Failed:  failed,
		Total:   len(results),
		Results: results,
		LogID:   logID,
	}

	s.publishCompleted(ctx, template, result, durationMs)

	logrus.Infof("Campaign for template %s finished: %d sent, %d failed, %d total in %dms",
		template.Name, sent, failed, result.Total, durationMs)
	return result, nil
}

func (s *CampaignService) loadTemplate(id string) (*models.EmailTemplate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("template %s %w", id, ErrNotFound)
	}
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("template %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return template, nil
}

// loadRecipients resolves ids in order and stops at the first one that does not exist
func (s *CampaignService) loadRecipients(ids []string) ([]*models.Recipient, error) {
	recipients := make([]*models.Recipient, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("recipient %s %w", id, ErrNotFound)
		}
		recipient, err := s.recipientRepo.GetByID(id)
		if err != nil {
			if isRecordNotFound(err) {
				return nil, fmt.Errorf("recipient %s %w", id, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load recipient %s: %w", id, err)
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}

func (s *CampaignService) publishCompleted(ctx context.Context, template *models.EmailTemplate, result *models.CampaignResult, durationMs int64) {
	if s.publisher == nil {
		return
	}

	event := models.CampaignEvent{
		Event:        CampaignEventCompleted,
		LogID:        result.LogID,
		TemplateID:   template.ID,
		TemplateName: template.Name,
		Sent:         result.Sent,
		Failed:       result.Failed,
		Total:        result.Total,
		DurationMs:   durationMs,
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.publisher.PublishMessage(publishCtx, config.CampaignEventsQueue, event); err != nil {
		logrus.Warnf("Failed to publish %s event: %v", CampaignEventCompleted, err)
	}
}

func recipientStatus(recipient *models.Recipient, email string, info *mailer.SendInfo, sendErr error, sentAt time.Time) models.RecipientStatus {
	status := models.RecipientStatus{
		Email: email,
		Name:  recipient.Name,
	}
	if sendErr != nil {
		status.Status = models.RecipientStatusFailed
		status.Error = sendErr.Error()
		return status
	}

	status.Status = models.RecipientStatusSent
	status.SentAt = &sentAt
	if info != nil {
		status.MessageID = info.MessageID
	}
	return status
}

func toMailAttachments(attachments []models.TemplateAttachment) []mailer.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]mailer.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = mailer.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		}
	}
	return out
}
