package models

import (
	"time"

	"gorm.io/datatypes"
)

// Per-address delivery states recorded in a campaign log
const (
	RecipientStatusQueued = "queued"
	RecipientStatusSent   = "sent"
	RecipientStatusFailed = "failed"
)

// CampaignLog is the write-once audit record of one campaign
type CampaignLog struct {
	ID             string                               `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TemplateName   string                               `json:"templateName" gorm:"type:varchar(255);not null;index"`
	Subject        string                               `json:"subject" gorm:"type:varchar(998);not null"`
	BodyPreview    string                               `json:"bodyPreview" gorm:"type:text"`
	Recipients     datatypes.JSONSlice[LogRecipient]    `json:"recipients" gorm:"type:jsonb;not null"`
	PerRecipient   datatypes.JSONSlice[RecipientStatus] `json:"perRecipient,omitempty" gorm:"type:jsonb"`
	RecipientCount int                                  `json:"recipientCount" gorm:"not null;default:0"`
	SuccessCount   int                                  `json:"successCount" gorm:"not null;default:0"`
	FailedCount    int                                  `json:"failedCount" gorm:"not null;default:0"`
	StartedAt      time.Time                            `json:"startedAt" gorm:"not null"`
	CompletedAt    *time.Time                           `json:"completedAt,omitempty"`
	DurationMs     *int64                               `json:"durationMs,omitempty"`
	Meta           datatypes.JSONMap                    `json:"meta,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time                            `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time                            `json:"updatedAt"`
}

// TableName specifies the table name for the CampaignLog model
func (CampaignLog) TableName() string {
	return "campaign_logs"
}

// LogRecipient is one addressed party as recorded in a log
type LogRecipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// RecipientStatus is the outcome for one address. It doubles as the per-address entry of a send result.
type RecipientStatus struct {
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	MessageID string     `json:"messageId,omitempty"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}

// CampaignLogRequest is the manual ingestion payload. Optional numbers are pointers so omission can be told apart from zero.
type CampaignLogRequest struct {
	TemplateName   string                 `json:"templateName" binding:"required" example:"Welcome"`
	Subject        string                 `json:"subject" binding:"required" example:"Hi there"`
	BodyPreview    string                 `json:"bodyPreview,omitempty"`
	Recipients     []LogRecipient         `json:"recipients" binding:"required,min=1,dive"`
	PerRecipient   []RecipientStatus      `json:"perRecipient,omitempty"`
	RecipientCount *int                   `json:"recipientCount,omitempty"`
	SuccessCount   *int                   `json:"successCount,omitempty"`
	FailedCount    *int                   `json:"failedCount,omitempty"`
	StartedAt      *time.Time             `json:"startedAt,omitempty"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	DurationMs     *int64                 `json:"durationMs,omitempty"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
}
