package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailTemplate is a named, reusable HTML email. Body holds the base64 encoding of the original HTML.
type EmailTemplate struct {
	ID          string                                  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string                                  `json:"name" gorm:"type:varchar(255);not null;index"`
	Subject     string                                  `json:"subject" gorm:"type:varchar(998);not null"`
	Body        string                                  `json:"body" gorm:"type:text;not null"`
	FromName    string                                  `json:"fromName,omitempty" gorm:"type:varchar(255)"`
	FromEmail   string                                  `json:"fromEmail,omitempty" gorm:"type:varchar(255)"`
	Attachments datatypes.JSONSlice[TemplateAttachment] `json:"attachments,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time                               `json:"createdAt"`
	UpdatedAt   time.Time                               `json:"updatedAt"`
}

// TableName specifies the table name for the EmailTemplate model
func (EmailTemplate) TableName() string {
	return "email_templates"
}

// TemplateAttachment is a file stored inline with a template. Content is base64 on the wire.
type TemplateAttachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}

// EmailTemplateRequest is the payload for creating or updating a template. Body is plain HTML.
type EmailTemplateRequest struct {
	Name        string               `json:"name" binding:"required" example:"Welcome"`
	Subject     string               `json:"subject" binding:"required" example:"Hi {{recipient}}"`
	Body        string               `json:"body" binding:"required" example:"<p>Hello {{recipient}}</p>"`
	FromName    string               `json:"fromName,omitempty" example:"Campaign Team"`
	FromEmail   string               `json:"fromEmail,omitempty" example:"team@example.com"`
	Attachments []TemplateAttachment `json:"attachments,omitempty"`
}

// EmailTemplateUpdateRequest is a partial update. Nil fields are left unchanged.
type EmailTemplateUpdateRequest struct {
	Name        *string               `json:"name,omitempty"`
	Subject     *string               `json:"subject,omitempty"`
	Body        *string               `json:"body,omitempty"`
	FromName    *string               `json:"fromName,omitempty"`
	FromEmail   *string               `json:"fromEmail,omitempty"`
	Attachments *[]TemplateAttachment `json:"attachments,omitempty"`
}
