package models

import (
	"time"

	"github.com/lib/pq"
)

// Recipient is a named party with one or more destination addresses.
type Recipient struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Emails    pq.StringArray `json:"emails" gorm:"type:text[];not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for the Recipient model
func (Recipient) TableName() string {
	return "recipients"
}

// RecipientRequest is the payload for creating or updating a recipient
type RecipientRequest struct {
	Name   string   `json:"name" binding:"required" example:"Alice"`
	Emails []string `json:"emails" binding:"required,min=1" example:"alice@example.com"`
}

// RecipientUpdateRequest is a partial update. Nil fields are left unchanged.
type RecipientUpdateRequest struct {
	Name   *string  `json:"name,omitempty"`
	Emails []string `json:"emails,omitempty"`
}
