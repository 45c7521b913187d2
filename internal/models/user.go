package models

import (
	"time"
)

// User is a portal operator allowed to manage templates and dispatch campaigns
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `json:"username" gorm:"type:varchar(255);not null;unique;index"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName  string     `json:"display_name" gorm:"type:varchar(255)"`
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false"`
	TokenVersion uint       `json:"token_version" gorm:"default:0"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
