package models

import (
	"time"
)

// User - зарегистрированный пользователь
type User struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	FullName          string    `gorm:"size:255" json:"full_name"`
	Phone             string    `gorm:"size:50" json:"phone,omitempty"`
	PreferredLanguage string    `gorm:"size:10;default:en" json:"preferred_language,omitempty"`
	IsAdmin           bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
