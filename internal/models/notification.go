package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationLog - журнал отправленных уведомлений.
// Payload хранит снимок данных совпадения на момент отправки.
type NotificationLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	MatchID   string         `gorm:"type:uuid;not null;index" json:"match_id"`
	Recipient string         `gorm:"size:255;not null" json:"recipient"`
	Subject   string         `gorm:"size:255;not null" json:"subject"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	SentAt    time.Time      `gorm:"not null" json:"sent_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
