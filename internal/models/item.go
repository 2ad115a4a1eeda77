package models

import (
	"time"
)

// Типы объявлений
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Статусы объявлений
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
	ItemStatusClosed   = "closed"
)

// Item - объявление о потерянной или найденной вещи
type Item struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         string    `gorm:"size:10;not null;index" json:"type"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Category     string    `gorm:"size:100;not null" json:"category"`
	Description  string    `gorm:"type:text" json:"description"`
	Location     string    `gorm:"size:255;not null" json:"location"`
	DateOccurred string    `gorm:"size:10;not null" json:"date_occurred"` // YYYY-MM-DD
	ImageURL     string    `gorm:"size:512" json:"image_url,omitempty"`
	Status       string    `gorm:"size:20;not null;default:active;index" json:"status"`
	QRCode       string    `gorm:"type:text" json:"qr_code,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// OppositeType возвращает тип, против которого ищутся совпадения
func (i *Item) OppositeType() string {
	if i.Type == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// ItemFilter - фильтры для выборки объявлений
type ItemFilter struct {
	Type     string
	Category string
	Status   string
	Search   string
	Page     int
	Limit    int
}
