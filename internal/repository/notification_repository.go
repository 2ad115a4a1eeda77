package repository

import (
	"context"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
	ListByMatch(ctx context.Context, matchID string) ([]*models.NotificationLog, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *notificationRepository) ListByMatch(ctx context.Context, matchID string) ([]*models.NotificationLog, error) {
	var entries []*models.NotificationLog
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("sent_at DESC").
		Find(&entries).
		Error
	return entries, err
}
