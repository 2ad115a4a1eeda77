package repository

import (
	"context"

	"lostfound/internal/models"

	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	ListActiveByType(ctx context.Context, itemType string) ([]*models.Item, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateQRCode(ctx context.Context, id, qrCode string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context, itemType string) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
		if filter.Page > 1 {
			q = q.Offset((filter.Page - 1) * filter.Limit)
		}
	}

	var items []*models.Item
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

// ListActiveByType возвращает пул кандидатов для подбора совпадений
func (r *itemRepository) ListActiveByType(ctx context.Context, itemType string) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ?", itemType, models.ItemStatusActive).
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}

func (r *itemRepository) ListByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	var items []*models.Item
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// UpdateFields обновляет только переданные поля (административная правка)
func (r *itemRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *itemRepository) UpdateQRCode(ctx context.Context, id, qrCode string) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("qr_code", qrCode).
		Error
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Item{}).
		Error
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Count(&count).
		Error
	return count, err
}

func (r *itemRepository) CountByType(ctx context.Context, itemType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("type = ?", itemType).
		Count(&count).
		Error
	return count, err
}
