package repository

import (
	"context"

	"lostfound/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository interface {
	Exists(ctx context.Context, lostItemID, foundItemID string) (bool, error)
	Create(ctx context.Context, match *models.Match) (bool, error)
	GetByID(ctx context.Context, id string) (*models.MatchDetail, error)
	ListByUser(ctx context.Context, userID string) ([]*models.MatchWithItems, error)
	ListAll(ctx context.Context) ([]*models.MatchWithItems, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int64, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Exists(ctx context.Context, lostItemID, foundItemID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("lost_item_id = ? AND found_item_id = ?", lostItemID, foundItemID).
		Count(&count).
		Error
	return count > 0, err
}

// Create вставляет совпадение, игнорируя конфликт по уникальному индексу
// пары (lost_item_id, found_item_id): два параллельных запуска подбора не
// создадут дубликат. Возвращает true, если строка действительно вставлена.
func (r *matchRepository) Create(ctx context.Context, match *models.Match) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lost_item_id"}, {Name: "found_item_id"}},
			DoNothing: true,
		}).
		Create(match)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

const matchDetailSelect = `m.id, m.lost_item_id, m.found_item_id, m.match_score, m.status, m.created_at,
	li.title AS lost_title, li.description AS lost_description,
	li.location AS lost_location, li.category AS lost_category,
	fi.title AS found_title, fi.description AS found_description,
	fi.location AS found_location, fi.category AS found_category`

func (r *matchRepository) GetByID(ctx context.Context, id string) (*models.MatchDetail, error) {
	var detail models.MatchDetail
	err := r.db.WithContext(ctx).
		Table("matches AS m").
		Select(matchDetailSelect).
		Joins("JOIN items li ON m.lost_item_id = li.id").
		Joins("JOIN items fi ON m.found_item_id = fi.id").
		Where("m.id = ?", id).
		Take(&detail).
		Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

const matchListSelect = `m.id, m.lost_item_id, m.found_item_id, m.match_score, m.status, m.created_at,
	li.title AS lost_title, li.category AS lost_category,
	fi.title AS found_title, fi.category AS found_category`

// ListByUser возвращает совпадения, где пользователю принадлежит любая
// из двух вещей, свежие первыми
func (r *matchRepository) ListByUser(ctx context.Context, userID string) ([]*models.MatchWithItems, error) {
	var matches []*models.MatchWithItems
	err := r.db.WithContext(ctx).
		Table("matches AS m").
		Select(matchListSelect).
		Joins("JOIN items li ON m.lost_item_id = li.id").
		Joins("JOIN items fi ON m.found_item_id = fi.id").
		Where("li.user_id = ? OR fi.user_id = ?", userID, userID).
		Order("m.created_at DESC").
		Find(&matches).
		Error
	return matches, err
}

func (r *matchRepository) ListAll(ctx context.Context) ([]*models.MatchWithItems, error) {
	var matches []*models.MatchWithItems
	err := r.db.WithContext(ctx).
		Table("matches AS m").
		Select(matchListSelect).
		Joins("JOIN items li ON m.lost_item_id = li.id").
		Joins("JOIN items fi ON m.found_item_id = fi.id").
		Order("m.created_at DESC").
		Find(&matches).
		Error
	return matches, err
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *matchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Count(&count).
		Error
	return count, err
}
