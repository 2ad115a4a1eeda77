package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	itemListCacheTTL     = time.Minute
	itemListCachePattern = "items:list:*"
)

type ItemService interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Item, error)
	Update(ctx context.Context, id, actorID string, isAdmin bool, fields map[string]interface{}) error
	Delete(ctx context.Context, id, actorID string, isAdmin bool) error
	GenerateQRCode(ctx context.Context, id string) (string, error)
}

type itemService struct {
	repo   repository.ItemRepository
	cache  repository.CacheRepository
	appURL string
}

func NewItemService(repo repository.ItemRepository, cache repository.CacheRepository, appURL string) ItemService {
	return &itemService{
		repo:   repo,
		cache:  cache,
		appURL: appURL,
	}
}

func (s *itemService) Create(ctx context.Context, item *models.Item) error {
	item.ID = uuid.NewString()
	item.Status = models.ItemStatusActive
	if item.DateOccurred == "" {
		item.DateOccurred = time.Now().UTC().Format("2006-01-02")
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *itemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// List читает список из кэша, при промахе - из БД с последующей записью
// в кэш. Сбои кэша не мешают выдаче.
func (s *itemService) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	key := listCacheKey(filter)

	var cached []*models.Item
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("Item list cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, items, itemListCacheTTL); err != nil {
			log.Printf("Item list cache write failed: %v", err)
		}
	}
	return items, nil
}

func (s *itemService) ListByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update меняет объявление. Владелец меняет свои объявления, админ -
// любые; переданы должны быть только изменяемые поля.
func (s *itemService) Update(ctx context.Context, id, actorID string, isAdmin bool, fields map[string]interface{}) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && item.UserID != actorID {
		return ErrForbidden
	}

	if len(fields) == 0 {
		return nil
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidateListCache(ctx)
	return nil
}

func (s *itemService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && item.UserID != actorID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.invalidateListCache(ctx)
	return nil
}

// GenerateQRCode создает QR-код со ссылкой на страницу объявления,
// сохраняет его как data URL на самом объявлении и возвращает
func (s *itemService) GenerateQRCode(ctx context.Context, id string) (string, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return "", err
	}

	content := fmt.Sprintf("%s/items/%s", s.appURL, id)
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if err := s.repo.UpdateQRCode(ctx, id, dataURL); err != nil {
		return "", fmt.Errorf("failed to store QR code: %w", err)
	}
	return dataURL, nil
}

func listCacheKey(filter models.ItemFilter) string {
	return fmt.Sprintf("items:list:%s:%s:%s:%s:%d:%d",
		filter.Type, filter.Category, filter.Status, filter.Search, filter.Page, filter.Limit)
}

func (s *itemService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	keys, err := s.cache.Keys(ctx, itemListCachePattern)
	if err != nil {
		log.Printf("Item list cache invalidation failed: %v", err)
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Printf("Item list cache invalidation failed: %v", err)
	}
}
