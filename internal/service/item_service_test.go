package service

import (
	"context"
	"strings"
	"testing"

	"lostfound/internal/models"
	"lostfound/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestItemService(t *testing.T) (ItemService, *gorm.DB, *memoryCache) {
	t.Helper()

	db := setupTestDB(t)
	cache := newMemoryCache()
	svc := NewItemService(repository.NewItemRepository(db), cache, "http://localhost:3000")
	return svc, db, cache
}

func TestItemCreateDefaults(t *testing.T) {
	svc, db, _ := newTestItemService(t)
	ctx := context.Background()

	item := &models.Item{
		UserID:   "u1",
		Type:     models.ItemTypeLost,
		Title:    "Lost umbrella",
		Category: "Other",
		Location: "Bus stop",
	}
	require.NoError(t, svc.Create(ctx, item))

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.ItemStatusActive, item.Status)
	assert.NotEmpty(t, item.DateOccurred)

	var stored models.Item
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, "Lost umbrella", stored.Title)
}

func TestItemListUsesCache(t *testing.T) {
	svc, db, cache := newTestItemService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Item{
		UserID:   "u1",
		Type:     models.ItemTypeLost,
		Title:    "Lost umbrella",
		Category: "Other",
		Location: "Bus stop",
	}))

	filter := models.ItemFilter{Status: models.ItemStatusActive}

	items, err := svc.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEmpty(t, cache.data)

	// Строка добавлена мимо сервиса: повторный запрос идет в кэш и
	// отдает прежний список
	require.NoError(t, db.Create(&models.Item{
		ID:           "direct-insert",
		UserID:       "u2",
		Type:         models.ItemTypeFound,
		Title:        "Found umbrella",
		Category:     "Other",
		Location:     "Bus stop",
		DateOccurred: "2024-01-01",
		Status:       models.ItemStatusActive,
	}).Error)

	cachedItems, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, cachedItems, 1)
}

func TestItemCreateInvalidatesListCache(t *testing.T) {
	svc, _, cache := newTestItemService(t)
	ctx := context.Background()

	filter := models.ItemFilter{Status: models.ItemStatusActive}
	_, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.NotEmpty(t, cache.data)

	require.NoError(t, svc.Create(ctx, &models.Item{
		UserID:   "u1",
		Type:     models.ItemTypeLost,
		Title:    "Lost umbrella",
		Category: "Other",
		Location: "Bus stop",
	}))

	items, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemUpdateOwnership(t *testing.T) {
	svc, _, _ := newTestItemService(t)
	ctx := context.Background()

	item := &models.Item{
		UserID:   "owner",
		Type:     models.ItemTypeLost,
		Title:    "Lost umbrella",
		Category: "Other",
		Location: "Bus stop",
	}
	require.NoError(t, svc.Create(ctx, item))

	fields := map[string]interface{}{"status": models.ItemStatusResolved}

	assert.ErrorIs(t, svc.Update(ctx, item.ID, "stranger", false, fields), ErrForbidden)
	assert.NoError(t, svc.Update(ctx, item.ID, "stranger", true, fields))
	assert.NoError(t, svc.Update(ctx, item.ID, "owner", false, fields))
}

func TestItemDeleteOwnership(t *testing.T) {
	svc, _, _ := newTestItemService(t)
	ctx := context.Background()

	item := &models.Item{
		UserID:   "owner",
		Type:     models.ItemTypeLost,
		Title:    "Lost umbrella",
		Category: "Other",
		Location: "Bus stop",
	}
	require.NoError(t, svc.Create(ctx, item))

	assert.ErrorIs(t, svc.Delete(ctx, item.ID, "stranger", false), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, item.ID, "owner", false))

	_, err := svc.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemGenerateQRCode(t *testing.T) {
	svc, db, _ := newTestItemService(t)
	ctx := context.Background()

	item := &models.Item{
		UserID:   "owner",
		Type:     models.ItemTypeFound,
		Title:    "Found umbrella",
		Category: "Other",
		Location: "Bus stop",
	}
	require.NoError(t, svc.Create(ctx, item))

	dataURL, err := svc.GenerateQRCode(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	var stored models.Item
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, dataURL, stored.QRCode)

	_, err = svc.GenerateQRCode(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
