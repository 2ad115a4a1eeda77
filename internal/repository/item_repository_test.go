package repository

import (
	"context"
	"testing"

	"lostfound/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedItems(t *testing.T, db *gorm.DB) {
	t.Helper()

	items := []*models.Item{
		{ID: uuid.NewString(), UserID: "u1", Type: models.ItemTypeLost, Title: "Black iPhone 13", Description: "Lost near the cafeteria", Category: "Electronics", Location: "Cafeteria", DateOccurred: "2024-01-01", Status: models.ItemStatusActive},
		{ID: uuid.NewString(), UserID: "u1", Type: models.ItemTypeLost, Title: "Blue backpack", Description: "With textbooks inside", Category: "Bags", Location: "Library", DateOccurred: "2024-01-02", Status: models.ItemStatusResolved},
		{ID: uuid.NewString(), UserID: "u2", Type: models.ItemTypeFound, Title: "Silver laptop", Description: "MacBook with stickers", Category: "Electronics", Location: "Room 204", DateOccurred: "2024-01-03", Status: models.ItemStatusActive},
		{ID: uuid.NewString(), UserID: "u2", Type: models.ItemTypeFound, Title: "Set of keys", Description: "Three keys on a red ring", Category: "Keys", Location: "Parking lot", DateOccurred: "2024-01-04", Status: models.ItemStatusActive},
	}
	for _, item := range items {
		require.NoError(t, db.Create(item).Error)
	}
}

func TestItemListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	seedItems(t, db)

	tests := []struct {
		name   string
		filter models.ItemFilter
		want   int
	}{
		{"no filter", models.ItemFilter{}, 4},
		{"by type lost", models.ItemFilter{Type: models.ItemTypeLost}, 2},
		{"by category", models.ItemFilter{Category: "Electronics"}, 2},
		{"active found electronics", models.ItemFilter{Type: models.ItemTypeFound, Category: "Electronics", Status: models.ItemStatusActive}, 1},
		{"search in title", models.ItemFilter{Search: "iPhone"}, 1},
		{"search in description", models.ItemFilter{Search: "stickers"}, 1},
		{"search without hits", models.ItemFilter{Search: "umbrella"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestItemListPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	seedItems(t, db)

	page1, err := repo.List(ctx, models.ItemFilter{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page1, 3)

	page2, err := repo.List(ctx, models.ItemFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	// Страницы не пересекаются
	for _, a := range page1 {
		for _, b := range page2 {
			assert.NotEqual(t, a.ID, b.ID)
		}
	}
}

func TestItemListActiveByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	seedItems(t, db)

	lost, err := repo.ListActiveByType(ctx, models.ItemTypeLost)
	require.NoError(t, err)
	// Закрытое объявление в пул кандидатов не попадает
	require.Len(t, lost, 1)
	assert.Equal(t, "Black iPhone 13", lost[0].Title)

	found, err := repo.ListActiveByType(ctx, models.ItemTypeFound)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestItemUpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &models.Item{
		ID:           uuid.NewString(),
		UserID:       "u1",
		Type:         models.ItemTypeLost,
		Title:        "Old title",
		Category:     "Electronics",
		Location:     "Cafeteria",
		DateOccurred: "2024-01-01",
		Status:       models.ItemStatusActive,
	}
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateFields(ctx, item.ID, map[string]interface{}{
		"title":  "New title",
		"status": models.ItemStatusResolved,
	}))

	updated, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, models.ItemStatusResolved, updated.Status)
	assert.Equal(t, "Cafeteria", updated.Location)
}

func TestItemDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := &models.Item{
		ID:           uuid.NewString(),
		UserID:       "u1",
		Type:         models.ItemTypeLost,
		Title:        "To be removed",
		Category:     "Other",
		Location:     "Hall",
		DateOccurred: "2024-01-01",
		Status:       models.ItemStatusActive,
	}
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.Delete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestItemCountByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	seedItems(t, db)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	lost, err := repo.CountByType(ctx, models.ItemTypeLost)
	require.NoError(t, err)
	assert.EqualValues(t, 2, lost)
}
