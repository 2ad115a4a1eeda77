package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lostfound/internal/auth"
	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

type noopNotifier struct{}

func (noopNotifier) NotifyMatch(ctx context.Context, match *models.Match, lostItem, foundItem *models.Item) error {
	return nil
}

func (noopNotifier) SendPasswordReset(ctx context.Context, email, fullName, resetToken string) error {
	return nil
}

func setupMatchRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Match{},
		&models.NotificationLog{},
	))

	matchService := service.NewMatchService(
		repository.NewItemRepository(db),
		repository.NewMatchRepository(db),
		noopNotifier{},
	)
	handler := NewMatchHandler(matchService)

	router := gin.New()
	protected := router.Group("/api/v1", middleware.AuthRequired(testJWTSecret))
	protected.GET("/matches", handler.ListMine)
	protected.GET("/matches/:id", handler.GetByID)
	protected.PUT("/matches/:id/status", handler.UpdateStatus)
	protected.POST("/matches/auto-match", handler.AutoMatch)
	protected.POST("/matches/run-all", handler.RunAll)

	return router, db
}

func authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(testJWTSecret, time.Hour, userID, "user@example.com", false)
	require.NoError(t, err)
	return "Bearer " + token
}

func seedPair(t *testing.T, db *gorm.DB, userID string) (lost, found *models.Item) {
	t.Helper()

	lost = &models.Item{
		ID:           uuid.NewString(),
		UserID:       userID,
		Type:         models.ItemTypeLost,
		Title:        "Lost phone",
		Category:     "Electronics",
		Location:     "Central Library",
		DateOccurred: "2024-01-01",
		Status:       models.ItemStatusActive,
	}
	found = &models.Item{
		ID:           uuid.NewString(),
		UserID:       uuid.NewString(),
		Type:         models.ItemTypeFound,
		Title:        "Found phone",
		Category:     "Electronics",
		Location:     "Central Library",
		DateOccurred: "2024-01-01",
		Status:       models.ItemStatusActive,
	}
	require.NoError(t, db.Create(lost).Error)
	require.NoError(t, db.Create(found).Error)
	return lost, found
}

func doRequest(router *gin.Engine, method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAutoMatchRequiresAuth(t *testing.T) {
	router, _ := setupMatchRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", "", gin.H{"item_id": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", "Bearer garbage", gin.H{"item_id": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAutoMatchValidation(t *testing.T) {
	router, _ := setupMatchRouter(t)
	token := authHeader(t, uuid.NewString())

	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "item_id is required")
}

func TestAutoMatchUnknownItem(t *testing.T) {
	router, _ := setupMatchRouter(t)
	token := authHeader(t, uuid.NewString())

	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", token, gin.H{"item_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Item not found")
}

func TestAutoMatchSuccess(t *testing.T) {
	router, db := setupMatchRouter(t)
	userID := uuid.NewString()
	token := authHeader(t, userID)

	lost, _ := seedPair(t, db, userID)

	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", token, gin.H{"item_id": lost.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message           string `json:"message"`
		MatchesFound      int    `json:"matches_found"`
		NewMatchesCreated int    `json:"new_matches_created"`
		Matches           []struct {
			Score int `json:"score"`
			Item  struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Auto-matching complete", resp.Message)
	assert.Equal(t, 1, resp.MatchesFound)
	assert.Equal(t, 1, resp.NewMatchesCreated)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 100, resp.Matches[0].Score)
}

func TestRunAllSuccess(t *testing.T) {
	router, db := setupMatchRouter(t)
	userID := uuid.NewString()
	token := authHeader(t, userID)

	seedPair(t, db, userID)

	rec := doRequest(router, http.MethodPost, "/api/v1/matches/run-all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Batch matching complete", resp["message"])
	assert.EqualValues(t, 1, resp["lost_items_processed"])
	assert.EqualValues(t, 1, resp["found_items_compared"])
	assert.EqualValues(t, 1, resp["new_matches_created"])
}

func TestListMineShowsOwnMatchesOnly(t *testing.T) {
	router, db := setupMatchRouter(t)
	userID := uuid.NewString()
	token := authHeader(t, userID)

	lost, _ := seedPair(t, db, userID)
	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", token, gin.H{"item_id": lost.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/matches", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Lost phone", matches[0]["lost_title"])
	assert.Equal(t, "Found phone", matches[0]["found_title"])

	// Чужой пользователь совпадения не видит
	otherToken := authHeader(t, uuid.NewString())
	rec = doRequest(router, http.MethodGet, "/api/v1/matches", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Empty(t, matches)
}

func TestUpdateMatchStatus(t *testing.T) {
	router, db := setupMatchRouter(t)
	userID := uuid.NewString()
	token := authHeader(t, userID)

	lost, _ := seedPair(t, db, userID)
	rec := doRequest(router, http.MethodPost, "/api/v1/matches/auto-match", token, gin.H{"item_id": lost.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var match models.Match
	require.NoError(t, db.First(&match).Error)

	rec = doRequest(router, http.MethodPut, "/api/v1/matches/"+match.ID+"/status", token, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPut, "/api/v1/matches/"+match.ID+"/status", token, gin.H{"status": "lost-forever"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPut, "/api/v1/matches/"+uuid.NewString()+"/status", token, gin.H{"status": "rejected"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
