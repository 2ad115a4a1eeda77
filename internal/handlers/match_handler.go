package handlers

import (
	"errors"
	"net/http"

	"lostfound/internal/middleware"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	service service.MatchService
}

func NewMatchHandler(service service.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// AutoMatchRequest - тело запроса подбора для одного объявления
type AutoMatchRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// AutoMatch запускает подбор совпадений для одного объявления
func (h *MatchHandler) AutoMatch(c *gin.Context) {
	ctx := c.Request.Context()

	var req AutoMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}

	result, err := h.service.MatchItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Auto-matching failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Auto-matching complete",
		"matches_found":       result.MatchesFound,
		"new_matches_created": result.NewMatchesCreated,
		"matches":             result.Matches,
	})
}

// RunAll запускает пакетный подбор по всем активным объявлениям
func (h *MatchHandler) RunAll(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.service.MatchAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Batch matching failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "Batch matching complete",
		"lost_items_processed": result.LostItemsProcessed,
		"found_items_compared": result.FoundItemsCompared,
		"new_matches_created":  result.NewMatchesCreated,
	})
}

// ListMine возвращает совпадения по объявлениям текущего пользователя
func (h *MatchHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.CtxUserID)

	matches, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetByID возвращает совпадение с полными данными обоих объявлений
func (h *MatchHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	detail, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load match"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStatusRequest - смена статуса совпадения после проверки
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed rejected"`
}

// UpdateStatus меняет статус совпадения (подтверждено/отклонено)
func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of: pending, confirmed, rejected"})
		return
	}

	if err := h.service.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Match status updated"})
}
