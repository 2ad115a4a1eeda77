package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(service service.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// CreateItemRequest - заявка о потерянной или найденной вещи
type CreateItemRequest struct {
	Type         string `json:"type" binding:"required,oneof=lost found"`
	Title        string `json:"title" binding:"required,max=255"`
	Category     string `json:"category" binding:"required,max=100"`
	Description  string `json:"description"`
	Location     string `json:"location" binding:"required,max=255"`
	DateOccurred string `json:"date_occurred" binding:"omitempty,datetime=2006-01-02"`
	ImageURL     string `json:"image_url"`
}

func (h *ItemHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, category, and location are required"})
		return
	}

	item := &models.Item{
		UserID:       c.GetString(middleware.CtxUserID),
		Type:         req.Type,
		Title:        req.Title,
		Category:     req.Category,
		Description:  req.Description,
		Location:     req.Location,
		DateOccurred: req.DateOccurred,
		ImageURL:     req.ImageURL,
	}

	if err := h.service.Create(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"id":      item.ID,
	})
}

// List возвращает объявления с фильтрами и пагинацией
func (h *ItemHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	filter := models.ItemFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Status:   c.DefaultQuery("status", models.ItemStatusActive),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	item, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListMine возвращает объявления текущего пользователя
func (h *ItemHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.ListByUser(ctx, c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateItemRequest - частичное обновление: присутствующие поля меняются,
// отсутствующие остаются как есть
type UpdateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	Status      *string `json:"status" binding:"omitempty,oneof=active resolved closed"`
}

func (h *ItemHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload"})
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	err := h.service.Update(ctx, c.Param("id"),
		c.GetString(middleware.CtxUserID), c.GetBool(middleware.CtxIsAdmin), fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own items"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully"})
}

func (h *ItemHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	err := h.service.Delete(ctx, c.Param("id"),
		c.GetString(middleware.CtxUserID), c.GetBool(middleware.CtxIsAdmin))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own items"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GenerateQRCode генерирует и сохраняет QR-код объявления
func (h *ItemHandler) GenerateQRCode(c *gin.Context) {
	ctx := c.Request.Context()

	dataURL, err := h.service.GenerateQRCode(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_code": dataURL})
}
