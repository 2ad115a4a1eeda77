package handlers

import (
	"errors"
	"net/http"

	"lostfound/internal/middleware"
	"lostfound/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.AuthService
}

func NewProfileHandler(service service.AuthService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// UpdateProfileRequest - частичное обновление профиля
type UpdateProfileRequest struct {
	FullName          *string `json:"full_name" binding:"omitempty,max=255"`
	Phone             *string `json:"phone" binding:"omitempty,max=50"`
	PreferredLanguage *string `json:"preferred_language" binding:"omitempty,max=10"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
		return
	}

	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.PreferredLanguage != nil {
		fields["preferred_language"] = *req.PreferredLanguage
	}

	user, err := h.service.UpdateProfile(ctx, c.GetString(middleware.CtxUserID), fields)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
