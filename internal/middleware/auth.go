package middleware

import (
	"net/http"
	"strings"

	"lostfound/internal/auth"

	"github.com/gin-gonic/gin"
)

// Ключи контекста запроса, устанавливаемые после проверки токена
const (
	CtxUserID  = "user_id"
	CtxEmail   = "email"
	CtxIsAdmin = "is_admin"
)

// AuthRequired проверяет Bearer-токен и кладет данные пользователя в
// контекст запроса. Любая причина отказа дает одинаковый ответ 401.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			unauthorized(c)
			return
		}

		claims, err := auth.ValidateToken(jwtSecret, token)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired пускает дальше только администраторов.
// Использовать после AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	c.Abort()
}
