package handlers

import (
	"net/http"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
)

// AdminHandler обслуживает административные операции: полный список
// совпадений, статистика и выгрузка отчетов
type AdminHandler struct {
	matchService  service.MatchService
	exportService service.ExportService
	itemRepo      repository.ItemRepository
	userRepo      repository.UserRepository
	matchRepo     repository.MatchRepository
	redisClient   *goredis.Client
}

func NewAdminHandler(
	matchService service.MatchService,
	exportService service.ExportService,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	redisClient *goredis.Client,
) *AdminHandler {
	return &AdminHandler{
		matchService:  matchService,
		exportService: exportService,
		itemRepo:      itemRepo,
		userRepo:      userRepo,
		matchRepo:     matchRepo,
		redisClient:   redisClient,
	}
}

// ListAllMatches возвращает все совпадения системы
func (h *AdminHandler) ListAllMatches(c *gin.Context) {
	ctx := c.Request.Context()

	matches, err := h.matchService.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

// Stats возвращает счетчики БД и метрики Redis
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	userCount, _ := h.userRepo.Count(ctx)
	itemCount, _ := h.itemRepo.Count(ctx)
	lostCount, _ := h.itemRepo.CountByType(ctx, models.ItemTypeLost)
	foundCount, _ := h.itemRepo.CountByType(ctx, models.ItemTypeFound)
	matchCount, _ := h.matchRepo.Count(ctx)

	redisStats, _ := redis.GetStats(h.redisClient)

	c.JSON(http.StatusOK, gin.H{
		"database": gin.H{
			"users":       userCount,
			"items":       itemCount,
			"lost_items":  lostCount,
			"found_items": foundCount,
			"matches":     matchCount,
		},
		"redis": redisStats,
	})
}

// ExportMatches выгружает отчет по совпадениям в CSV или Excel
func (h *AdminHandler) ExportMatches(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.DefaultQuery("format", "csv")

	path, err := h.exportService.ExportMatches(ctx, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "failed to export matches",
			"message": err.Error(),
		})
		return
	}

	c.File(path)
}
