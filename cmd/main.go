package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostfound/internal/config"
	"lostfound/internal/handlers"
	"lostfound/internal/middleware"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/internal/worker"
	"lostfound/pkg/database"
	"lostfound/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Lost & Found Backend Starting ===")

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Инициализация сервисов
	notifier := service.NewNotificationService(service.MailConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		AppName:  cfg.App.Name,
		AppURL:   cfg.App.FrontendURL,
		Enabled:  cfg.Mail.Enabled,
	}, userRepo, notificationRepo)

	authService := service.NewAuthService(userRepo, cacheRepo, notifier, cfg.JWT.Secret, cfg.JWT.TTL)
	itemService := service.NewItemService(itemRepo, cacheRepo, cfg.App.FrontendURL)
	matchService := service.NewMatchService(itemRepo, matchRepo, notifier)
	exportService := service.NewExportService(matchRepo, cfg.Export.OutputDir)

	// Фоновый пакетный подбор (по умолчанию выключен)
	scheduler := worker.NewScheduler()
	if cfg.Workers.MatchEnabled {
		scheduler.AddWorker(worker.NewMatchWorker(matchService, cfg.Workers.MatchInterval))
		log.Printf("Match Worker enabled (interval: %v)", cfg.Workers.MatchInterval)
	}
	go scheduler.Start()
	defer scheduler.Stop()

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS для React фронтенда
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting: на чтение и запись разные лимиты
	readLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.ReadRPS), cfg.RateLimit.ReadBurst)
	writeLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.WriteRPS), cfg.RateLimit.WriteBurst)
	if !cfg.App.Debug {
		r.Use(middleware.RateLimitMiddleware(readLimiter))
		log.Printf("Rate limiting enabled: read %.1f req/sec, write %.1f req/sec",
			cfg.RateLimit.ReadRPS, cfg.RateLimit.WriteRPS)
	}

	// Инициализация обработчиков
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)
	matchHandler := handlers.NewMatchHandler(matchService)
	adminHandler := handlers.NewAdminHandler(matchService, exportService, itemRepo, userRepo, matchRepo, redisClient)

	api := r.Group("/api/v1")

	// Аутентификация
	authGroup := api.Group("/auth")
	authGroup.POST("/register", middleware.RateLimitMiddleware(writeLimiter), authHandler.Register)
	authGroup.POST("/login", middleware.RateLimitMiddleware(writeLimiter), authHandler.Login)
	authGroup.POST("/forgot-password", middleware.RateLimitMiddleware(writeLimiter), authHandler.ForgotPassword)
	authGroup.POST("/reset-password", middleware.RateLimitMiddleware(writeLimiter), authHandler.ResetPassword)

	// Публичный каталог объявлений
	api.GET("/items", itemHandler.List)

	// Эндпоинты, требующие входа
	protected := api.Group("", middleware.AuthRequired(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.PUT("/profile", profileHandler.Update)

		protected.GET("/items/mine", itemHandler.ListMine)
		protected.GET("/items/:id", itemHandler.GetByID)
		protected.POST("/items", middleware.RateLimitMiddleware(writeLimiter), itemHandler.Create)
		protected.PUT("/items/:id", itemHandler.Update)
		protected.DELETE("/items/:id", itemHandler.Delete)
		protected.POST("/items/:id/qrcode", itemHandler.GenerateQRCode)

		protected.GET("/matches", matchHandler.ListMine)
		protected.GET("/matches/:id", matchHandler.GetByID)
		protected.PUT("/matches/:id/status", matchHandler.UpdateStatus)
		protected.POST("/matches/auto-match", matchHandler.AutoMatch)
		protected.POST("/matches/run-all", matchHandler.RunAll)

		// Административные эндпоинты
		admin := protected.Group("/admin", middleware.AdminRequired())
		admin.GET("/matches", adminHandler.ListAllMatches)
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/export", adminHandler.ExportMatches)
	}

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database": "connected",
				"redis":    "connected",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
