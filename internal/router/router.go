package router

import (
	"time"

	"trialops/config"
	"trialops/internal/handler"
	"trialops/internal/middleware"
	"trialops/internal/repository"
	"trialops/internal/service"
	"trialops/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mail mailer.Sender) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	trialRepo := repository.NewTrialRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	readStatusRepo := repository.NewReadStatusRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Services
	targetingSvc := service.NewTargetingService(userRepo, trialRepo)
	prefSvc := service.NewPreferenceService(settingRepo)
	cache := service.NewCountCache(rdb, cfg.Redis.CountTTL)
	notificationSvc := service.NewNotificationService(
		notificationRepo, readStatusRepo, userRepo, trialRepo,
		targetingSvc, prefSvc, mail, cache,
	)

	// Handlers
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	settingHandler := handler.NewSettingHandler(prefSvc)
	eventHandler := handler.NewEventHandler(notificationSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	api.Use(authMw)
	{
		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/count", notificationHandler.Count)
			notifications.POST("/mark-read", notificationHandler.MarkRead)
			notifications.POST("/mark-all-read", notificationHandler.MarkAllRead)
		}

		api.GET("/notification-settings", settingHandler.Get)
		api.PATCH("/notification-settings", settingHandler.Patch)

		internal := api.Group("/internal")
		{
			internal.POST("/events", eventHandler.Notify)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "trialops-notifications"})
	})

	return r
}
