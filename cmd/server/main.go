package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/caymanbizevents/events-api/api/swagger"
	"github.com/caymanbizevents/events-api/internal/handler"
	"github.com/caymanbizevents/events-api/internal/middleware"
	"github.com/caymanbizevents/events-api/internal/repository"
	"github.com/caymanbizevents/events-api/internal/service"
	"github.com/caymanbizevents/events-api/pkg/cache"
	"github.com/caymanbizevents/events-api/pkg/config"
	"github.com/caymanbizevents/events-api/pkg/database"
	"github.com/caymanbizevents/events-api/pkg/jobs"
	"github.com/caymanbizevents/events-api/pkg/logger"
	corsmiddleware "github.com/caymanbizevents/events-api/pkg/middleware/cors"
	reqidmiddleware "github.com/caymanbizevents/events-api/pkg/middleware/requestid"
	"github.com/caymanbizevents/events-api/pkg/storage"
)

// @title Cayman Biz Events API
// @version 1.0.0
// @description Event management, public calendar and subscriber exports
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	requestRepo := repository.NewEventRequestRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	exportRepo := repository.NewExportJobRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.EventTTL, logr, cfg.Cache.Enabled)
	authSvc := service.NewAuthService(userRepo, cacheRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	eventSvc := service.NewEventService(eventRepo, cacheSvc, uploadStore, validate, logr, cfg.PublicURL)
	requestSvc := service.NewEventRequestService(requestRepo, eventSvc, validate, logr)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, validate, logr)

	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(exportRepo, subscriptionRepo, exportStore, signer, metrics, logr, service.ExportConfig{
		DownloadTTL:     cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	queue := jobs.NewQueue(service.ExportJobType, exportSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportSvc.SetQueue(queue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	exportSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc, cfg.Uploads.MaxSizeBytes)
	requestHandler := handler.NewEventRequestHandler(requestSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/uploads", cfg.Uploads.StorageDir)

	// Public surface: calendar reads, event submissions, newsletter signup.
	r.GET("/event", eventHandler.List)
	r.GET("/event/:id", eventHandler.Get)
	r.POST("/event-request", requestHandler.Create)
	r.POST("/subscription", subscriptionHandler.Create)
	r.POST("/user/login", authHandler.Login)
	r.GET("/exports/download", exportHandler.Download)

	admin := r.Group("/", middleware.JWT(authSvc), middleware.AdminOnly())
	admin.POST("/event", eventHandler.Create)
	admin.PATCH("/event/:id", eventHandler.Update)
	admin.DELETE("/event/:id", eventHandler.Delete)
	admin.POST("/event/:id/image", eventHandler.UploadImage)
	admin.GET("/event-request", requestHandler.List)
	admin.GET("/event-request/:id", requestHandler.Get)
	admin.PATCH("/event-request/:id", requestHandler.Update)
	admin.PATCH("/event-request/:id/status", requestHandler.UpdateStatus)
	admin.DELETE("/event-request/:id", requestHandler.Delete)
	admin.GET("/subscription", subscriptionHandler.List)
	admin.DELETE("/subscription/:id", subscriptionHandler.Delete)
	admin.DELETE("/subscription", subscriptionHandler.DeleteMany)
	admin.POST("/exports/subscriptions", exportHandler.Create)
	admin.GET("/exports/:id", exportHandler.Get)
	admin.GET("/user/me", authHandler.Me)
	admin.POST("/user/logout", authHandler.Logout)
	admin.POST("/user/change-password", authHandler.ChangePassword)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	queue.Stop()
	logr.Sugar().Infow("server stopped")
}
