package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/planify-app/planify-api/api/swagger"
	"github.com/planify-app/planify-api/internal/handler"
	"github.com/planify-app/planify-api/internal/middleware"
	"github.com/planify-app/planify-api/internal/models"
	"github.com/planify-app/planify-api/internal/repository"
	"github.com/planify-app/planify-api/internal/service"
	"github.com/planify-app/planify-api/pkg/cache"
	"github.com/planify-app/planify-api/pkg/config"
	"github.com/planify-app/planify-api/pkg/database"
	"github.com/planify-app/planify-api/pkg/logger"
	corsmiddleware "github.com/planify-app/planify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/planify-app/planify-api/pkg/middleware/requestid"
)

// @title Planify API
// @version 1.0.0
// @description Course schedule planning backend: catalog browsing, conflict detection, load statistics and schedule transfer.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	}

	validate := validator.New()

	catalogRepo := repository.NewCatalogRepository(db)
	savedRepo := repository.NewSavedScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	selectionSvc := service.NewSelectionService(cacheSvc, metricsSvc, cfg.Planner.SelectionTTL, cfg.Planner.WeeklyHourBudget, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, cacheSvc, metricsSvc, cfg.Catalog.CacheTTL, logr)
	optionSvc := service.NewOptionService(selectionSvc, validate, cfg.Planner.SelectionTTL, cfg.Planner.WeeklyHourBudget, cfg.Options.MaxBatchSize, logr)
	savedSvc := service.NewSavedScheduleService(savedRepo, selectionSvc, validate, cfg.Planner.CreditLimit, logr)
	transferSvc := service.NewTransferService(selectionSvc, catalogSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	selectionHandler := handler.NewSelectionHandler(selectionSvc)
	optionHandler := handler.NewOptionHandler(optionSvc)
	savedHandler := handler.NewSavedScheduleHandler(savedSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	catalog := protected.Group("/catalog")
	catalog.GET("", catalogHandler.List)
	catalog.GET("/grouped", catalogHandler.Grouped)
	catalog.POST("/import", middleware.RequireRoles(models.RoleAdmin), catalogHandler.Import)
	catalog.GET("/:id", catalogHandler.Get)

	selection := protected.Group("/selection")
	selection.GET("", selectionHandler.View)
	selection.PUT("", selectionHandler.Replace)
	selection.DELETE("", selectionHandler.Clear)
	selection.POST("/toggle", selectionHandler.Toggle)
	selection.GET("/conflicts", selectionHandler.Conflicts)
	selection.GET("/stats", selectionHandler.Stats)

	if cfg.Options.Enabled {
		options := protected.Group("/options")
		options.POST("/normalize", optionHandler.Normalize)
		options.POST("/apply", optionHandler.Apply)
	}

	schedules := protected.Group("/schedules")
	schedules.GET("", savedHandler.List)
	schedules.POST("", savedHandler.Save)
	schedules.GET("/:id", savedHandler.Get)
	schedules.POST("/:id/load", savedHandler.Load)
	schedules.DELETE("/:id", savedHandler.Delete)

	transfer := protected.Group("/transfer")
	if cfg.Exports.Enabled {
		transfer.GET("/export", transferHandler.Export)
	}
	transfer.POST("/import", transferHandler.Import)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
