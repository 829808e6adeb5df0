package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fazeltamana/Portal/api/swagger"
	"github.com/fazeltamana/Portal/internal/handler"
	"github.com/fazeltamana/Portal/internal/middleware"
	"github.com/fazeltamana/Portal/internal/models"
	"github.com/fazeltamana/Portal/internal/repository"
	"github.com/fazeltamana/Portal/internal/service"
	"github.com/fazeltamana/Portal/pkg/cache"
	"github.com/fazeltamana/Portal/pkg/config"
	"github.com/fazeltamana/Portal/pkg/database"
	"github.com/fazeltamana/Portal/pkg/export"
	"github.com/fazeltamana/Portal/pkg/logger"
	corsmiddleware "github.com/fazeltamana/Portal/pkg/middleware/cors"
	reqidmiddleware "github.com/fazeltamana/Portal/pkg/middleware/requestid"
	"github.com/fazeltamana/Portal/pkg/storage"
)

// @title Civic Service Portal API
// @version 1.0.0
// @description Citizen service request portal: applications, review, payments and notifications
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	blobs, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("uploads storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)

	auditTrail := service.NewAuditTrail(userRepo, logr)
	auditTrail.Start(context.Background())
	defer auditTrail.Stop()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	feeAssessor := service.NewFeeAssessor(cfg.Fees, rand.NewSource(time.Now().UnixNano()))
	requestSvc := service.NewRequestService(requestRepo, catalogRepo, feeAssessor, blobs, auditTrail, signer, cfg.Uploads, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, cfg.Notifications, logr)
	catalogSvc := service.NewCatalogService(catalogRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	exportSvc := service.NewExportService(requestSvc, export.NewCSVExporter(), export.NewPDFExporter())

	authHandler := handler.NewAuthHandler(authSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	userHandler := handler.NewUserHandler(userSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.GET("/departments", catalogHandler.Departments)
	api.GET("/services", catalogHandler.Services)
	api.GET("/documents/download", requestHandler.DownloadDocument)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/profile", userHandler.Profile)
		authed.PUT("/profile", userHandler.UpdateProfile)
		authed.GET("/notifications", notificationHandler.Inbox)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		authed.GET("/requests", requestHandler.List)
		authed.GET("/requests/:id", requestHandler.Get)
		authed.GET("/requests/:id/receipt", exportHandler.Receipt)
		authed.GET("/documents/:id/link", requestHandler.DocumentLink)
		authed.GET("/exports/requests.csv", exportHandler.RequestsCSV)

		citizen := authed.Group("")
		citizen.Use(middleware.RequireRoles(models.RoleCitizen))
		{
			citizen.POST("/requests", requestHandler.Create)
		}

		officer := authed.Group("")
		officer.Use(middleware.RequireRoles(models.RoleOfficer, models.RoleDeptHead))
		{
			officer.POST("/requests/:id/review", requestHandler.StartReview)
			officer.POST("/requests/:id/decision", requestHandler.Decide)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			if cfg.Dashboard.Enabled {
				admin.GET("/dashboard", dashboardHandler.Stats)
			}
			admin.POST("/users", middleware.Audit(auditTrail, models.AuditActionUserCreate, "users"), userHandler.CreateStaff)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
