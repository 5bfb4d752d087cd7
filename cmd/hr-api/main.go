package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/flowdash/hr-ops-api/api/swagger"
	"github.com/flowdash/hr-ops-api/internal/handler"
	"github.com/flowdash/hr-ops-api/internal/middleware"
	"github.com/flowdash/hr-ops-api/internal/models"
	"github.com/flowdash/hr-ops-api/internal/repository"
	"github.com/flowdash/hr-ops-api/internal/service"
	"github.com/flowdash/hr-ops-api/internal/workflow"
	"github.com/flowdash/hr-ops-api/pkg/cache"
	"github.com/flowdash/hr-ops-api/pkg/config"
	"github.com/flowdash/hr-ops-api/pkg/database"
	"github.com/flowdash/hr-ops-api/pkg/logger"
	corsmiddleware "github.com/flowdash/hr-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/flowdash/hr-ops-api/pkg/middleware/requestid"
)

// @title HR Operations API
// @version 1.0.0
// @description Internal HR operations service: leave, overtime, bonuses, announcements and feedback.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Announcements.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, announcement cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	overtimeRepo := repository.NewOvertimeRepository(db)
	bonusRepo := repository.NewBonusRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	leaveEngine := workflow.New[*models.LeaveRequest](leaveRepo, workflow.CapabilityLeave, logr)
	overtimeEngine := workflow.New[*models.OvertimeRequest](overtimeRepo, workflow.CapabilityOvertime, logr, workflow.WithCancel[*models.OvertimeRequest]())
	bonusEngine := workflow.New[*models.Bonus](bonusRepo, workflow.CapabilityBonus, logr)

	leaveSvc := service.NewLeaveService(leaveEngine, validate, logr)
	overtimeSvc := service.NewOvertimeService(overtimeEngine, validate, logr)
	bonusSvc := service.NewBonusService(bonusEngine, bonusRepo, userRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, cacheRepo, metricsSvc, cfg.Announcements.CacheTTL, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	overtimeHandler := handler.NewOvertimeHandler(overtimeSvc)
	bonusHandler := handler.NewBonusHandler(bonusSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.PUT("/auth/password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	reviewRoles := middleware.RequireRoles(models.RoleManager, models.RoleProjectManager)

	leaves := authed.Group("/leaves")
	leaves.POST("", middleware.Audit(userRepo, models.AuditActionRequestSubmit, "leave"), leaveHandler.Create)
	leaves.GET("/my", leaveHandler.Mine)
	leaves.GET("/pending", reviewRoles, leaveHandler.Pending)
	leaves.PATCH("/:id/status", reviewRoles, middleware.Audit(userRepo, models.AuditActionRequestDecide, "leave"), leaveHandler.Decide)

	overtime := authed.Group("/overtime")
	overtime.POST("", middleware.Audit(userRepo, models.AuditActionRequestSubmit, "overtime"), overtimeHandler.Create)
	overtime.GET("/my", overtimeHandler.Mine)
	overtime.GET("/pending", reviewRoles, overtimeHandler.Pending)
	overtime.PATCH("/:id/status", reviewRoles, middleware.Audit(userRepo, models.AuditActionRequestDecide, "overtime"), overtimeHandler.Decide)
	overtime.DELETE("/:id", middleware.Audit(userRepo, models.AuditActionRequestCancel, "overtime"), overtimeHandler.Cancel)

	bonuses := authed.Group("/bonuses")
	bonuses.POST("", middleware.RequireRoles(models.RoleManager), middleware.Audit(userRepo, models.AuditActionRequestSubmit, "bonus"), bonusHandler.Create)
	bonuses.GET("", reviewRoles, bonusHandler.All)
	bonuses.GET("/my", bonusHandler.Mine)
	bonuses.GET("/pending", reviewRoles, bonusHandler.Pending)
	bonuses.GET("/stats", reviewRoles, bonusHandler.Stats)
	bonuses.GET("/candidates", reviewRoles, bonusHandler.Candidates)
	bonuses.GET("/export", reviewRoles, bonusHandler.Export)
	bonuses.PATCH("/:id/status", reviewRoles, middleware.Audit(userRepo, models.AuditActionRequestDecide, "bonus"), bonusHandler.Decide)

	announcements := authed.Group("/announcements")
	announcements.GET("", announcementHandler.List)
	announcements.POST("", middleware.RequireRoles(models.RoleManager), announcementHandler.Create)
	announcements.PATCH("/:id/pin", middleware.RequireRoles(models.RoleManager), announcementHandler.Pin)
	announcements.DELETE("/:id", middleware.RequireRoles(models.RoleManager), announcementHandler.Delete)

	feedback := authed.Group("/feedback")
	feedback.POST("", feedbackHandler.Create)
	feedback.GET("", reviewRoles, feedbackHandler.All)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
