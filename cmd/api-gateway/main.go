package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cvb-admin/fire-company-api/api/swagger"
	"github.com/cvb-admin/fire-company-api/internal/handler"
	"github.com/cvb-admin/fire-company-api/internal/middleware"
	"github.com/cvb-admin/fire-company-api/internal/repository"
	"github.com/cvb-admin/fire-company-api/internal/service"
	"github.com/cvb-admin/fire-company-api/pkg/cache"
	"github.com/cvb-admin/fire-company-api/pkg/config"
	"github.com/cvb-admin/fire-company-api/pkg/database"
	"github.com/cvb-admin/fire-company-api/pkg/logger"
	corsmiddleware "github.com/cvb-admin/fire-company-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cvb-admin/fire-company-api/pkg/middleware/requestid"
)

// @title Fire Company Administration API
// @version 1.0.0
// @description Positions, assignments, citations and attendance for a volunteer fire company
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, statistics caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	positionRepo := repository.NewPositionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	firefighterRepo := repository.NewFirefighterRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authSvc := service.NewAuthService(cfg.JWT.Secret)
	positionSvc := service.NewPositionService(positionRepo, assignmentRepo, cacheSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, positionRepo, firefighterRepo, cacheSvc, validate, logr)
	eventSvc := service.NewEventService(eventRepo, firefighterRepo, cacheSvc, metricsSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, eventRepo, validate, logr)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api, handler.Handlers{
		Positions:  handler.NewPositionHandler(positionSvc, assignmentSvc),
		Events:     handler.NewEventHandler(eventSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
