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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/baladia/fieldops-api/api/swagger"
	"github.com/baladia/fieldops-api/internal/handler"
	"github.com/baladia/fieldops-api/internal/repository"
	"github.com/baladia/fieldops-api/internal/service"
	"github.com/baladia/fieldops-api/pkg/cache"
	"github.com/baladia/fieldops-api/pkg/config"
	"github.com/baladia/fieldops-api/pkg/database"
	"github.com/baladia/fieldops-api/pkg/export"
	"github.com/baladia/fieldops-api/pkg/jobs"
	"github.com/baladia/fieldops-api/pkg/logger"
	corsmiddleware "github.com/baladia/fieldops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/baladia/fieldops-api/pkg/middleware/requestid"
)

// @title FieldOps API
// @version 1.0.0
// @description Geofencing and work-integrity engine for municipal field workers
// @BasePath /api/v1
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

	// The dev bypass must never reach production: refuse to start rather
	// than silently skip zone containment.
	if cfg.IsProduction() && cfg.Geofencing.DisableGeofencing {
		logr.Fatal("DISABLE_GEOFENCING is set with ENV=production; refusing to start")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheService *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, zone cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metrics, cfg.ZoneCache.TTL, logr, cfg.ZoneCache.Enabled)
	}

	users := repository.NewUserRepository(db)
	municipalities := repository.NewMunicipalityRepository(db)
	zones := repository.NewZoneRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	tasks := repository.NewTaskRepository(db)
	appeals := repository.NewAppealRepository(db)

	notifier := service.NewNotifierService(nil, jobs.QueueConfig{
		Workers:    cfg.Notifier.Workers,
		BufferSize: cfg.Notifier.BufferSize,
		MaxRetries: cfg.Notifier.MaxRetries,
		RetryDelay: cfg.Notifier.RetryDelay,
	}, logr)

	authService := service.NewAuthService(cfg.JWT)
	locationService := service.NewLocationService(zones, municipalities, cacheService, metrics, cfg.Geofencing, cfg.ZoneCache.TTL, logr)
	attendanceService := service.NewAttendanceService(attendance, users, municipalities, locationService, notifier, cfg.Schedule, nil, logr)
	taskService := service.NewTaskService(tasks, users, notifier, metrics, cfg.Tasks, nil, logr)
	appealService := service.NewAppealService(appeals, tasks, attendance, users, notifier, nil, logr)
	importService := service.NewZoneImportService(zones, municipalities, cacheService, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier.Start(ctx)
	defer notifier.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Attendance: handler.NewAttendanceHandler(attendanceService),
		Tasks:      handler.NewTaskHandler(taskService),
		Appeals:    handler.NewAppealHandler(appealService),
		Zones:      handler.NewZoneHandler(importService, locationService),
		Reports:    handler.NewReportHandler(attendanceService, export.NewPDFExporter()),
		Metrics:    handler.NewMetricsHandler(metrics, db),
	}, authService, metrics, logr)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env,
			"geofencing_disabled", cfg.Geofencing.DisableGeofencing)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
