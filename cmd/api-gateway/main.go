package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-gradebook/api/swagger"
	"github.com/noah-isme/sma-gradebook/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/repository"
	"github.com/noah-isme/sma-gradebook/internal/service"
	"github.com/noah-isme/sma-gradebook/pkg/config"
	"github.com/noah-isme/sma-gradebook/pkg/export"
	"github.com/noah-isme/sma-gradebook/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
)

// @title SMA Gradebook API
// @version 0.1.0
// @description Weighted grade computation and class statistics
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := repository.NewAssessmentRepository(cfg.Grading.MaxScores)
	if err != nil {
		logr.Sugar().Fatalw("invalid grading config", "error", err)
	}
	rosters := repository.NewRosterRepository()
	weights := repository.NewWeightRepository(cfg.Grading.Weights)

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	gradebook := service.NewGradebookService(store, rosters, weights, metrics, validator.New(), logr)
	exports := service.NewExportService(
		gradebook,
		export.NewCSVExporter(cfg.Exports.CSVDelimiter),
		export.NewPDFExporter(),
		export.NewXLSXExporter(""),
		metrics,
		cfg.Exports.Title,
		logr,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	probes := handler.NewMetricsHandler(metrics.Handler())
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	if metrics != nil {
		r.GET("/metrics", probes.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewGradebookHandler(gradebook).Register(api)
	handler.NewExportHandler(exports, cfg.Exports.Enabled).Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"metrics", cfg.Metrics.Enabled,
		"exports", cfg.Exports.Enabled,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
