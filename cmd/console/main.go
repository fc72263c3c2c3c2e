package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-console/api/swagger"
	"github.com/noah-isme/sma-console/internal/handler"
	"github.com/noah-isme/sma-console/internal/middleware"
	"github.com/noah-isme/sma-console/internal/repository"
	"github.com/noah-isme/sma-console/internal/service"
	"github.com/noah-isme/sma-console/internal/view"
	"github.com/noah-isme/sma-console/pkg/apiclient"
	"github.com/noah-isme/sma-console/pkg/cache"
	"github.com/noah-isme/sma-console/pkg/config"
	"github.com/noah-isme/sma-console/pkg/logger"
	"github.com/noah-isme/sma-console/pkg/middleware/clientid"
	corsmiddleware "github.com/noah-isme/sma-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-console/pkg/middleware/requestid"
)

// @title SMA Console
// @version 1.0.0
// @description Administration console for students and enrollments
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

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	backend := apiclient.New(apiclient.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.Backend.Timeout,
		Logger:   logr,
		Observer: metrics,
	})
	studentRepo := repository.NewStudentRepository(backend)
	enrollmentRepo := repository.NewEnrollmentRepository(backend)

	store, checks, closeStore := draftStore(cfg, logr)
	defer closeStore()

	validator := service.NewFormValidator(time.Now)
	drafts := service.NewDraftService(store, metrics, cfg.Drafts.Key, cfg.Drafts.TTL, logr, cfg.Drafts.Enabled)
	students := service.NewStudentService(studentRepo, validator, drafts, logr)
	enrollments := service.NewEnrollmentService(enrollmentRepo, studentRepo, validator, logr,
		service.WithEnrichmentConcurrency(cfg.Enrichment.Concurrency),
		service.WithEnrollmentMetrics(metrics),
	)
	dashboard := service.NewDashboardService(studentRepo, time.Now, logr)

	tmpl, err := view.Templates()
	if err != nil {
		logr.Fatal("failed to parse templates", zap.Error(err))
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(clientid.Middleware(cfg.Env == config.EnvProduction))
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))

	api := r.Group("/api")
	api.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	api.Use(middleware.WithResponseMeta())

	opts := handler.PageOptions{BaseURL: backend.BaseURL(), PageSize: cfg.Listing.PageSize}
	handler.RegisterRoutes(r, api, handler.Handlers{
		Students:    handler.NewStudentHandler(students, opts),
		Enrollments: handler.NewEnrollmentHandler(enrollments, opts),
		Dashboard:   handler.NewDashboardHandler(dashboard, opts),
		Metrics:     handler.NewMetricsHandler(metrics, checks),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("console starting", "addr", srv.Addr, "env", cfg.Env, "backend", backend.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// draftStore picks the draft backend. An unreachable Redis falls back to memory
// so the forms keep working.
func draftStore(cfg *config.Config, logr *zap.Logger) (service.DraftStore, map[string]handler.ReadinessCheck, func()) {
	noop := func() {}
	if cfg.Drafts.Store != config.DraftStoreRedis {
		return repository.NewMemoryDraftRepository(), nil, noop
	}

	client, err := cache.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, keeping drafts in memory", zap.Error(err))
		return repository.NewMemoryDraftRepository(), nil, noop
	}
	store := repository.NewRedisDraftRepository(client, logr)
	checks := map[string]handler.ReadinessCheck{
		"drafts": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
	return store, checks, func() { _ = store.Close() }
}
