package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lens-to-language/internal/adapters/primary/http/handlers"
	"lens-to-language/internal/adapters/primary/http/middleware"
	"lens-to-language/internal/adapters/primary/http/web"
	"lens-to-language/internal/adapters/secondary/huggingface"
	"lens-to-language/internal/adapters/secondary/kserve"
	"lens-to-language/internal/adapters/secondary/memory"
	"lens-to-language/internal/adapters/secondary/postgres"
	"lens-to-language/internal/config"
	output "lens-to-language/internal/core/ports/output"
	"lens-to-language/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Caption Backend)
	var factory output.CaptionerFactory
	switch cfg.Captioner.Backend {
	case config.BackendKServe:
		kserveClient, err := kserve.NewKServeClient(&cfg.KServe)
		if err != nil {
			log.Fatalf("kserve client init: %v", err)
		}
		factory = kserve.NewCaptionerFactory(kserveClient, &cfg.KServe)
		log.WithField("namespace", cfg.KServe.DefaultNS).Info("KServe caption backend initialized")
	default:
		factory = huggingface.NewClient(&cfg.HuggingFace)
		log.WithField("base_url", cfg.HuggingFace.BaseURL).Info("Hugging Face caption backend initialized")
	}

	// Secondary Adapters (Feedback Store)
	var feedbackRepo output.FeedbackRepository
	var pool *pgxpool.Pool
	switch cfg.Feedback.Store {
	case config.StorePostgres:
		pool = openPool(cfg)
		defer pool.Close()
		feedbackRepo = postgres.NewFeedbackRepository(pool)
	default:
		feedbackRepo = memory.NewFeedbackRepository()
		log.Info("feedback kept in memory")
	}

	// Core Services (Application Layer)
	captionSvc := services.NewCaptionService(factory, cfg.Upload.MaxDimension)
	feedbackSvc := services.NewFeedbackService(feedbackRepo)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(captionSvc, feedbackSvc, cfg.Upload.MaxBytes, cfg.Upload.MaxPixels)

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = cfg.Upload.MaxBytes
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	h.RegisterPages(router.Group("/", limiter.HandlerWith(h.RateLimitedPage)))

	api := router.Group("/api/v1", limiter.Handler())
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": factory.Name()})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPool(cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	log.Info("database connection established")
	return pool
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
