package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	intakeapp "github.com/apflow/backend/internal/application/intake"
	"github.com/apflow/backend/internal/infrastructure/config"
	"github.com/apflow/backend/internal/infrastructure/extraction"
	"github.com/apflow/backend/internal/infrastructure/logger"
	"github.com/apflow/backend/internal/infrastructure/persistence"
	"github.com/apflow/backend/internal/infrastructure/storage"
	"github.com/apflow/backend/internal/interfaces/http/handler"
	"github.com/apflow/backend/internal/interfaces/http/middleware"
	"github.com/apflow/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting AP invoice intake service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Initialize repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	postedInvoiceRepo := persistence.NewGormPostedInvoiceRepository(db.DB)
	intakeRecordRepo := persistence.NewGormIntakeRecordRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Seed reference data for development environments
	if cfg.Intake.SeedReferenceData {
		seeder := persistence.NewSeeder(supplierRepo, purchaseOrderRepo, log)
		if err := seeder.Seed(context.Background()); err != nil {
			log.Fatal("Failed to seed reference data", zap.Error(err))
		}
	}

	// Initialize document storage
	var docs storage.DocumentStore
	switch cfg.Storage.Provider {
	case "s3":
		s3Store, err := storage.NewS3DocumentStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 document storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		docs = s3Store
	default:
		log.Warn("Using in-memory document storage; uploads will not survive restarts")
		docs = storage.NewMemoryDocumentStore()
	}

	// Wire the intake pipeline
	extractor := extraction.NewClient(&cfg.Extractor, docs, log.Named("extraction"))
	aggregator := intakeapp.NewAggregator(supplierRepo, purchaseOrderRepo, log.Named("validation"))
	poster := intakeapp.NewPoster(supplierRepo, purchaseOrderRepo, postedInvoiceRepo, log.Named("posting"))
	reporter := intakeapp.NewReporter()

	workflow, err := intakeapp.NewWorkflow(extractor, aggregator, poster, reporter, log.Named("workflow"))
	if err != nil {
		log.Fatal("Failed to wire intake workflow", zap.Error(err))
	}
	workflow.WithConfidenceThreshold(cfg.Intake.ConfidenceThreshold)

	// Set up HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.MaxMultipartMemory = cfg.HTTP.MaxUploadSize

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Health)

	intakeHandler := handler.NewIntakeHandler(
		workflow,
		docs,
		intakeRecordRepo,
		notificationRepo,
		cfg.Intake.ConfidenceThreshold,
		cfg.HTTP.MaxUploadSize,
		log.Named("http"),
	)
	router.NewRouter(engine).
		Register(intakeHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}
