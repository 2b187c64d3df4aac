package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	httpapi "lebs-backend/internal/api/http"
	"lebs-backend/internal/config"
	"lebs-backend/internal/logger"
	"lebs-backend/internal/repository/postgres"
	"lebs-backend/internal/scanguard"
	"lebs-backend/internal/security"
	"lebs-backend/internal/service"
	"lebs-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local .env overrides, ignored when absent
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LEBS backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.OTPExpiry)*time.Minute,
	)

	// Initialize slip and photo storage
	files, err := storage.NewLocalFileStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		logger.Error("Failed to initialize file storage", "error", err)
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Duplicate-scan guard: Redis when configured, in-process otherwise
	var guard scanguard.Guard
	if cfg.Redis.Addr != "" {
		logger.Info("Using Redis scan guard", "addr", cfg.Redis.Addr)
		guard = scanguard.NewRedisGuard(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		logger.Info("Using in-process scan guard")
		guard = scanguard.NewMemoryGuard()
	}

	// Email backend: direct SMTP or the standalone relay service
	var mailer service.Mailer
	if cfg.Relay.Mode == "relay" {
		logger.Info("Using email relay", "url", cfg.Relay.URL)
		mailer = service.NewRelayMailer(cfg.Relay.URL, files)
	} else {
		logger.Info("Using SMTP email", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		mailer = service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, files)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(mailer)
	slipSvc := service.NewSlipService(files, "")
	authSvc := service.NewAuthService(store.AdminRepository, emailSvc, tokenManager, time.Duration(cfg.JWT.OTPExpiry)*time.Minute)
	inventorySvc := service.NewInventoryService(store.ItemRepository)
	borrowerSvc := service.NewBorrowerService(store.BorrowerRepository)
	borrowSvc := service.NewBorrowService(store.TransactionRepository, store.BorrowerRepository, guard, slipSvc, emailSvc)
	returnSvc := service.NewReturnService(store.TransactionRepository, store.PendingReturnRepository, store.BorrowerRepository, slipSvc, emailSvc)
	reportSvc := service.NewReportService(store.ItemRepository, store.BorrowerRepository, store.TransactionRepository, store.PendingReturnRepository)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:          authSvc,
		Inventory:     inventorySvc,
		Borrowers:     borrowerSvc,
		Borrows:       borrowSvc,
		Returns:       returnSvc,
		Reports:       reportSvc,
		Tokens:        tokenManager,
		StagedReturns: cfg.Kiosk.StagedReturns,
		FilesDir:      cfg.Storage.Dir,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
