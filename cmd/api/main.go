package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopstack-backend/internal/api"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/config"
	"github.com/shopstack-backend/internal/data/mongo"
	"github.com/shopstack-backend/internal/data/postgres"
	"github.com/shopstack-backend/internal/logger"
	"github.com/shopstack-backend/internal/platform/auth"
	"github.com/shopstack-backend/internal/platform/cache"
	"github.com/shopstack-backend/internal/platform/imaging"
	"github.com/shopstack-backend/internal/platform/messaging/producers"
	"github.com/shopstack-backend/internal/platform/otp"
	"github.com/shopstack-backend/internal/platform/payments"
	"github.com/shopstack-backend/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	redisClient, err := cache.New(appCtx, &cfg.Redis)
	if err != nil {
		log.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for mail events
	mailProducer, err := producers.NewMailEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize mail event Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(log, postgresDB)
	db := mongoDB.Database()
	categoryRepo := mongo.NewCategoryRepository(log, db)
	productRepo := mongo.NewProductRepository(log, db)
	orderRepo := mongo.NewOrderRepository(log, db)
	inventoryRepo := mongo.NewInventoryRepository(log, db)
	accountRepo := mongo.NewAccountRepository(log, db)
	transactionRepo := mongo.NewTransactionRepository(log, db)
	postRepo := mongo.NewPostRepository(log, db)
	subscriberRepo := mongo.NewSubscriberRepository(log, db)
	reviewRepo := mongo.NewReviewRepository(log, db)
	slideRepo := mongo.NewSlideRepository(log, db)

	// Initialize platform services
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	otpStore := otp.NewStore(log, redisClient, cfg.OTP.TTL)
	imageStore := imaging.NewLocalStore(cfg.Imaging.BaseURL)
	paymentGateway := payments.NewSandboxGateway()

	// Initialize application services
	accountingService := service.NewAccountingService(log, accountRepo, transactionRepo, &cfg.Accounting)
	services := api.Services{
		User:       service.NewUserService(log, userRepo, productRepo, subscriberRepo, otpStore, tokenManager, mailProducer, cfg.OTP.TTL),
		Catalog:    service.NewCatalogService(log, categoryRepo, productRepo, imageStore),
		Order:      service.NewOrderService(log, orderRepo, productRepo, userRepo, accountingService, paymentGateway, mailProducer),
		Inventory:  service.NewInventoryService(log, inventoryRepo, productRepo, accountingService),
		Accounting: accountingService,
		Blog:       service.NewBlogService(log, postRepo, subscriberRepo, imageStore, mailProducer, cfg.Mail.NewsletterBatch),
		Review:     service.NewReviewService(log, reviewRepo, orderRepo),
		Content:    service.NewContentService(log, slideRepo),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, tokenManager, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = mailProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = redisClient.Close(); err != nil {
		log.Error("Error closing Redis client", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
