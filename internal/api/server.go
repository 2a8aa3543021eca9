package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopstack-backend/internal/api/handler"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/config"
	"github.com/shopstack-backend/internal/platform/auth"
)

// Services bundles the application services the HTTP server exposes
type Services struct {
	User       service.UserService
	Catalog    service.CatalogService
	Order      service.OrderService
	Inventory  service.InventoryService
	Accounting service.AccountingService
	Blog       service.BlogService
	Review     service.ReviewService
	Content    service.ContentService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, verifier auth.TokenVerifier, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	userHandler := handler.NewUserHandler(log, services.User)
	catalogHandler := handler.NewCatalogHandler(log, services.Catalog)
	orderHandler := handler.NewOrderHandler(log, services.Order, services.User)
	inventoryHandler := handler.NewInventoryHandler(log, services.Inventory)
	accountingHandler := handler.NewAccountingHandler(log, services.Accounting)
	blogHandler := handler.NewBlogHandler(log, services.Blog)
	reviewHandler := handler.NewReviewHandler(log, services.Review)
	contentHandler := handler.NewContentHandler(log, services.Content)

	setupRouter(log, httpRouter, verifier,
		userHandler, catalogHandler, orderHandler, inventoryHandler,
		accountingHandler, blogHandler, reviewHandler, contentHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
