package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack-backend/internal/api/handler"
	"github.com/shopstack-backend/internal/api/middleware"
	"github.com/shopstack-backend/internal/platform/auth"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	verifier auth.TokenVerifier,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	inventoryHandler *handler.InventoryHandler,
	accountingHandler *handler.AccountingHandler,
	blogHandler *handler.BlogHandler,
	reviewHandler *handler.ReviewHandler,
	contentHandler *handler.ContentHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	authed := middleware.RequireAuth(verifier)
	admin := middleware.RequireAdmin()

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Signup, login, and password recovery
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/otp", userHandler.RequestRegistrationOTP)
			authGroup.POST("/register", userHandler.Register)
			authGroup.POST("/login", userHandler.Login)
			authGroup.POST("/password-reset/otp", userHandler.RequestPasswordResetOTP)
			authGroup.POST("/password-reset", userHandler.ResetPassword)
		}

		// Account operations for the authenticated user
		users := v1.Group("/users")
		{
			users.GET("/me", authed, userHandler.GetProfile)
			users.PUT("/me", authed, userHandler.UpdateProfile)
			users.PUT("/me/password", authed, userHandler.ChangePassword)
			users.GET("", authed, admin, userHandler.ListUsers)
		}

		// Wishlist operations
		wishlist := v1.Group("/wishlist", authed)
		{
			wishlist.GET("", userHandler.GetWishlist)
			wishlist.POST("", userHandler.AddWishlistItem)
			wishlist.DELETE("/:productId", userHandler.RemoveWishlistItem)
		}

		// Catalog browsing and admin maintenance
		categories := v1.Group("/categories")
		{
			categories.GET("", catalogHandler.ListCategories)
			categories.POST("", authed, admin, catalogHandler.CreateCategory)
			categories.PUT("/:id", authed, admin, catalogHandler.UpdateCategory)
			categories.DELETE("/:id", authed, admin, catalogHandler.DeleteCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/page/:page", catalogHandler.GetProductsPage)
			products.GET("/search", catalogHandler.SearchProducts)
			products.POST("/filter", catalogHandler.FilterProducts)
			products.GET("/category/:slug", catalogHandler.GetProductsByCategory)
			products.GET("/:slug", catalogHandler.GetProductBySlug)
			products.POST("", authed, admin, catalogHandler.CreateProduct)
			products.PUT("/:id", authed, admin, catalogHandler.UpdateProduct)
			products.DELETE("/:id", authed, admin, catalogHandler.DeleteProduct)
		}

		// Review operations; listing is keyed by product id, not slug
		reviews := v1.Group("/reviews")
		{
			reviews.GET("/product/:id", reviewHandler.GetProductReviews)
			reviews.POST("", authed, reviewHandler.CreateReview)
		}

		// Order operations
		orders := v1.Group("/orders", authed)
		{
			orders.POST("/checkout", orderHandler.Checkout)
			orders.GET("/mine", orderHandler.GetMyOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.GET("", admin, orderHandler.ListOrders)
			orders.PUT("/:id/status", admin, orderHandler.UpdateStatus)
		}

		// Physical stock operations for the admin panel
		inventory := v1.Group("/inventory", authed, admin)
		{
			inventory.GET("", inventoryHandler.ListItems)
			inventory.POST("", inventoryHandler.CreateItem)
			inventory.PUT("/:id", inventoryHandler.UpdateItem)
			inventory.DELETE("/:id", inventoryHandler.DeleteItem)
			inventory.POST("/sales", inventoryHandler.RecordCustomSale)
		}

		// Double-entry ledger operations
		accounting := v1.Group("/accounting", authed, admin)
		{
			accounting.POST("/accounts", accountingHandler.CreateAccount)
			accounting.GET("/accounts", accountingHandler.ListAccounts)
			accounting.POST("/transactions", accountingHandler.CreateTransaction)
			accounting.GET("/transactions/:page", accountingHandler.GetTransactionsPage)
			accounting.GET("/ledger/:accId", accountingHandler.GetLedger)
		}

		// Blog and newsletter operations
		blog := v1.Group("/blog")
		{
			blog.GET("/posts", blogHandler.ListPosts)
			blog.GET("/posts/latest", blogHandler.LatestPosts)
			blog.GET("/posts/:slug", blogHandler.GetPostBySlug)
			blog.POST("/posts", authed, admin, blogHandler.CreatePost)
			blog.PUT("/posts/:id", authed, admin, blogHandler.UpdatePost)
			blog.DELETE("/posts/:id", authed, admin, blogHandler.DeletePost)
			blog.POST("/posts/:id/comments", authed, blogHandler.AddComment)
			blog.POST("/posts/:id/likes", authed, blogHandler.ToggleLike)
			blog.POST("/subscribe", blogHandler.Subscribe)
			blog.POST("/unsubscribe", blogHandler.Unsubscribe)
		}

		// Home page carousel
		slides := v1.Group("/slides")
		{
			slides.GET("", contentHandler.ListSlides)
			slides.POST("", authed, admin, contentHandler.AddSlide)
			slides.DELETE("/:id", authed, admin, contentHandler.DeleteSlide)
		}

		// Contact form
		v1.POST("/contact", userHandler.SendContactMessage)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
