package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/middleware"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/review"
)

// ReviewHandler handles HTTP requests for product reviews
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(logger *slog.Logger, reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// CreateReview records a verified-purchase review
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		RespondBadRequest(c, "Invalid product id")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		RespondBadRequest(c, "Invalid order id")
		return
	}

	rev, err := h.reviewService.CreateReview(c.Request.Context(),
		middleware.GetUserID(c), productID, orderID, req.Stars, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidStars), errors.Is(err, review.ErrEmptyText):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, service.ErrAlreadyReviewed):
			RespondConflict(c, err.Error())
		case errors.Is(err, service.ErrNotPurchased):
			RespondUnprocessable(c, "NOT_PURCHASED", err.Error())
		case errors.Is(err, order.ErrOrderNotFound{}):
			RespondNotFound(c, "Order not found")
		case errors.Is(err, catalog.ErrProductNotFound{}):
			RespondNotFound(c, "Product not found")
		default:
			h.logger.Error("Failed to create review", "product_id", productID.Hex(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, rev)
}

// GetProductReviews lists the reviews for one product
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid product id")
		return
	}

	reviews, err := h.reviewService.GetProductReviews(c.Request.Context(), productID)
	if err != nil {
		h.logger.Error("Failed to list reviews", "product_id", productID.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, reviews)
}
