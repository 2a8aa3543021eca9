package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/order"
	"github.com/shopstack-backend/internal/domain/review"
)

var (
	// ErrAlreadyReviewed indicates the buyer already reviewed this purchase
	ErrAlreadyReviewed = errors.New("product already reviewed for this order")

	// ErrNotPurchased indicates the order does not contain the product or
	// does not belong to the reviewer.
	ErrNotPurchased = errors.New("product was not purchased in this order")
)

// ReviewServiceImpl implements the ReviewService interface
type ReviewServiceImpl struct {
	reviewRepo review.Repository
	orderRepo  order.Repository
	logger     *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(logger *slog.Logger, reviewRepo review.Repository, orderRepo order.Repository) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// CreateReview records a review after verifying the buyer purchased the
// product in the given order and has not reviewed this purchase yet.
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, userID uuid.UUID, productID, orderID primitive.ObjectID, stars int, text string) (*review.Review, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != userID {
		return nil, ErrNotPurchased
	}

	purchased := false
	for _, item := range o.Items {
		if item.ProductID == productID {
			purchased = true
			break
		}
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	exists, err := s.reviewRepo.Exists(ctx, productID, orderID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	r, err := review.NewReview(userID, productID, orderID, stars, text)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// GetProductReviews returns a product's reviews, newest first
func (s *ReviewServiceImpl) GetProductReviews(ctx context.Context, productID primitive.ObjectID) ([]*review.Review, error) {
	return s.reviewRepo.GetByProduct(ctx, productID)
}
