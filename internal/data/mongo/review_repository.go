package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/review"
)

const (
	// ReviewCollectionName is the name of the review collection in MongoDB
	ReviewCollectionName = "reviews"
)

// ReviewRepository implements the review.Repository interface for MongoDB
type ReviewRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReviewRepository creates a new MongoDB review repository
func NewReviewRepository(logger *slog.Logger, db *mongo.Database) review.Repository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new review
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	collection := r.db.Collection(ReviewCollectionName)

	_, err := collection.InsertOne(ctx, rev)
	if err != nil {
		r.logger.Error("Failed to create review",
			"product_id", rev.ProductID.Hex(),
			"error", err)
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// Exists reports whether the (product, order, user) triple has already been
// reviewed. One review per purchased product.
func (r *ReviewRepository) Exists(ctx context.Context, productID, orderID primitive.ObjectID, userID uuid.UUID) (bool, error) {
	collection := r.db.Collection(ReviewCollectionName)

	filter := bson.M{
		"product_id": productID,
		"order_id":   orderID,
		"user_id":    userID,
	}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to check for existing review",
			"product_id", productID.Hex(),
			"order_id", orderID.Hex(),
			"error", err)
		return false, fmt.Errorf("failed to check for existing review: %w", err)
	}

	return count > 0, nil
}

// GetByProduct retrieves a product's reviews sorted by creation time descending
func (r *ReviewRepository) GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*review.Review, error) {
	collection := r.db.Collection(ReviewCollectionName)

	filter := bson.M{"product_id": productID}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get reviews",
			"product_id", productID.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []*review.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		r.logger.Error("Failed to decode reviews",
			"product_id", productID.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}
