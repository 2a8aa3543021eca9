package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/content"
)

const (
	// SlideCollectionName is the name of the home page slide collection in MongoDB
	SlideCollectionName = "home_page_slides"
)

// SlideRepository implements the content.Repository interface for MongoDB
type SlideRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSlideRepository creates a new MongoDB slide repository
func NewSlideRepository(logger *slog.Logger, db *mongo.Database) content.Repository {
	return &SlideRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new slide
func (r *SlideRepository) Create(ctx context.Context, s *content.Slide) error {
	collection := r.db.Collection(SlideCollectionName)

	_, err := collection.InsertOne(ctx, s)
	if err != nil {
		r.logger.Error("Failed to create slide",
			"title", s.Title,
			"error", err)
		return fmt.Errorf("failed to create slide: %w", err)
	}

	return nil
}

// List retrieves slides sorted by creation time ascending so carousel order
// is stable.
func (r *SlideRepository) List(ctx context.Context) ([]*content.Slide, error) {
	collection := r.db.Collection(SlideCollectionName)

	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list slides", "error", err)
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	defer cursor.Close(ctx)

	slides := []*content.Slide{}
	if err := cursor.All(ctx, &slides); err != nil {
		r.logger.Error("Failed to decode slides", "error", err)
		return nil, fmt.Errorf("failed to decode slides: %w", err)
	}

	return slides, nil
}

// Count counts the stored slides
func (r *SlideRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(SlideCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count slides", "error", err)
		return 0, fmt.Errorf("failed to count slides: %w", err)
	}

	return count, nil
}

// Delete removes a slide.
// Returns ErrSlideNotFound if the slide doesn't exist.
func (r *SlideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(SlideCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete slide",
			"slide_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete slide: %w", err)
	}

	if result.DeletedCount == 0 {
		return content.ErrSlideNotFound{SlideID: id}
	}

	return nil
}
