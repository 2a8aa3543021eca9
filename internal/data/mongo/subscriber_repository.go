package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/blog"
)

const (
	// SubscriberCollectionName is the name of the newsletter subscriber collection in MongoDB
	SubscriberCollectionName = "newsletter_subscribers"
)

// SubscriberRepository implements the blog.SubscriberRepository interface for MongoDB
type SubscriberRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSubscriberRepository creates a new MongoDB subscriber repository
func NewSubscriberRepository(logger *slog.Logger, db *mongo.Database) blog.SubscriberRepository {
	return &SubscriberRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new subscriber after checking the email is not already on
// the list. Returns ErrAlreadySubscribed for duplicates.
func (r *SubscriberRepository) Create(ctx context.Context, s *blog.Subscriber) error {
	collection := r.db.Collection(SubscriberCollectionName)

	existing, err := r.GetByEmail(ctx, s.Email)
	var notFound blog.ErrSubscriberNotFound
	if err != nil && !errors.As(err, &notFound) {
		r.logger.Error("Failed to check for existing subscriber",
			"email", s.Email,
			"error", err)
		return fmt.Errorf("failed to check for existing subscriber: %w", err)
	}

	if existing != nil {
		return blog.ErrAlreadySubscribed{Email: s.Email}
	}

	_, err = collection.InsertOne(ctx, s)
	if err != nil {
		r.logger.Error("Failed to create subscriber",
			"email", s.Email,
			"error", err)
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	return nil
}

// GetByEmail retrieves a subscriber by email.
// Returns ErrSubscriberNotFound if the email is not on the list.
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*blog.Subscriber, error) {
	collection := r.db.Collection(SubscriberCollectionName)

	var s blog.Subscriber
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blog.ErrSubscriberNotFound{Email: email}
		}
		r.logger.Error("Failed to get subscriber",
			"email", email,
			"error", err)
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return &s, nil
}

// DeleteByEmail removes a subscriber from the list.
// Returns ErrSubscriberNotFound if the email is not subscribed.
func (r *SubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	collection := r.db.Collection(SubscriberCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		r.logger.Error("Failed to delete subscriber",
			"email", email,
			"error", err)
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	if result.DeletedCount == 0 {
		return blog.ErrSubscriberNotFound{Email: email}
	}

	return nil
}

// List retrieves every subscriber sorted by subscription time ascending
func (r *SubscriberRepository) List(ctx context.Context) ([]*blog.Subscriber, error) {
	collection := r.db.Collection(SubscriberCollectionName)

	opts := options.Find().SetSort(bson.M{"subscribed_at": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list subscribers", "error", err)
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	subscribers := []*blog.Subscriber{}
	if err := cursor.All(ctx, &subscribers); err != nil {
		r.logger.Error("Failed to decode subscribers", "error", err)
		return nil, fmt.Errorf("failed to decode subscribers: %w", err)
	}

	return subscribers, nil
}
