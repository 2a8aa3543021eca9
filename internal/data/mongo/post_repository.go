package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/blog"
)

const (
	// PostCollectionName is the name of the blog post collection in MongoDB
	PostCollectionName = "blog_posts"
)

// PostRepository implements the blog.PostRepository interface for MongoDB
type PostRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewPostRepository creates a new MongoDB blog post repository
func NewPostRepository(logger *slog.Logger, db *mongo.Database) blog.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new blog post
func (r *PostRepository) Create(ctx context.Context, p *blog.Post) error {
	collection := r.db.Collection(PostCollectionName)

	_, err := collection.InsertOne(ctx, p)
	if err != nil {
		r.logger.Error("Failed to create blog post",
			"title", p.Title,
			"error", err)
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// Update replaces the post's content, photo, likes, and comments. Embedded
// comments are written back whole since they live inside the post document.
// Returns ErrPostNotFound if the post doesn't exist.
func (r *PostRepository) Update(ctx context.Context, p *blog.Post) error {
	collection := r.db.Collection(PostCollectionName)

	filter := bson.M{"_id": p.ID}
	update := bson.M{
		"$set": bson.M{
			"title":      p.Title,
			"slug":       p.Slug,
			"content":    p.Content,
			"photo":      p.Photo,
			"likes":      p.Likes,
			"comments":   p.Comments,
			"updated_at": time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update blog post",
			"post_id", p.ID.Hex(),
			"error", err)
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	if result.MatchedCount == 0 {
		return blog.ErrPostNotFound{PostID: p.ID}
	}

	return nil
}

// Delete removes a blog post.
// Returns ErrPostNotFound if the post doesn't exist.
func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(PostCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete blog post",
			"post_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	if result.DeletedCount == 0 {
		return blog.ErrPostNotFound{PostID: id}
	}

	return nil
}

// GetByID retrieves a blog post by its id.
// Returns ErrPostNotFound if no post exists with the given id.
func (r *PostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*blog.Post, error) {
	collection := r.db.Collection(PostCollectionName)

	var p blog.Post
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blog.ErrPostNotFound{PostID: id}
		}
		r.logger.Error("Failed to get blog post",
			"post_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	return &p, nil
}

// GetBySlug retrieves a blog post by its slug.
// Returns ErrPostNotFound if no post carries the slug.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	collection := r.db.Collection(PostCollectionName)

	var p blog.Post
	err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, blog.ErrPostNotFound{}
		}
		r.logger.Error("Failed to get blog post by slug",
			"slug", slug,
			"error", err)
		return nil, fmt.Errorf("failed to get blog post by slug: %w", err)
	}

	return &p, nil
}

// List retrieves blog posts sorted by creation time descending.
// A limit <= 0 returns all posts.
func (r *PostRepository) List(ctx context.Context, limit int) ([]*blog.Post, error) {
	collection := r.db.Collection(PostCollectionName)

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list blog posts", "error", err)
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*blog.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		r.logger.Error("Failed to decode blog posts", "error", err)
		return nil, fmt.Errorf("failed to decode blog posts: %w", err)
	}

	return posts, nil
}
