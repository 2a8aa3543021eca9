package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/catalog"
)

const (
	// CategoryCollectionName is the name of the category collection in MongoDB
	CategoryCollectionName = "categories"
)

// CategoryRepository implements the catalog.CategoryRepository interface for MongoDB
type CategoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCategoryRepository creates a new MongoDB category repository
func NewCategoryRepository(logger *slog.Logger, db *mongo.Database) catalog.CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new category
func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	collection := r.db.Collection(CategoryCollectionName)

	_, err := collection.InsertOne(ctx, c)
	if err != nil {
		r.logger.Error("Failed to create category",
			"name", c.Name,
			"error", err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// Update renames a category and refreshes its slug.
// Returns ErrCategoryNotFound if the category doesn't exist.
func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*catalog.Category, error) {
	collection := r.db.Collection(CategoryCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"name": name, "slug": slug}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c catalog.Category
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrCategoryNotFound{Slug: slug}
		}
		r.logger.Error("Failed to update category",
			"category_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &c, nil
}

// List retrieves every category sorted by name ascending
func (r *CategoryRepository) List(ctx context.Context) ([]*catalog.Category, error) {
	collection := r.db.Collection(CategoryCollectionName)

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []*catalog.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		r.logger.Error("Failed to decode categories", "error", err)
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

// GetByName retrieves a category by its exact name.
// Returns ErrCategoryNotFound if no category carries the name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*catalog.Category, error) {
	return r.findOne(ctx, bson.M{"name": name}, name)
}

// GetBySlug retrieves a category by its slug.
// Returns ErrCategoryNotFound if no category carries the slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M, key string) (*catalog.Category, error) {
	collection := r.db.Collection(CategoryCollectionName)

	var c catalog.Category
	err := collection.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrCategoryNotFound{Slug: key}
		}
		r.logger.Error("Failed to get category",
			"key", key,
			"error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

// Delete removes a category.
// Returns ErrCategoryNotFound if the category doesn't exist.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(CategoryCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete category",
			"category_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalog.ErrCategoryNotFound{Slug: id.Hex()}
	}

	return nil
}
