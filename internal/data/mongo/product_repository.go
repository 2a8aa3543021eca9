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

	"github.com/shopstack-backend/internal/domain/catalog"
)

const (
	// ProductCollectionName is the name of the product collection in MongoDB
	ProductCollectionName = "products"
)

// ProductRepository implements the catalog.ProductRepository interface for MongoDB
type ProductRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewProductRepository creates a new MongoDB product repository
func NewProductRepository(logger *slog.Logger, db *mongo.Database) catalog.ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new product
func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	collection := r.db.Collection(ProductCollectionName)

	_, err := collection.InsertOne(ctx, p)
	if err != nil {
		r.logger.Error("Failed to create product",
			"name", p.Name,
			"error", err)
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the product's mutable fields.
// Returns ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	collection := r.db.Collection(ProductCollectionName)

	filter := bson.M{"_id": p.ID}
	update := bson.M{
		"$set": bson.M{
			"name":           p.Name,
			"slug":           p.Slug,
			"description":    p.Description,
			"selling_price":  p.SellingPrice,
			"original_price": p.OriginalPrice,
			"category_id":    p.CategoryID,
			"quantity":       p.Quantity,
			"photos":         p.Photos,
			"colors":         p.Colors,
			"updated_at":     time.Now(),
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update product",
			"product_id", p.ID.Hex(),
			"error", err)
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalog.ErrProductNotFound{ProductID: p.ID}
	}

	return nil
}

// Delete removes a product.
// Returns ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(ProductCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete product",
			"product_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return catalog.ErrProductNotFound{ProductID: id}
	}

	return nil
}

// GetByID retrieves a product by its id.
// Returns ErrProductNotFound if no product exists with the given id.
func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	collection := r.db.Collection(ProductCollectionName)

	var p catalog.Product
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrProductNotFound{ProductID: id}
		}
		r.logger.Error("Failed to get product",
			"product_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// GetBySlug retrieves a product by its slug.
// Returns ErrProductNotFound if no product carries the slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	collection := r.db.Collection(ProductCollectionName)

	var p catalog.Product
	err := collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalog.ErrProductNotFound{}
		}
		r.logger.Error("Failed to get product by slug",
			"slug", slug,
			"error", err)
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}

	return &p, nil
}

// List retrieves all products sorted by creation time descending
func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	return r.find(ctx, bson.M{}, opts)
}

// GetPage retrieves paginated products sorted by creation time descending
func (r *ProductRepository) GetPage(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// Count counts the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(ProductCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count products", "error", err)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Search matches the keyword case-insensitively against product name and
// description.
func (r *ProductRepository) Search(ctx context.Context, keyword string) ([]*catalog.Product, error) {
	pattern := primitive.Regex{Pattern: keyword, Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"name": pattern},
			{"description": pattern},
		},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
}

// Related retrieves up to limit products sharing the category, excluding the
// product itself.
func (r *ProductRepository) Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int) ([]*catalog.Product, error) {
	filter := bson.M{
		"category_id": categoryID,
		"_id":         bson.M{"$ne": productID},
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

// GetByCategory retrieves the products in a category sorted by creation time
// descending.
func (r *ProductRepository) GetByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*catalog.Product, error) {
	filter := bson.M{"category_id": categoryID}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
}

// Filter selects products by category membership and selling price range.
// Empty categories or a nil price range leave that dimension unconstrained.
func (r *ProductRepository) Filter(ctx context.Context, categories []primitive.ObjectID, price *catalog.PriceRange) ([]*catalog.Product, error) {
	filter := bson.M{}
	if len(categories) > 0 {
		filter["category_id"] = bson.M{"$in": categories}
	}
	if price != nil {
		bounds := bson.M{"$gte": price.Min}
		if price.Max > 0 {
			bounds["$lte"] = price.Max
		}
		filter["selling_price"] = bounds
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
}

// AdjustQuantity atomically increments the stored quantity by delta.
// Returns ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) error {
	collection := r.db.Collection(ProductCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to adjust product quantity",
			"product_id", id.Hex(),
			"delta", delta,
			"error", err)
		return fmt.Errorf("failed to adjust product quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalog.ErrProductNotFound{ProductID: id}
	}

	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*catalog.Product, error) {
	collection := r.db.Collection(ProductCollectionName)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query products", "error", err)
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*catalog.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		r.logger.Error("Failed to decode products", "error", err)
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}
