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

	"github.com/shopstack-backend/internal/domain/inventory"
)

const (
	// InventoryCollectionName is the name of the inventory collection in MongoDB
	InventoryCollectionName = "inventory_items"
)

// InventoryRepository implements the inventory.Repository interface for MongoDB
type InventoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new MongoDB inventory repository
func NewInventoryRepository(logger *slog.Logger, db *mongo.Database) inventory.Repository {
	return &InventoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new stock record
func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	collection := r.db.Collection(InventoryCollectionName)

	_, err := collection.InsertOne(ctx, item)
	if err != nil {
		r.logger.Error("Failed to create inventory item",
			"product_name", item.ProductName,
			"error", err)
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

// GetByID retrieves a stock record by its id.
// Returns ErrItemNotFound if no record exists with the given id.
func (r *InventoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*inventory.Item, error) {
	collection := r.db.Collection(InventoryCollectionName)

	var item inventory.Item
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventory.ErrItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to get inventory item",
			"item_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return &item, nil
}

// List retrieves all stock records sorted by date descending
func (r *InventoryRepository) List(ctx context.Context) ([]*inventory.Item, error) {
	collection := r.db.Collection(InventoryCollectionName)

	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list inventory items", "error", err)
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*inventory.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		r.logger.Error("Failed to decode inventory items", "error", err)
		return nil, fmt.Errorf("failed to decode inventory items: %w", err)
	}

	return items, nil
}

// Update replaces the record's mutable fields.
// Returns ErrItemNotFound if the record doesn't exist.
func (r *InventoryRepository) Update(ctx context.Context, item *inventory.Item) error {
	collection := r.db.Collection(InventoryCollectionName)

	filter := bson.M{"_id": item.ID}
	update := bson.M{
		"$set": bson.M{
			"date":               item.Date,
			"product_name":       item.ProductName,
			"supplier":           item.Supplier,
			"barcode":            item.Barcode,
			"initial_qty":        item.InitialQty,
			"current_qty":        item.CurrentQty,
			"purchase_rate":      item.PurchaseRate,
			"cpp":                item.CPP,
			"cfp":                item.CFP,
			"sale_rate":          item.SaleRate,
			"profit_per_product": item.ProfitPerProduct,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to update inventory item",
			"item_id", item.ID.Hex(),
			"error", err)
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	if result.MatchedCount == 0 {
		return inventory.ErrItemNotFound{ItemID: item.ID}
	}

	return nil
}

// Delete removes a stock record.
// Returns ErrItemNotFound if the record doesn't exist.
func (r *InventoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(InventoryCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete inventory item",
			"item_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	if result.DeletedCount == 0 {
		return inventory.ErrItemNotFound{ItemID: id}
	}

	return nil
}

// AdjustQuantity atomically increments current_qty by delta.
// Returns ErrItemNotFound if the record doesn't exist.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) error {
	collection := r.db.Collection(InventoryCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{"$inc": bson.M{"current_qty": delta}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error("Failed to adjust inventory quantity",
			"item_id", id.Hex(),
			"delta", delta,
			"error", err)
		return fmt.Errorf("failed to adjust inventory quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return inventory.ErrItemNotFound{ItemID: id}
	}

	return nil
}
