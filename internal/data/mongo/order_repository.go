package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/order"
)

const (
	// OrderCollectionName is the name of the order collection in MongoDB
	OrderCollectionName = "orders"
)

// OrderRepository implements the order.Repository interface for MongoDB
type OrderRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewOrderRepository creates a new MongoDB order repository
func NewOrderRepository(logger *slog.Logger, db *mongo.Database) order.Repository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new order
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	collection := r.db.Collection(OrderCollectionName)

	_, err := collection.InsertOne(ctx, o)
	if err != nil {
		r.logger.Error("Failed to create order",
			"buyer_id", o.BuyerID.String(),
			"error", err)
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its id.
// Returns ErrOrderNotFound if no order exists with the given id.
func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*order.Order, error) {
	collection := r.db.Collection(OrderCollectionName)

	var o order.Order
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to get order",
			"order_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &o, nil
}

// GetByBuyer retrieves the buyer's orders sorted by creation time descending
func (r *OrderRepository) GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*order.Order, error) {
	return r.find(ctx, bson.M{"buyer_id": buyerID})
}

// List retrieves all orders sorted by creation time descending
func (r *OrderRepository) List(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*order.Order, error) {
	collection := r.db.Collection(OrderCollectionName)

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query orders", "error", err)
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*order.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		r.logger.Error("Failed to decode orders", "error", err)
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves the order to a new fulfilment status and returns the
// updated document.
// Returns ErrOrderNotFound if the order doesn't exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status order.Status) (*order.Order, error) {
	collection := r.db.Collection(OrderCollectionName)

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o order.Order
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to update order status",
			"order_id", id.Hex(),
			"status", string(status),
			"error", err)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &o, nil
}

// Delete removes an order.
// Returns ErrOrderNotFound if the order doesn't exist.
func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := r.db.Collection(OrderCollectionName)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete order",
			"order_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return order.ErrOrderNotFound{OrderID: id}
	}

	return nil
}
