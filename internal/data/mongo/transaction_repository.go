package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack-backend/internal/domain/accounting"
)

const (
	// TransactionCollectionName is the name of the ledger transaction collection in MongoDB
	TransactionCollectionName = "transactions"
)

// TransactionRepository implements the accounting.TransactionRepository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) accounting.TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new ledger transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *accounting.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	_, err := collection.InsertOne(ctx, tx)
	if err != nil {
		r.logger.Error("Failed to create transaction",
			"amount", tx.Amount,
			"error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetPage retrieves paginated transactions.
// Results are sorted by creation time in descending order (newest first).
func (r *TransactionRepository) GetPage(ctx context.Context, limit, offset int) ([]*accounting.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to get transaction page",
			"limit", limit,
			"offset", offset,
			"error", err)
		return nil, fmt.Errorf("failed to get transaction page: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := []*accounting.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode transactions", "error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return transactions, nil
}

// GetByAccountAndDateRange retrieves the transactions that reference the
// account on either the debit or the credit side and whose date falls within
// [start, end] inclusive. Results are sorted by date ascending so the ledger
// reads chronologically.
func (r *TransactionRepository) GetByAccountAndDateRange(ctx context.Context, accountID primitive.ObjectID, start, end time.Time) ([]*accounting.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{
		"$or": []bson.M{
			{"debit_accounts": accountID},
			{"credit_accounts": accountID},
		},
		"date": bson.M{
			"$gte": start,
			"$lte": end,
		},
	}
	opts := options.Find().SetSort(bson.M{"date": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get account ledger",
			"account_id", accountID.Hex(),
			"start", start,
			"end", end,
			"error", err)
		return nil, fmt.Errorf("failed to get account ledger: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := []*accounting.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode transactions",
			"account_id", accountID.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return transactions, nil
}

// DeleteByOrderID removes the transaction linked to an order.
// Returns ErrTransactionNotFound if no transaction carries the order id.
func (r *TransactionRepository) DeleteByOrderID(ctx context.Context, orderID primitive.ObjectID) error {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"order_id": orderID}
	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to delete transaction by order id",
			"order_id", orderID.Hex(),
			"error", err)
		return fmt.Errorf("failed to delete transaction by order id: %w", err)
	}

	if result.DeletedCount == 0 {
		return accounting.ErrTransactionNotFound{OrderID: orderID}
	}

	return nil
}

// Count counts the total number of ledger transactions
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count transactions", "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}
