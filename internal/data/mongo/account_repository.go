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

	"github.com/shopstack-backend/internal/domain/accounting"
)

const (
	// AccountCollectionName is the name of the chart-of-accounts collection in MongoDB
	AccountCollectionName = "accounts"
)

// AccountRepository implements the accounting.AccountRepository interface for MongoDB
type AccountRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAccountRepository creates a new MongoDB account repository
func NewAccountRepository(logger *slog.Logger, db *mongo.Database) accounting.AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new chart-of-accounts entry
func (r *AccountRepository) Create(ctx context.Context, acc *accounting.Account) error {
	collection := r.db.Collection(AccountCollectionName)

	_, err := collection.InsertOne(ctx, acc)
	if err != nil {
		r.logger.Error("Failed to create account",
			"name", acc.Name,
			"error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// List retrieves every account sorted by name ascending. The chart of
// accounts stays small, so no pagination is applied.
func (r *AccountRepository) List(ctx context.Context) ([]*accounting.Account, error) {
	collection := r.db.Collection(AccountCollectionName)

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*accounting.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		r.logger.Error("Failed to decode accounts", "error", err)
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	return accounts, nil
}

// GetByID retrieves an account by its id.
// Returns ErrAccountNotFound if no account exists with the given id.
func (r *AccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*accounting.Account, error) {
	collection := r.db.Collection(AccountCollectionName)

	filter := bson.M{"_id": id}
	var acc accounting.Account
	err := collection.FindOne(ctx, filter).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accounting.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account",
			"account_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// FindByIDs retrieves the accounts whose ids appear in the given set.
// Unknown ids are silently absent from the result, which lets callers detect
// invalid references by comparing lengths.
func (r *AccountRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*accounting.Account, error) {
	collection := r.db.Collection(AccountCollectionName)

	filter := bson.M{"_id": bson.M{"$in": ids}}
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to find accounts by ids",
			"count", len(ids),
			"error", err)
		return nil, fmt.Errorf("failed to find accounts by ids: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*accounting.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		r.logger.Error("Failed to decode accounts", "error", err)
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	return accounts, nil
}
