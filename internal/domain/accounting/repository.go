package accounting

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountRepository defines chart-of-accounts persistence operations
type AccountRepository interface {
	Create(ctx context.Context, acc *Account) error

	// List returns every account sorted by name ascending. The chart of
	// accounts is expected to stay small, so there is no pagination.
	List(ctx context.Context) ([]*Account, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*Account, error)

	// FindByIDs returns the accounts whose ids appear in the given set.
	// Unknown ids are silently absent from the result.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Account, error)
}

// TransactionRepository manages ledger transaction persistence
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error

	// GetPage returns transactions sorted by creation time descending using
	// skip/limit pagination.
	GetPage(ctx context.Context, limit, offset int) ([]*Transaction, error)

	// GetByAccountAndDateRange returns transactions referencing the account on
	// either side whose date falls within [start, end] inclusive, sorted by
	// date ascending.
	GetByAccountAndDateRange(ctx context.Context, accountID primitive.ObjectID, start, end time.Time) ([]*Transaction, error)

	// DeleteByOrderID removes the single transaction linked to an order.
	// Returns ErrTransactionNotFound when no transaction carries the order id.
	DeleteByOrderID(ctx context.Context, orderID primitive.ObjectID) error

	Count(ctx context.Context) (int64, error)
}

// ErrAccountNotFound indicates a missing chart-of-accounts entry
type ErrAccountNotFound struct {
	AccountID primitive.ObjectID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.Hex()
}

// Is implements errors.Is matching; a target with a zero id matches any
// ErrAccountNotFound.
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID.IsZero() {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrUnknownAccountIDs indicates a transaction referencing account ids that
// do not exist in the registry.
type ErrUnknownAccountIDs struct{}

func (e ErrUnknownAccountIDs) Error() string {
	return "one or more account IDs are invalid"
}

// ErrTransactionNotFound indicates a missing ledger transaction
type ErrTransactionNotFound struct {
	OrderID primitive.ObjectID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found for order: " + e.OrderID.Hex()
}

// Is implements errors.Is matching; a target with a zero order id matches any
// ErrTransactionNotFound.
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.OrderID.IsZero() {
		return true
	}
	return e.OrderID == t.OrderID
}
