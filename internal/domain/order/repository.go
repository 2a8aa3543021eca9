package order

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository defines order persistence operations
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Order, error)

	// GetByBuyer returns the buyer's orders sorted by creation time descending
	GetByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*Order, error)

	// List returns all orders sorted by creation time descending
	List(ctx context.Context) ([]*Order, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status) (*Order, error)

	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ErrOrderNotFound indicates a missing order
type ErrOrderNotFound struct {
	OrderID primitive.ObjectID
}

func (e ErrOrderNotFound) Error() string {
	return "order not found: " + e.OrderID.Hex()
}

// Is implements errors.Is matching; a target with a zero id matches any
// ErrOrderNotFound.
func (e ErrOrderNotFound) Is(target error) bool {
	t, ok := target.(ErrOrderNotFound)
	if !ok {
		return false
	}
	if t.OrderID.IsZero() {
		return true
	}
	return e.OrderID == t.OrderID
}
