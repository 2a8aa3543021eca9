package inventory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository defines inventory persistence operations
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Item, error)

	// List returns all items sorted by date descending
	List(ctx context.Context) ([]*Item, error)

	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AdjustQuantity atomically increments current_qty by delta (negative to
	// decrement). Returns ErrItemNotFound for unknown ids.
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) error
}

// ErrItemNotFound indicates a missing inventory record
type ErrItemNotFound struct {
	ItemID primitive.ObjectID
}

func (e ErrItemNotFound) Error() string {
	return "inventory item not found: " + e.ItemID.Hex()
}

// Is implements errors.Is matching; a target with a zero id matches any
// ErrItemNotFound.
func (e ErrItemNotFound) Is(target error) bool {
	t, ok := target.(ErrItemNotFound)
	if !ok {
		return false
	}
	if t.ItemID.IsZero() {
		return true
	}
	return e.ItemID == t.ItemID
}
