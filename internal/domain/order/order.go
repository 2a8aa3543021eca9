package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyCart     = errors.New("order must contain at least one item")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Status tracks an order through fulfilment
type Status string

const (
	StatusPendingConfirmation Status = "Pending Confirmation"
	StatusProcessing          Status = "Processing"
	StatusReadyToShip         Status = "Ready to Ship"
	StatusInTransit           Status = "In Transit"
	StatusDelivered           Status = "Delivered"
	StatusCancelled           Status = "Cancelled"
)

// Valid reports whether the status is one of the known fulfilment states
func (s Status) Valid() bool {
	switch s {
	case StatusPendingConfirmation, StatusProcessing, StatusReadyToShip,
		StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is a purchased product line within an order
type Item struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Payment records how an order was settled. Method is "cod" for cash on
// delivery; gateway payments carry the gateway's reference.
type Payment struct {
	Method    string `json:"method" bson:"method"`
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`
	Success   bool   `json:"success" bson:"success"`
}

// Order is a buyer's purchase
type Order struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Items     []Item             `json:"items" bson:"items"`
	Payment   Payment            `json:"payment" bson:"payment"`
	BuyerID   uuid.UUID          `json:"buyer_id" bson:"buyer_id"`
	Status    Status             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewOrder creates an order in the Pending Confirmation state
func NewOrder(items []Item, payment Payment, buyerID uuid.UUID) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	return &Order{
		ID:        primitive.NewObjectID(),
		Items:     items,
		Payment:   payment,
		BuyerID:   buyerID,
		Status:    StatusPendingConfirmation,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Total sums the order's line totals
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
