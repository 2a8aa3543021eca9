package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidStars = errors.New("stars must be between 1 and 5")
	ErrEmptyText    = errors.New("review text is required")
)

// Review is a buyer's product rating tied to the order it was purchased in,
// so each purchase can be reviewed at most once.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uuid.UUID          `json:"user_id" bson:"user_id"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	OrderID   primitive.ObjectID `json:"order_id" bson:"order_id"`
	Stars     int                `json:"stars" bson:"stars"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// NewReview creates a review, validating the star range and text presence
func NewReview(userID uuid.UUID, productID, orderID primitive.ObjectID, stars int, text string) (*Review, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidStars
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	return &Review{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ProductID: productID,
		OrderID:   orderID,
		Stars:     stars,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}

// Repository defines review persistence operations
type Repository interface {
	Create(ctx context.Context, r *Review) error

	// Exists reports whether the (product, order, user) triple has already
	// been reviewed.
	Exists(ctx context.Context, productID, orderID primitive.ObjectID, userID uuid.UUID) (bool, error)

	GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*Review, error)
}
