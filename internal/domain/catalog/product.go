package catalog

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyProductName = errors.New("product name cannot be empty")
	ErrEmptyDescription = errors.New("product description cannot be empty")
	ErrInvalidPrice     = errors.New("selling price must be positive")
	ErrInvalidQuantity  = errors.New("quantity cannot be negative")
	ErrMissingCategory  = errors.New("product category is required")
)

// Photo is a hosted product image reference
type Photo struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

// Product is a catalog entry
type Product struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Slug          string             `json:"slug" bson:"slug"`
	Description   string             `json:"description" bson:"description"`
	SellingPrice  float64            `json:"selling_price" bson:"selling_price"`
	OriginalPrice float64            `json:"original_price,omitempty" bson:"original_price,omitempty"`
	CategoryID    primitive.ObjectID `json:"category_id" bson:"category_id"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Photos        []Photo            `json:"photos" bson:"photos"`
	Colors        []string           `json:"colors,omitempty" bson:"colors,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewProduct creates a product with a slug derived from the name
func NewProduct(name, description string, sellingPrice, originalPrice float64, categoryID primitive.ObjectID, quantity int, colors []string) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyProductName
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if sellingPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if categoryID.IsZero() {
		return nil, ErrMissingCategory
	}

	now := time.Now()
	return &Product{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Slug:          Slugify(name),
		Description:   description,
		SellingPrice:  sellingPrice,
		OriginalPrice: originalPrice,
		CategoryID:    categoryID,
		Quantity:      quantity,
		Colors:        colors,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// PriceRange bounds a product filter query; Max <= 0 means unbounded above
type PriceRange struct {
	Min float64
	Max float64
}
