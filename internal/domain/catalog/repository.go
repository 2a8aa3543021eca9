package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository defines category persistence operations
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository defines product persistence operations
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)

	// List returns all products sorted by creation time descending
	List(ctx context.Context) ([]*Product, error)

	// GetPage returns products sorted by creation time descending using
	// skip/limit pagination.
	GetPage(ctx context.Context, limit, offset int) ([]*Product, error)

	Count(ctx context.Context) (int64, error)

	// Search matches the keyword case-insensitively against name and
	// description.
	Search(ctx context.Context, keyword string) ([]*Product, error)

	// Related returns up to limit products sharing the category, excluding
	// the product itself.
	Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int) ([]*Product, error)

	GetByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*Product, error)

	// Filter selects products by category membership and price range; empty
	// categories or a nil price range leave that dimension unconstrained.
	Filter(ctx context.Context, categories []primitive.ObjectID, price *PriceRange) ([]*Product, error)

	// AdjustQuantity atomically increments the stored quantity by delta
	// (negative to decrement). Returns ErrProductNotFound for unknown ids.
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) error
}

// ErrProductNotFound indicates a missing product
type ErrProductNotFound struct {
	ProductID primitive.ObjectID
}

func (e ErrProductNotFound) Error() string {
	return "product not found: " + e.ProductID.Hex()
}

// Is implements errors.Is matching; a target with a zero id matches any
// ErrProductNotFound.
func (e ErrProductNotFound) Is(target error) bool {
	t, ok := target.(ErrProductNotFound)
	if !ok {
		return false
	}
	if t.ProductID.IsZero() {
		return true
	}
	return e.ProductID == t.ProductID
}

// ErrCategoryNotFound indicates a missing category
type ErrCategoryNotFound struct {
	Slug string
}

func (e ErrCategoryNotFound) Error() string {
	return "category not found: " + e.Slug
}
