package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines user persistence operations. The wishlist stores product
// ids as hex strings referencing catalog documents.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail returns nil, nil when no user carries the email
	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	List(ctx context.Context) ([]*User, error)

	AddWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error
	RemoveWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ErrUserNotFound indicates a missing user
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

// Is implements errors.Is matching; a target with a nil id matches any
// ErrUserNotFound.
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrDuplicateEmail indicates email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "user with email already exists: " + e.Email
}

// ErrDuplicateWishlistItem indicates the product is already wishlisted
type ErrDuplicateWishlistItem struct {
	ProductID string
}

func (e ErrDuplicateWishlistItem) Error() string {
	return "product already in wishlist: " + e.ProductID
}

// Is implements errors.Is matching; a target with an empty product id
// matches any ErrDuplicateWishlistItem.
func (e ErrDuplicateWishlistItem) Is(target error) bool {
	t, ok := target.(ErrDuplicateWishlistItem)
	if !ok {
		return false
	}
	if t.ProductID == "" {
		return true
	}
	return e.ProductID == t.ProductID
}
