// Package postgres provides PostgreSQL implementations of the domain repositories.
// User accounts and wishlists are relational while the commerce documents live
// in MongoDB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/persistence"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors
const uniqueViolation = "23505"

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *UserRepository) WithTx(tx pgx.Tx) user.Repository {
	return &UserRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new user. Returns ErrDuplicateEmail if the email is taken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, address, district, country, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Phone,
		u.Address,
		u.District,
		u.Country,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrDuplicateEmail{Email: u.Email}
		}
		r.logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, district, country, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Address,
		&u.District,
		&u.Country,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{UserID: id}
		}
		r.logger.Error("Failed to get user", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email.
// Returns nil, nil when no user carries the email so registration and login
// can distinguish absence from failure.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, district, country, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u user.User
	err := r.querier.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Address,
		&u.District,
		&u.Country,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No user registered with this email
		}
		r.logger.Error("Failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// Update updates the user's profile fields
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, address = $3, district = $4, country = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.querier.Exec(ctx, query,
		u.Name,
		u.Phone,
		u.Address,
		u.District,
		u.Country,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user", "id", u.ID.String(), "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound{UserID: u.ID}
	}

	return nil
}

// UpdatePassword replaces the user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.Error("Failed to update password", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound{UserID: id}
	}

	return nil
}

// List retrieves every user sorted by creation time descending
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, address, district, country, role, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Phone,
			&u.Address,
			&u.District,
			&u.Country,
			&u.Role,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan user", "error", err)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate users", "error", err)
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// AddWishlistItem links a catalog product to the user's wishlist.
// Returns ErrDuplicateWishlistItem if the product is already wishlisted.
func (r *UserRepository) AddWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	query := `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.querier.Exec(ctx, query, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrDuplicateWishlistItem{ProductID: productID}
		}
		r.logger.Error("Failed to add wishlist item",
			"user_id", userID.String(),
			"product_id", productID,
			"error", err)
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// RemoveWishlistItem unlinks a product from the user's wishlist. Removing an
// absent item is not an error.
func (r *UserRepository) RemoveWishlistItem(ctx context.Context, userID uuid.UUID, productID string) error {
	query := `
		DELETE FROM wishlist_items
		WHERE user_id = $1 AND product_id = $2
	`

	_, err := r.querier.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error("Failed to remove wishlist item",
			"user_id", userID.String(),
			"product_id", productID,
			"error", err)
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	return nil
}

// GetWishlist retrieves the user's wishlisted product ids, newest first
func (r *UserRepository) GetWishlist(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT product_id
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY added_at DESC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to get wishlist", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	defer rows.Close()

	productIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			r.logger.Error("Failed to scan wishlist item", "error", err)
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		productIDs = append(productIDs, id)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate wishlist", "error", err)
		return nil, fmt.Errorf("failed to iterate wishlist: %w", err)
	}

	return productIDs, nil
}
