package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmptyPhone    = errors.New("phone number is required")
)

// Roles. Buyers register with RoleCustomer; admins are promoted out of band.
const (
	RoleCustomer = 0
	RoleAdmin    = 1
)

// User is a registered customer or administrator
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address,omitempty"`
	District     string    `json:"district,omitempty"`
	Country      string    `json:"country,omitempty"`
	Role         int       `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a customer account. The password must already be hashed.
func NewUser(name, email, passwordHash, phone string) (*User, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}
	if phone == "" {
		return nil, ErrEmptyPhone
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        phone,
		Role:         RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsAdmin reports whether the user may access admin-guarded routes
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
