package blog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository defines blog post persistence operations
type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// List returns posts sorted by creation time descending; limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]*Post, error)
}

// SubscriberRepository defines newsletter subscriber persistence operations
type SubscriberRepository interface {
	Create(ctx context.Context, s *Subscriber) error
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]*Subscriber, error)
}

// ErrPostNotFound indicates a missing blog post
type ErrPostNotFound struct {
	PostID primitive.ObjectID
}

func (e ErrPostNotFound) Error() string {
	return "blog post not found: " + e.PostID.Hex()
}

// Is implements errors.Is matching; a target with a zero id matches any
// ErrPostNotFound.
func (e ErrPostNotFound) Is(target error) bool {
	t, ok := target.(ErrPostNotFound)
	if !ok {
		return false
	}
	if t.PostID.IsZero() {
		return true
	}
	return e.PostID == t.PostID
}

// ErrSubscriberNotFound indicates the email is not on the newsletter list
type ErrSubscriberNotFound struct {
	Email string
}

func (e ErrSubscriberNotFound) Error() string {
	return "subscriber not found: " + e.Email
}

// ErrAlreadySubscribed indicates the email is already on the newsletter list
type ErrAlreadySubscribed struct {
	Email string
}

func (e ErrAlreadySubscribed) Error() string {
	return "email already subscribed: " + e.Email
}
