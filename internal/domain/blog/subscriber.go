package blog

import (
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidEmail = errors.New("invalid email format")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Subscriber is a newsletter recipient
type Subscriber struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	SubscribedAt time.Time          `json:"subscribed_at" bson:"subscribed_at"`
}

// NewSubscriber creates a subscriber after syntactic email validation
func NewSubscriber(email string) (*Subscriber, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	return &Subscriber{
		ID:           primitive.NewObjectID(),
		Email:        email,
		SubscribedAt: time.Now(),
	}, nil
}
