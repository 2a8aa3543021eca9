package content

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxSlides caps the home page carousel
const MaxSlides = 3

var (
	ErrEmptySlideTitle = errors.New("slide title is required")
	ErrSlideLimit      = errors.New("slide limit reached")
)

// Slide is a home page carousel entry
type Slide struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Subtitle    string             `json:"subtitle,omitempty" bson:"subtitle,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Image       string             `json:"image" bson:"image"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// NewSlide creates a carousel entry
func NewSlide(title, subtitle, description, image string) (*Slide, error) {
	if title == "" {
		return nil, ErrEmptySlideTitle
	}
	return &Slide{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Subtitle:    subtitle,
		Description: description,
		Image:       image,
		CreatedAt:   time.Now(),
	}, nil
}

// Repository defines slide persistence operations
type Repository interface {
	Create(ctx context.Context, s *Slide) error
	List(ctx context.Context) ([]*Slide, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ErrSlideNotFound indicates a missing slide
type ErrSlideNotFound struct {
	SlideID primitive.ObjectID
}

func (e ErrSlideNotFound) Error() string {
	return "slide not found: " + e.SlideID.Hex()
}
