package blog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopstack-backend/internal/domain/catalog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyTitle   = errors.New("blog title is required")
	ErrEmptyContent = errors.New("blog content is required")
	ErrMissingPhoto = errors.New("blog photo is required")
)

// Photo is a hosted cover image reference
type Photo struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

// Reply is a nested response to a comment
type Reply struct {
	UserID    uuid.UUID   `json:"user_id" bson:"user_id"`
	Text      string      `json:"text" bson:"text"`
	Likes     []uuid.UUID `json:"likes" bson:"likes"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// Comment is embedded in its post rather than stored separately
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uuid.UUID          `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	Likes     []uuid.UUID        `json:"likes" bson:"likes"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Post is a blog entry with embedded comments and like references
type Post struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Slug      string             `json:"slug" bson:"slug"`
	Content   string             `json:"content" bson:"content"`
	Photo     Photo              `json:"photo" bson:"photo"`
	Likes     []uuid.UUID        `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// NewPost creates a blog post with a slug derived from the title
func NewPost(title, content string, photo Photo) (*Post, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if photo.URL == "" {
		return nil, ErrMissingPhoto
	}

	now := time.Now()
	return &Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      catalog.Slugify(title),
		Content:   content,
		Photo:     photo,
		Likes:     []uuid.UUID{},
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ToggleLike adds the user's like, or removes it when already present.
// Returns the resulting like count.
func (p *Post) ToggleLike(userID uuid.UUID) int {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return len(p.Likes)
		}
	}
	p.Likes = append(p.Likes, userID)
	return len(p.Likes)
}
