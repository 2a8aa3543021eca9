package catalog

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// Category groups products for browsing and filtering
type Category struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
	Slug string             `json:"slug" bson:"slug"`
}

// NewCategory creates a category, deriving the slug from the name
func NewCategory(name string) (*Category, error) {
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	return &Category{
		ID:   primitive.NewObjectID(),
		Name: name,
		Slug: Slugify(name),
	}, nil
}

// Slugify lowercases the input and replaces whitespace runs with hyphens,
// stripping characters outside [a-z0-9-].
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // Suppress leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
