// Package imaging abstracts the hosted image provider used for product and
// blog photos.
package imaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrEmptyImage = errors.New("image payload is empty")

// Upload is a hosted image reference returned by the provider
type Upload struct {
	URL      string
	PublicID string
}

// Store hosts images. Implementations wrap a CDN or object storage provider.
type Store interface {
	// Upload stores the image payload (a data URI or raw base64 string) and
	// returns its hosted location.
	Upload(ctx context.Context, payload string, folder string) (*Upload, error)

	// Delete removes a hosted image by its public id. Deleting an unknown id
	// is not an error.
	Delete(ctx context.Context, publicID string) error
}

// LocalStore fabricates stable references without hosting anything. It stands
// in for a real provider in development and tests.
type LocalStore struct {
	baseURL string
}

// NewLocalStore creates a local store serving from the given base URL
func NewLocalStore(baseURL string) *LocalStore {
	return &LocalStore{baseURL: baseURL}
}

func (s *LocalStore) Upload(ctx context.Context, payload string, folder string) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, ErrEmptyImage
	}

	publicID := folder + "/" + uuid.NewString()
	return &Upload{
		URL:      fmt.Sprintf("%s/%s", s.baseURL, publicID),
		PublicID: publicID,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	return ctx.Err()
}
