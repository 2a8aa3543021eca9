package service

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/content"
)

// ContentServiceImpl implements the ContentService interface
type ContentServiceImpl struct {
	slideRepo content.Repository
	logger    *slog.Logger
}

// NewContentService creates a new content service
func NewContentService(logger *slog.Logger, slideRepo content.Repository) ContentService {
	return &ContentServiceImpl{
		slideRepo: slideRepo,
		logger:    logger,
	}
}

// ListSlides returns the carousel slides in display order
func (s *ContentServiceImpl) ListSlides(ctx context.Context) ([]*content.Slide, error) {
	return s.slideRepo.List(ctx)
}

// AddSlide stores a slide unless the carousel cap is reached
func (s *ContentServiceImpl) AddSlide(ctx context.Context, title, subtitle, description, image string) (*content.Slide, error) {
	count, err := s.slideRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= content.MaxSlides {
		return nil, content.ErrSlideLimit
	}

	slide, err := content.NewSlide(title, subtitle, description, image)
	if err != nil {
		return nil, err
	}

	if err := s.slideRepo.Create(ctx, slide); err != nil {
		return nil, err
	}

	return slide, nil
}

// DeleteSlide removes a slide
func (s *ContentServiceImpl) DeleteSlide(ctx context.Context, id primitive.ObjectID) error {
	return s.slideRepo.Delete(ctx, id)
}
