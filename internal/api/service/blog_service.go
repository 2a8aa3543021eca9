package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/blog"
	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/domain/shared"
	"github.com/shopstack-backend/internal/platform/imaging"
	"github.com/shopstack-backend/internal/platform/messaging/producers"
)

const (
	blogPhotoFolder  = "blog"
	latestPostsLimit = 4
)

// BlogServiceImpl implements the BlogService interface
type BlogServiceImpl struct {
	postRepo       blog.PostRepository
	subscriberRepo blog.SubscriberRepository
	images         imaging.Store
	producer       producers.MessagePublisher
	batchSize      int
	logger         *slog.Logger
}

// NewBlogService creates a new blog service. batchSize caps the recipients
// per newsletter mail event.
func NewBlogService(logger *slog.Logger, postRepo blog.PostRepository, subscriberRepo blog.SubscriberRepository, images imaging.Store, producer producers.MessagePublisher, batchSize int) BlogService {
	return &BlogServiceImpl{
		postRepo:       postRepo,
		subscriberRepo: subscriberRepo,
		images:         images,
		producer:       producer,
		batchSize:      batchSize,
		logger:         logger,
	}
}

// CreatePost hosts the cover photo, persists the post, and fans the
// newsletter out to subscribers. Fan-out failures are logged, not returned:
// the post exists regardless.
func (s *BlogServiceImpl) CreatePost(ctx context.Context, title, content, photo, correlationID string) (*blog.Post, error) {
	upload, err := s.images.Upload(ctx, photo, blogPhotoFolder)
	if err != nil {
		return nil, err
	}

	p, err := blog.NewPost(title, content, blog.Photo{URL: upload.URL, PublicID: upload.PublicID})
	if err != nil {
		if delErr := s.images.Delete(ctx, upload.PublicID); delErr != nil {
			s.logger.Error("Failed to remove orphaned blog photo",
				"public_id", upload.PublicID,
				"error", delErr)
		}
		return nil, err
	}

	if err := s.postRepo.Create(ctx, p); err != nil {
		if delErr := s.images.Delete(ctx, upload.PublicID); delErr != nil {
			s.logger.Error("Failed to remove orphaned blog photo",
				"public_id", upload.PublicID,
				"error", delErr)
		}
		return nil, err
	}

	if err := s.fanOutNewsletter(ctx, p, correlationID); err != nil {
		s.logger.Error("Newsletter fan-out failed",
			"post_id", p.ID.Hex(),
			"error", err)
	}

	return p, nil
}

// fanOutNewsletter enqueues one mail event per subscriber batch
func (s *BlogServiceImpl) fanOutNewsletter(ctx context.Context, p *blog.Post, correlationID string) error {
	subscribers, err := s.subscriberRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(subscribers) == 0 {
		return nil
	}

	excerpt := p.Content
	if len(excerpt) > 200 {
		excerpt = excerpt[:200] + "..."
	}

	for start := 0; start < len(subscribers); start += s.batchSize {
		end := start + s.batchSize
		if end > len(subscribers) {
			end = len(subscribers)
		}

		to := make([]string, 0, end-start)
		for _, sub := range subscribers[start:end] {
			to = append(to, sub.Email)
		}

		event, err := shared.NewMailEvent(shared.MailKindNewsletter, to, map[string]string{
			"title":   p.Title,
			"excerpt": excerpt,
			"url":     "/blogs/" + p.Slug,
		}, correlationID)
		if err != nil {
			return err
		}

		if err := s.producer.Publish(ctx, event.EventID.String(), event); err != nil {
			return err
		}
	}

	s.logger.Info("Newsletter fan-out enqueued",
		"post_id", p.ID.Hex(),
		"subscribers", len(subscribers))

	return nil
}

// UpdatePost edits a post, replacing the hosted photo when a new payload is
// supplied.
func (s *BlogServiceImpl) UpdatePost(ctx context.Context, id primitive.ObjectID, title, content, photo string) (*blog.Post, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		p.Title = title
		p.Slug = catalog.Slugify(title)
	}
	if content != "" {
		p.Content = content
	}

	if photo != "" {
		upload, err := s.images.Upload(ctx, photo, blogPhotoFolder)
		if err != nil {
			return nil, err
		}
		if p.Photo.PublicID != "" {
			if err := s.images.Delete(ctx, p.Photo.PublicID); err != nil {
				s.logger.Error("Failed to remove replaced blog photo",
					"public_id", p.Photo.PublicID,
					"error", err)
			}
		}
		p.Photo = blog.Photo{URL: upload.URL, PublicID: upload.PublicID}
	}

	p.UpdatedAt = time.Now()
	if err := s.postRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePost removes a post and its hosted photo
func (s *BlogServiceImpl) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if p.Photo.PublicID != "" {
		if err := s.images.Delete(ctx, p.Photo.PublicID); err != nil {
			s.logger.Error("Failed to remove deleted post's photo",
				"public_id", p.Photo.PublicID,
				"error", err)
		}
	}

	return nil
}

// GetPostBySlug retrieves a post by slug
func (s *BlogServiceImpl) GetPostBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

// ListPosts returns all posts, newest first
func (s *BlogServiceImpl) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	return s.postRepo.List(ctx, 0)
}

// LatestPosts returns the four most recent posts
func (s *BlogServiceImpl) LatestPosts(ctx context.Context) ([]*blog.Post, error) {
	return s.postRepo.List(ctx, latestPostsLimit)
}

// AddComment appends a comment to the post
func (s *BlogServiceImpl) AddComment(ctx context.Context, postID primitive.ObjectID, userID uuid.UUID, text string) (*blog.Post, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	p.Comments = append(p.Comments, blog.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		Likes:     []uuid.UUID{},
		Replies:   []blog.Reply{},
		CreatedAt: time.Now(),
	})

	if err := s.postRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ToggleLike flips the user's like on the post and returns the new count
func (s *BlogServiceImpl) ToggleLike(ctx context.Context, postID primitive.ObjectID, userID uuid.UUID) (int, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}

	count := p.ToggleLike(userID)
	if err := s.postRepo.Update(ctx, p); err != nil {
		return 0, err
	}

	return count, nil
}

// Subscribe adds the email to the newsletter list
func (s *BlogServiceImpl) Subscribe(ctx context.Context, email string) error {
	sub, err := blog.NewSubscriber(email)
	if err != nil {
		return err
	}
	return s.subscriberRepo.Create(ctx, sub)
}

// Unsubscribe removes the email from the newsletter list
func (s *BlogServiceImpl) Unsubscribe(ctx context.Context, email string) error {
	return s.subscriberRepo.DeleteByEmail(ctx, email)
}
