package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/middleware"
	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/blog"
)

// BlogHandler handles HTTP requests for blog posts and the newsletter
type BlogHandler struct {
	blogService service.BlogService
	logger      *slog.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(logger *slog.Logger, blogService service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      logger,
	}
}

// CreatePost publishes a post and fans the newsletter out to subscribers
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(),
		req.Title, req.Content, req.Photo, middleware.GetCorrelationID(c))
	if err != nil {
		switch {
		case errors.Is(err, blog.ErrEmptyTitle),
			errors.Is(err, blog.ErrEmptyContent),
			errors.Is(err, blog.ErrMissingPhoto):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create post", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, post)
}

// UpdatePost applies an edit to a post
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid post id")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), id, req.Title, req.Content, req.Photo)
	if err != nil {
		var notFound blog.ErrPostNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Post not found")
			return
		}
		h.logger.Error("Failed to update post", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, post)
}

// DeletePost removes a post and its hosted photo
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid post id")
		return
	}

	if err := h.blogService.DeletePost(c.Request.Context(), id); err != nil {
		var notFound blog.ErrPostNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Post not found")
			return
		}
		h.logger.Error("Failed to delete post", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetPostBySlug returns one post
func (h *BlogHandler) GetPostBySlug(c *gin.Context) {
	post, err := h.blogService.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		var notFound blog.ErrPostNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Post not found")
			return
		}
		h.logger.Error("Failed to get post", "slug", c.Param("slug"), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, post)
}

// ListPosts returns every post, newest first
func (h *BlogHandler) ListPosts(c *gin.Context) {
	posts, err := h.blogService.ListPosts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list posts", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, posts)
}

// LatestPosts returns the most recent posts for the home page
func (h *BlogHandler) LatestPosts(c *gin.Context) {
	posts, err := h.blogService.LatestPosts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get latest posts", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, posts)
}

// AddComment appends a comment to a post
func (h *BlogHandler) AddComment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid post id")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	post, err := h.blogService.AddComment(c.Request.Context(), id, middleware.GetUserID(c), req.Text)
	if err != nil {
		var notFound blog.ErrPostNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Post not found")
			return
		}
		h.logger.Error("Failed to add comment", "post_id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, post)
}

// ToggleLike flips the caller's like on a post
func (h *BlogHandler) ToggleLike(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid post id")
		return
	}

	likes, err := h.blogService.ToggleLike(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		var notFound blog.ErrPostNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Post not found")
			return
		}
		h.logger.Error("Failed to toggle like", "post_id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"likes": likes})
}

// Subscribe adds an email to the newsletter list
func (h *BlogHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.blogService.Subscribe(c.Request.Context(), req.Email); err != nil {
		var already blog.ErrAlreadySubscribed
		if errors.As(err, &already) {
			RespondConflict(c, "Email is already subscribed")
			return
		}
		if errors.Is(err, blog.ErrInvalidEmail) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to subscribe", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, gin.H{"status": "subscribed"})
}

// Unsubscribe removes an email from the newsletter list
func (h *BlogHandler) Unsubscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.blogService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		var notFound blog.ErrSubscriberNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Email is not subscribed")
			return
		}
		h.logger.Error("Failed to unsubscribe", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"status": "unsubscribed"})
}
