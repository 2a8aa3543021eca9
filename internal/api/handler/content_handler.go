package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/content"
)

// ContentHandler handles HTTP requests for home page slides
type ContentHandler struct {
	contentService service.ContentService
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(logger *slog.Logger, contentService service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		logger:         logger,
	}
}

// ListSlides returns the home carousel slides
func (h *ContentHandler) ListSlides(c *gin.Context) {
	slides, err := h.contentService.ListSlides(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list slides", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, slides)
}

// AddSlide appends a slide to the carousel
func (h *ContentHandler) AddSlide(c *gin.Context) {
	var req AddSlideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	slide, err := h.contentService.AddSlide(c.Request.Context(),
		req.Title, req.Subtitle, req.Description, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrEmptySlideTitle):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, content.ErrSlideLimit):
			RespondUnprocessable(c, "SLIDE_LIMIT", err.Error())
		default:
			h.logger.Error("Failed to add slide", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, slide)
}

// DeleteSlide removes a slide
func (h *ContentHandler) DeleteSlide(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid slide id")
		return
	}

	if err := h.contentService.DeleteSlide(c.Request.Context(), id); err != nil {
		var notFound content.ErrSlideNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Slide not found")
			return
		}
		h.logger.Error("Failed to delete slide", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
