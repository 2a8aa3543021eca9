package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/api/service"
	"github.com/shopstack-backend/internal/domain/catalog"
)

// CatalogHandler handles HTTP requests for categories and products
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *slog.Logger, catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateCategory adds a category, returning the existing one when the name is
// already taken.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyCategoryName) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create category", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, category)
}

// UpdateCategory renames a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid category id")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		var notFound catalog.ErrCategoryNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Category not found")
			return
		}
		h.logger.Error("Failed to update category", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, category)
}

// ListCategories returns every category
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, categories)
}

// DeleteCategory removes a category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid category id")
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		var notFound catalog.ErrCategoryNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Category not found")
			return
		}
		h.logger.Error("Failed to delete category", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// CreateProduct adds a product with its hosted photo
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category id")
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), service.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		SellingPrice:  req.SellingPrice,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    categoryID,
		Quantity:      req.Quantity,
		Colors:        req.Colors,
		Photo:         req.Photo,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrEmptyProductName),
			errors.Is(err, catalog.ErrEmptyDescription),
			errors.Is(err, catalog.ErrInvalidPrice),
			errors.Is(err, catalog.ErrInvalidQuantity),
			errors.Is(err, catalog.ErrMissingCategory):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create product", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, product)
}

// UpdateProduct applies a product edit
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		RespondBadRequest(c, "Invalid category id")
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, service.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		SellingPrice:  req.SellingPrice,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    categoryID,
		Quantity:      req.Quantity,
		Colors:        req.Colors,
		Photo:         req.Photo,
	})
	if err != nil {
		var notFound catalog.ErrProductNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Product not found")
			return
		}
		h.logger.Error("Failed to update product", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, product)
}

// DeleteProduct removes a product and its hosted photos
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		var notFound catalog.ErrProductNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Product not found")
			return
		}
		h.logger.Error("Failed to delete product", "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetProductBySlug returns a product plus its related products
func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		var notFound catalog.ErrProductNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Product not found")
			return
		}
		h.logger.Error("Failed to get product", "slug", c.Param("slug"), "error", err)
		RespondInternalError(c)
		return
	}

	related, err := h.catalogService.RelatedProducts(c.Request.Context(), product.ID)
	if err != nil {
		h.logger.Error("Failed to get related products", "product_id", product.ID.Hex(), "error", err)
		related = nil
	}

	RespondOK(c, gin.H{
		"product": product,
		"related": related,
	})
}

// ListProducts returns the full catalog
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, products)
}

// GetProductsPage returns one page of the product listing
func (h *CatalogHandler) GetProductsPage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		RespondBadRequest(c, "Invalid page number")
		return
	}

	products, total, err := h.catalogService.GetProductsPage(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("Failed to get products page", "page", page, "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, 200, products, page, service.ProductsPageSize, int(total))
}

// SearchProducts matches the keyword against name and description
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		RespondBadRequest(c, "Query parameter q is required")
		return
	}

	products, err := h.catalogService.SearchProducts(c.Request.Context(), keyword)
	if err != nil {
		h.logger.Error("Failed to search products", "keyword", keyword, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, products)
}

// GetProductsByCategory returns the products of a category by its slug
func (h *CatalogHandler) GetProductsByCategory(c *gin.Context) {
	products, err := h.catalogService.GetProductsByCategorySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		var notFound catalog.ErrCategoryNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Category not found")
			return
		}
		h.logger.Error("Failed to get category products", "slug", c.Param("slug"), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, products)
}

// FilterProducts selects products by category membership and price range
func (h *CatalogHandler) FilterProducts(c *gin.Context) {
	var req FilterProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	categories, err := parseObjectIDs(req.Categories)
	if err != nil {
		RespondBadRequest(c, "Invalid category id")
		return
	}

	var price *catalog.PriceRange
	if req.MinPrice > 0 || req.MaxPrice > 0 {
		price = &catalog.PriceRange{Min: req.MinPrice, Max: req.MaxPrice}
	}

	products, err := h.catalogService.FilterProducts(c.Request.Context(), categories, price)
	if err != nil {
		h.logger.Error("Failed to filter products", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, products)
}
