package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopstack-backend/internal/domain/catalog"
	"github.com/shopstack-backend/internal/platform/imaging"
)

const (
	productPhotoFolder = "products"
	relatedLimit       = 3
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	images       imaging.Store
	logger       *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(logger *slog.Logger, categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository, images imaging.Store) CatalogService {
	return &CatalogServiceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		images:       images,
		logger:       logger,
	}
}

// CreateCategory registers a category, returning the existing one when the
// name is already taken.
func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		var notFound catalog.ErrCategoryNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return existing, nil
	}

	c, err := catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateCategory renames a category, deriving a fresh slug
func (s *CatalogServiceImpl) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*catalog.Category, error) {
	if name == "" {
		return nil, catalog.ErrEmptyCategoryName
	}
	return s.categoryRepo.Update(ctx, id, name, catalog.Slugify(name))
}

// ListCategories returns every category
func (s *CatalogServiceImpl) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategoryBySlug retrieves a category by its slug
func (s *CatalogServiceImpl) GetCategoryBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

// DeleteCategory removes a category
func (s *CatalogServiceImpl) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// CreateProduct hosts the photo payload and persists the product
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, params CreateProductParams) (*catalog.Product, error) {
	p, err := catalog.NewProduct(params.Name, params.Description, params.SellingPrice,
		params.OriginalPrice, params.CategoryID, params.Quantity, params.Colors)
	if err != nil {
		return nil, err
	}

	upload, err := s.images.Upload(ctx, params.Photo, productPhotoFolder)
	if err != nil {
		return nil, err
	}
	p.Photos = []catalog.Photo{{URL: upload.URL, PublicID: upload.PublicID}}

	if err := s.productRepo.Create(ctx, p); err != nil {
		// Best-effort cleanup of the orphaned upload
		if delErr := s.images.Delete(ctx, upload.PublicID); delErr != nil {
			s.logger.Error("Failed to remove orphaned product photo",
				"public_id", upload.PublicID,
				"error", delErr)
		}
		return nil, err
	}

	return p, nil
}

// UpdateProduct applies an edit, replacing the hosted photo when a new
// payload is supplied.
func (s *CatalogServiceImpl) UpdateProduct(ctx context.Context, id primitive.ObjectID, params UpdateProductParams) (*catalog.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = params.Name
	p.Slug = catalog.Slugify(params.Name)
	p.Description = params.Description
	p.SellingPrice = params.SellingPrice
	p.OriginalPrice = params.OriginalPrice
	p.CategoryID = params.CategoryID
	p.Quantity = params.Quantity
	p.Colors = params.Colors
	p.UpdatedAt = time.Now()

	if params.Photo != "" {
		upload, err := s.images.Upload(ctx, params.Photo, productPhotoFolder)
		if err != nil {
			return nil, err
		}
		for _, old := range p.Photos {
			if err := s.images.Delete(ctx, old.PublicID); err != nil {
				s.logger.Error("Failed to remove replaced product photo",
					"public_id", old.PublicID,
					"error", err)
			}
		}
		p.Photos = []catalog.Photo{{URL: upload.URL, PublicID: upload.PublicID}}
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// DeleteProduct removes the product and its hosted photos
func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, photo := range p.Photos {
		if err := s.images.Delete(ctx, photo.PublicID); err != nil {
			s.logger.Error("Failed to remove deleted product's photo",
				"public_id", photo.PublicID,
				"error", err)
		}
	}

	return nil
}

// GetProduct retrieves a product by id
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// GetProductBySlug retrieves a product by slug
func (s *CatalogServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

// ListProducts returns all products, newest first
func (s *CatalogServiceImpl) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProductsPage returns the 1-indexed product page plus the total count
func (s *CatalogServiceImpl) GetProductsPage(ctx context.Context, page int) ([]*catalog.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ProductsPageSize

	products, err := s.productRepo.GetPage(ctx, ProductsPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchProducts matches the keyword against name and description
func (s *CatalogServiceImpl) SearchProducts(ctx context.Context, keyword string) ([]*catalog.Product, error) {
	return s.productRepo.Search(ctx, keyword)
}

// RelatedProducts returns up to three products sharing the category
func (s *CatalogServiceImpl) RelatedProducts(ctx context.Context, productID primitive.ObjectID) ([]*catalog.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.Related(ctx, p.ID, p.CategoryID, relatedLimit)
}

// GetProductsByCategorySlug resolves the category and returns its products
func (s *CatalogServiceImpl) GetProductsByCategorySlug(ctx context.Context, slug string) ([]*catalog.Product, error) {
	c, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByCategory(ctx, c.ID)
}

// FilterProducts selects products by category membership and price range
func (s *CatalogServiceImpl) FilterProducts(ctx context.Context, categories []primitive.ObjectID, price *catalog.PriceRange) ([]*catalog.Product, error) {
	return s.productRepo.Filter(ctx, categories, price)
}
