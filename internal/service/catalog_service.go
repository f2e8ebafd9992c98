package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/replaygear/replay_api/internal/cache"
	"github.com/replaygear/replay_api/internal/models"
	"github.com/replaygear/replay_api/internal/repository"
	"github.com/replaygear/replay_api/internal/utils"
)

// ProductStore is the persistence surface for the catalog.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAllPaged(ctx context.Context, productType, category, search string, page, limit int) ([]models.Product, int, error)
	GetAllAdmin(ctx context.Context, filter *repository.AdminProductFilter) (*repository.AdminProductResult, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetDistinctCategories(ctx context.Context) ([]string, error)
}

// CreateProductRequest represents an admin authoring a catalog entry.
type CreateProductRequest struct {
	Name          string            `json:"name" binding:"required"`
	Category      string            `json:"category" binding:"required"`
	Type          string            `json:"type" binding:"required"` // "new" or "preowned"
	Price         int               `json:"price" binding:"required"`
	OriginalPrice *int              `json:"originalPrice"`
	Grade         string            `json:"grade"` // A-D, preowned only
	ImageURLs     []string          `json:"imageUrls"`
	Badge         string            `json:"badge"`
	Description   string            `json:"description"`
	IsAvailable   *bool             `json:"isAvailable"`
	Specs         map[string]string `json:"specs"`
}

// UpdateProductRequest represents an admin edit of a catalog entry.
// Nil/empty fields are left unchanged.
type UpdateProductRequest struct {
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Type          string            `json:"type"`
	Price         *int              `json:"price"`
	OriginalPrice *int              `json:"originalPrice"`
	Grade         string            `json:"grade"`
	ImageURLs     []string          `json:"imageUrls"`
	Badge         *string           `json:"badge"`
	Description   *string           `json:"description"`
	IsAvailable   *bool             `json:"isAvailable"`
	Specs         map[string]string `json:"specs"`
}

// CatalogService handles catalog reads and admin product CRUD. Public
// listing pages go through the Redis read cache when one is configured;
// every write invalidates it.
type CatalogService struct {
	products ProductStore
	cache    *cache.CatalogCache
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(products ProductStore, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{products: products, cache: catalogCache}
}

// ListPublic returns available products for buyers, newest first.
func (s *CatalogService) ListPublic(ctx context.Context, productType, category, search string, page, limit int) ([]models.Product, int, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPage(ctx, productType, category, search, page, limit)
		if err != nil {
			log.Warn().Err(err).Msg("Catalog cache read failed")
		} else if cached != nil {
			return cached.Products, cached.TotalItems, nil
		}
	}

	products, total, err := s.products.GetAllPaged(ctx, productType, category, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, productType, category, search, page, limit, products, total); err != nil {
			log.Warn().Err(err).Msg("Catalog cache write failed")
		}
	}
	return products, total, nil
}

// ListAdmin returns all products for the admin view.
func (s *CatalogService) ListAdmin(ctx context.Context, filter *repository.AdminProductFilter) (*repository.AdminProductResult, error) {
	return s.products.GetAllAdmin(ctx, filter)
}

// Get returns a single product by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Categories returns all distinct categories of available products.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.products.GetDistinctCategories(ctx)
}

// Create authors a new catalog entry.
func (s *CatalogService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	productType := models.ProductType(req.Type)
	if productType != models.ProductTypeNew && productType != models.ProductTypePreowned {
		return nil, utils.ErrInvalidType
	}
	if req.Price <= 0 {
		return nil, utils.ErrInvalidPrice
	}

	product := &models.Product{
		Name:          req.Name,
		Category:      req.Category,
		Type:          productType,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURLs:     req.ImageURLs,
		Description:   req.Description,
		IsAvailable:   true,
		Specs:         req.Specs,
	}
	if req.Grade != "" {
		grade := models.ProductGrade(req.Grade)
		if !grade.Valid() {
			return nil, utils.ErrInvalidGrade
		}
		product.Grade = &grade
	}
	if req.Badge != "" {
		badge := req.Badge
		product.Badge = &badge
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if product.Specs == nil {
		product.Specs = models.SpecMap{}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)

	log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	return product, nil
}

// Update applies an admin edit to an existing catalog entry.
func (s *CatalogService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Type != "" {
		productType := models.ProductType(req.Type)
		if productType != models.ProductTypeNew && productType != models.ProductTypePreowned {
			return nil, utils.ErrInvalidType
		}
		product.Type = productType
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, utils.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.Grade != "" {
		grade := models.ProductGrade(req.Grade)
		if !grade.Valid() {
			return nil, utils.ErrInvalidGrade
		}
		product.Grade = &grade
	}
	if req.ImageURLs != nil {
		product.ImageURLs = req.ImageURLs
	}
	if req.Badge != nil {
		product.Badge = req.Badge
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.Specs != nil {
		product.Specs = req.Specs
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)

	log.Info().Str("product_id", product.ID).Msg("Product updated")
	return product, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx)

	log.Info().Str("product_id", id).Msg("Product deleted")
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}
}
