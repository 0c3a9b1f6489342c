package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// FeaturedProductCount is how many products the home preview shows
	FeaturedProductCount = 6

	// RelatedProductCount is how many same-category products accompany a detail view
	RelatedProductCount = 4
)

var (
	ErrInvalidCategory = errors.New("unknown product category")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrNegativeStock   = errors.New("stock must not be negative")
)

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	Featured(ctx context.Context) ([]*domain.Product, error)
	List(ctx context.Context, category, search string) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (product *domain.Product, related []*domain.Product, err error)

	// Admin operations
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// Featured returns the newest products for the storefront home preview
func (s *catalogService) Featured(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.ListNewest(ctx, FeaturedProductCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}
	return products, nil
}

// List returns products filtered by an optional category and search term. An
// unknown category simply matches nothing, mirroring an exact-match filter.
func (s *catalogService) List(ctx context.Context, category, search string) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, category, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns a product and up to four related products from its category
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, []*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	related, err := s.productRepo.ListRelated(ctx, product.Category, product.ID, RelatedProductCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load related products: %w", err)
	}

	return product, related, nil
}

// CreateProduct validates and stores a new catalog product
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	return s.productRepo.Create(ctx, product)
}

// UpdateProduct validates and applies edits to an existing product
func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	product.UpdatedAt = time.Now()

	return s.productRepo.Update(ctx, product)
}

// DeleteProduct removes a product from the catalog
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func validateProduct(product *domain.Product) error {
	if !domain.IsValidCategory(string(product.Category)) {
		return ErrInvalidCategory
	}
	if product.Price.LessThan(decimal.Zero) {
		return ErrNegativePrice
	}
	if product.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
