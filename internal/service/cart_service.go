package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartView is a cart's contents with the computed grand total
type CartView struct {
	Cart  *domain.Cart       `json:"cart"`
	Items []*domain.CartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// CartService defines the interface for cart business logic
type CartService interface {
	View(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// View returns the user's cart with items and the total at current prices
func (s *cartService) View(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	return &CartView{
		Cart:  cart,
		Items: items,
		Total: cartTotal(items),
	}, nil
}

// AddProduct puts one unit of a product into the user's cart. Adding the same
// product again increments the existing line's quantity.
func (s *cartService) AddProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem deletes a line from the user's own cart; items in other users'
// carts are indistinguishable from missing ones.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.RemoveItem(ctx, cart.ID, itemID)
}

func cartTotal(items []*domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
