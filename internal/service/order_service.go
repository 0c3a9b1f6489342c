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

// DashboardOrderCount is how many recent orders the dashboard shows
const DashboardOrderCount = 5

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("unknown order status")
)

// OrderService defines the interface for checkout and order business logic
type OrderService interface {
	// Checkout converts the user's cart into an order. Each order item
	// snapshots the product's price at this moment; the cart is emptied but
	// kept. An empty cart aborts before anything is written.
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error)

	// Summary returns what checkout would charge right now.
	Summary(ctx context.Context, userID uuid.UUID) (*CartView, error)

	GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
	ListRecent(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)

	// UpdateStatus applies an admin-driven status transition.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
	}
}

// Checkout reads the cart and hands the whole write sequence to the
// repository as one atomic unit; prices and the total are settled inside
// that transaction.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress string) (*domain.Order, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	now := time.Now()
	total := decimal.Zero
	orderItems := make([]*domain.OrderItem, 0, len(items))

	for _, item := range items {
		total = total.Add(item.Subtotal())

		// Prices here are the ones the user last saw. The repository
		// replaces them with the catalog prices current inside the checkout
		// transaction, and those snapshots are permanent.
		orderItems = append(orderItems, &domain.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			CreatedAt: now,
		})
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order, orderItems, cart.ID); err != nil {
		return nil, err
	}

	order.Items = orderItems
	return order, nil
}

// Summary returns the cart contents and total a checkout would use
func (s *orderService) Summary(ctx context.Context, userID uuid.UUID) (*CartView, error) {
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

// GetForUser retrieves one of the user's own orders with its items
func (s *orderService) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByIDForUser(ctx, orderID, userID)
}

// ListRecent retrieves the user's most recent orders for the dashboard
func (s *orderService) ListRecent(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, DashboardOrderCount)
}

// UpdateStatus applies an admin status change after validating the value
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if !domain.IsValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	return s.orderRepo.UpdateStatus(ctx, orderID, domain.OrderStatus(status))
}
