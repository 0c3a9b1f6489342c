package transport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock repositories shared by the handler tests. They reproduce the
// observable behavior of the SQL-backed implementations, including the
// sentinel errors and the upsert semantics of cart lines.

type mockUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	carts *mockCartRepository
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

// Create mirrors the all-or-nothing registration write: a duplicate aborts
// before either the user or the cart is stored.
func (m *mockUserRepository) Create(ctx context.Context, user *domain.User, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.users[user.ID] = user
	if m.carts != nil {
		m.carts.carts[cart.UserID] = cart
	}
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if product, ok := m.products[id]; ok {
		return product, nil
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, category, search string) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range m.products {
		if category != "" && string(product.Category) != category {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(product.Name), needle) &&
				!strings.Contains(strings.ToLower(product.Description), needle) {
				continue
			}
		}
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockProductRepository) ListNewest(ctx context.Context, limit int) ([]*domain.Product, error) {
	all, _ := m.List(ctx, "", "")
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockProductRepository) ListRelated(ctx context.Context, category domain.Category, exclude uuid.UUID, limit int) ([]*domain.Product, error) {
	all, _ := m.List(ctx, string(category), "")
	var result []*domain.Product
	for _, product := range all {
		if product.ID == exclude {
			continue
		}
		result = append(result, product)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart // keyed by user ID
	items map[uuid.UUID][]*domain.CartItem

	products *mockProductRepository
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{
		carts:    make(map[uuid.UUID]*domain.Cart),
		items:    make(map[uuid.UUID][]*domain.CartItem),
		products: products,
	}
}

func (m *mockCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	return nil, repository.ErrCartNotFound
}

func (m *mockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	cart := &domain.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.carts[userID] = cart
	return cart, nil
}

func (m *mockCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*domain.CartItem, error) {
	items := m.items[cartID]
	for _, item := range items {
		if item.Product == nil && m.products != nil {
			item.Product = m.products.products[item.ProductID]
		}
	}
	return items, nil
}

func (m *mockCartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	for _, item := range m.items[cartID] {
		if item.ProductID == productID {
			item.Quantity++
			return item, nil
		}
	}
	item := &domain.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  1,
		AddedAt:   time.Now(),
	}
	m.items[cartID] = append(m.items[cartID], item)
	return item, nil
}

func (m *mockCartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	items := m.items[cartID]
	for i, item := range items {
		if item.ID == itemID {
			m.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return repository.ErrCartItemNotFound
}

type mockOrderRepository struct {
	orders     map[uuid.UUID]*domain.Order
	orderItems map[uuid.UUID][]*domain.OrderItem
	sequence   int

	products *mockProductRepository
	carts    *mockCartRepository
}

func newMockOrderRepository(products *mockProductRepository, carts *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:     make(map[uuid.UUID]*domain.Order),
		orderItems: make(map[uuid.UUID][]*domain.OrderItem),
		products:   products,
		carts:      carts,
	}
}

// Create mirrors the transactional behavior of the real repository: either
// stock is decremented, the order stored and the cart cleared, or nothing
// happens at all. Item prices and the total are settled from the catalog
// at this point, not from the caller's snapshot.
func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem, cartID uuid.UUID) error {
	for _, item := range items {
		product, ok := m.products.products[item.ProductID]
		if !ok || product.Stock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}

	total := decimal.Zero
	for _, item := range items {
		product := m.products.products[item.ProductID]
		product.Stock -= item.Quantity
		item.OrderID = order.ID
		item.Price = product.Price
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalAmount = total

	m.sequence++
	order.OrderNumber = fmt.Sprintf("ORD-%s-%d", order.UserID.String()[:8], m.sequence)

	m.orders[order.ID] = order
	m.orderItems[order.ID] = items
	m.carts.items[cartID] = nil
	return nil
}

func (m *mockOrderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok || order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	order.Items = m.orderItems[id]
	return order, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			result = append(result, order)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}
