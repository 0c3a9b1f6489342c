package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type catalogTestEnv struct {
	router   chi.Router
	products *mockProductRepository
}

func newCatalogTestEnv(role string) *catalogTestEnv {
	products := newMockProductRepository()
	catalogService := service.NewCatalogService(products)
	logger := zap.NewNop()

	router := chi.NewRouter()
	NewCatalogHandler(catalogService, logger).RegisterRoutes(router, stubAuth(uuid.New(), role), middleware.RequireAdmin(logger))

	return &catalogTestEnv{router: router, products: products}
}

func (e *catalogTestEnv) seedProduct(name, price string, category domain.Category) *domain.Product {
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Category:  category,
		Stock:     10,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	e.products.products[product.ID] = product
	return product
}

func TestProductListingWithFilters(t *testing.T) {
	env := newCatalogTestEnv("user")

	env.seedProduct("Premium Smartphone", "599.99", domain.CategoryElectronics)
	env.seedProduct("Smart Watch", "299.99", domain.CategoryElectronics)
	env.seedProduct("Running Shoes", "129.99", domain.CategoryFashion)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"no filter", "", 3},
		{"category filter", "?category=electronics", 2},
		{"search filter", "?search=smart", 2},
		{"category and search", "?category=fashion&search=running", 1},
		{"unknown category matches nothing", "?category=vehicles", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products"+tc.query, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("List returned %d: %s", w.Code, w.Body.String())
			}

			var resp ProductListResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Could not decode listing: %v", err)
			}

			if len(resp.Products) != tc.want {
				t.Errorf("Expected %d products, got %d", tc.want, len(resp.Products))
			}

			// The category filter options always come along
			if len(resp.Categories) != len(domain.Categories()) {
				t.Errorf("Expected %d categories, got %d", len(domain.Categories()), len(resp.Categories))
			}
		})
	}
}

func TestProductDetailIncludesRelated(t *testing.T) {
	env := newCatalogTestEnv("user")

	target := env.seedProduct("Gaming Mouse", "49.99", domain.CategoryGaming)
	env.seedProduct("Mechanical Keyboard", "149.99", domain.CategoryGaming)
	env.seedProduct("Yoga Mat", "39.99", domain.CategorySports)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+target.ID.String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Detail returned %d: %s", w.Code, w.Body.String())
	}

	var resp ProductDetailResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode detail: %v", err)
	}

	if resp.Product.ID != target.ID {
		t.Errorf("Detail returned wrong product")
	}

	if len(resp.Related) != 1 {
		t.Fatalf("Expected 1 related product, got %d", len(resp.Related))
	}
	if resp.Related[0].Category != domain.CategoryGaming {
		t.Errorf("Related product from wrong category: %s", resp.Related[0].Category)
	}
}

func TestProductDetailUnknownIDs(t *testing.T) {
	env := newCatalogTestEnv("user")

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown product, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed product ID, got %d", w.Code)
	}
}

func TestFeaturedEndpointCapsAtSix(t *testing.T) {
	env := newCatalogTestEnv("user")

	for i := 0; i < service.FeaturedProductCount+3; i++ {
		env.seedProduct("Item", "9.99", domain.CategoryHome)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products/featured", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Featured returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Products []*domain.Product `json:"products"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode featured products: %v", err)
	}

	if len(resp.Products) != service.FeaturedProductCount {
		t.Errorf("Expected %d featured products, got %d", service.FeaturedProductCount, len(resp.Products))
	}
}

func TestProductManagementRequiresAdmin(t *testing.T) {
	payload, _ := json.Marshal(ProductRequest{
		Name:     "Home Blender",
		Price:    decimal.RequireFromString("79.99"),
		Category: "home",
		Stock:    35,
	})

	asUser := newCatalogTestEnv("user")
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	asUser.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-admin create, got %d", w.Code)
	}

	asAdmin := newCatalogTestEnv("admin")
	req = httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	asAdmin.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for admin create, got %d: %s", w.Code, w.Body.String())
	}

	var created domain.Product
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Could not decode created product: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("Created product missing ID")
	}
	if created.Category != domain.CategoryHome {
		t.Errorf("Created product has wrong category: %s", created.Category)
	}
}

func TestProductCreateRejectsUnknownCategory(t *testing.T) {
	env := newCatalogTestEnv("admin")

	payload, _ := json.Marshal(ProductRequest{
		Name:     "Mystery Box",
		Price:    decimal.RequireFromString("10.00"),
		Category: "mystery",
		Stock:    1,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown category, got %d: %s", w.Code, w.Body.String())
	}

	if len(env.products.products) != 0 {
		t.Error("No product should be stored after a rejected create")
	}
}
