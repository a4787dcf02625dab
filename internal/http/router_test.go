package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/checkout"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
	"github.com/vishalmart/shop/internal/pricing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalogRepo := NewCatalogRepoMock(testProduct())
	ledger := inventory.NewMemoryLedger()
	if err := ledger.SetStock(context.Background(), 1, 10); err != nil {
		t.Fatalf("failed to set stock: %v", err)
	}
	carts := cart.NewService(cart.NewMemoryRepository(), nil)
	repo := orders.NewMemoryRepository()
	checkoutSvc := checkout.NewService(carts, ledger, repo, pricing.DefaultConfig())

	router := NewRouter(RouterDeps{
		Products:       NewProductHandler(catalogRepo, ledger, 5*time.Second),
		Cart:           NewCartHandler(carts, catalogRepo, 5*time.Second),
		Checkout:       NewCheckoutHandler(checkoutSvc, nil, 5*time.Second),
		Orders:         NewOrdersHandler(repo, 5*time.Second),
		RequestTimeout: 10 * time.Second,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

// Full shopping flow through the router: browse, add to cart, check out,
// then read the order back.
func TestRouter_ShoppingFlow(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	// Browse
	resp, err := client.Get(srv.URL + "/api/v1/products/1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}

	// Add to cart (MockAuthMiddleware defaults the user when no header is set)
	resp, err = client.Post(srv.URL+"/api/v1/cart/items", "application/json",
		bytes.NewReader([]byte(`{"product_id":1,"quantity":2}`)))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	// Check out
	resp, err = client.Post(srv.URL+"/api/v1/checkout", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	var order OrderResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	resp.Body.Close()

	if order.Status != "PENDING" {
		t.Errorf("expected status 'PENDING', got '%s'", order.Status)
	}

	// Read it back
	resp, err = client.Get(srv.URL + "/api/v1/orders/" + order.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
