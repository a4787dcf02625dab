package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vishalmart/shop/pkg/metrics"
)

// RouterDeps carries the handlers the router mounts. Metrics may be nil, in
// which case the /metrics endpoint and per-route instrumentation are skipped.
type RouterDeps struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Metrics  *metrics.ServerMetrics

	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MockAuthMiddleware)
	if deps.Metrics != nil {
		r.Use(MetricsMiddleware(deps.Metrics))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.ListProducts)
			r.Get("/{product_id}", deps.Products.GetProduct)
			r.Put("/{product_id}/stock", deps.Products.Restock)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
		})

		r.Post("/checkout", deps.Checkout.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.Orders.ListOrders)
			r.Get("/{order_id}", deps.Orders.GetOrder)
			r.Put("/{order_id}/status", deps.Orders.UpdateStatus)
		})
	})

	return r
}
