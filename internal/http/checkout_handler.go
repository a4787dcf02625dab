package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vishalmart/shop/internal/checkout"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/pkg/metrics"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	metrics  *metrics.ServerMetrics
	timeout  time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, m *metrics.ServerMetrics, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		metrics:  m,
		timeout:  timeout,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.checkout.Checkout(ctx, userID)
	if err != nil {
		h.countOutcome(err)
		handleDomainError(w, err)
		return
	}

	h.countOutcome(nil)
	respondJSON(w, http.StatusCreated, convertOrder(order))
}

func (h *CheckoutHandler) countOutcome(err error) {
	if h.metrics == nil {
		return
	}

	var insufficient *inventory.InsufficientStockError
	outcome := "completed"
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrEmptyCart):
		outcome = "rejected_empty_cart"
	case errors.As(err, &insufficient):
		outcome = "rejected_insufficient_stock"
	default:
		outcome = "rejected_persistence_failure"
	}
	h.metrics.Checkouts.WithLabelValues(outcome).Inc()
}
