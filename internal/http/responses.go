package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vishalmart/shop/internal/cart"
	"github.com/vishalmart/shop/internal/catalog"
	"github.com/vishalmart/shop/internal/checkout"
	"github.com/vishalmart/shop/internal/inventory"
	"github.com/vishalmart/shop/internal/orders"
)

type ctxKey string

const (
	ctxKeyUserID    ctxKey = "user_id"
	ctxKeyRequestID ctxKey = "request_id"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func getUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(ctxKeyUserID).(string); ok {
		return userID
	}
	return ""
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// InsufficientStockResponse carries the shortfall detail so clients can
// adjust the cart instead of blindly retrying.
type InsufficientStockResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	ProductID int64  `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// handleDomainError maps typed domain failures to HTTP responses.
func handleDomainError(w http.ResponseWriter, err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to checkout")
	case errors.As(err, &insufficient):
		respondJSON(w, http.StatusConflict, InsufficientStockResponse{
			Error:     insufficient.Error(),
			Code:      "insufficient_stock",
			ProductID: insufficient.ProductID,
			Requested: insufficient.Requested,
			Available: insufficient.Available,
		})
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "item not found in cart")
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, inventory.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, orders.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, checkout.ErrPersistenceFailure):
		respondError(w, http.StatusInternalServerError, "checkout_failed", "checkout failed, no order was created")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
