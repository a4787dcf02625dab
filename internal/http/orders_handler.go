package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vishalmart/shop/internal/orders"
)

type OrdersHandler struct {
	repo    orders.Repository
	timeout time.Duration
}

func NewOrdersHandler(repo orders.Repository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		repo:    repo,
		timeout: timeout,
	}
}

type OrderItemDTO struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderResponseDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Subtotal  float64        `json:"subtotal"`
	Tax       float64        `json:"tax"`
	Shipping  float64        `json:"shipping"`
	Total     float64        `json:"total"`
	Status    string         `json:"status"`
	Items     []OrderItemDTO `json:"items"`
	CreatedAt string         `json:"created_at"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func convertOrder(o *orders.Order) OrderResponseDTO {
	dtoItems := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		dtoItems = append(dtoItems, OrderItemDTO{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return OrderResponseDTO{
		ID:        o.ID.String(),
		UserID:    o.UserID,
		Subtotal:  o.Subtotal,
		Tax:       o.Tax,
		Shipping:  o.Shipping,
		Total:     o.Total,
		Status:    string(o.Status),
		Items:     dtoItems,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	result, err := h.repo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(result))
	for _, o := range result {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// Orders are visible to their owner only.
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// PUT /api/v1/orders/{order_id}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	next := orders.Status(req.Status)
	switch next {
	case orders.StatusProcessing, orders.StatusShipped, orders.StatusDelivered, orders.StatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.repo.UpdateStatus(ctx, orderID, next); err != nil {
		handleDomainError(w, err)
		return
	}

	order, err := h.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}
