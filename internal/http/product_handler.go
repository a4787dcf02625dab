package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vishalmart/shop/internal/catalog"
	"github.com/vishalmart/shop/internal/inventory"
)

type ProductHandler struct {
	repo    catalog.RepoInterface
	ledger  inventory.Ledger
	timeout time.Duration
}

func NewProductHandler(repo catalog.RepoInterface, ledger inventory.Ledger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		repo:    repo,
		ledger:  ledger,
		timeout: timeout,
	}
}

type ProductResponseDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Thumbnail   string  `json:"thumbnail"`
	Stock       int     `json:"stock"`
}

type RestockRequestDTO struct {
	Stock int `json:"stock"`
}

// GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.repo.GetAllProducts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	dtos := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, h.convertProduct(ctx, p))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	p, err := h.repo.GetProduct(ctx, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.convertProduct(ctx, p))
}

// PUT /api/v1/products/{product_id}/stock
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req RestockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return
	}

	// The product must exist in the catalog before the ledger will track it.
	if _, err := h.repo.GetProduct(ctx, productID); err != nil {
		handleDomainError(w, err)
		return
	}

	if err := h.ledger.SetStock(ctx, productID, req.Stock); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"stock":      req.Stock,
	})
}

// convertProduct overlays the live ledger stock on the catalog row; the seed
// value is only correct until the first reservation.
func (h *ProductHandler) convertProduct(ctx context.Context, p *catalog.Product) ProductResponseDTO {
	stock := p.Stock
	if live, err := h.ledger.Stock(ctx, p.ID); err == nil {
		stock = live
	}
	return ProductResponseDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Thumbnail:   p.Thumbnail,
		Stock:       stock,
	}
}
