package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/luissince/architect-portfolio-sub000/internal/cart"
	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/pricing"
)

type CartHandler struct {
	carts     *cart.Service
	formatter pricing.Formatter
}

func NewCartHandler(carts *cart.Service, formatter pricing.Formatter) *CartHandler {
	return &CartHandler{
		carts:     carts,
		formatter: formatter,
	}
}

type AddItemRequestDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartLineDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartResponseDTO struct {
	Items        []CartLineDTO   `json:"items"`
	TotalItems   int             `json:"totalItems"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	TotalDisplay string          `json:"totalDisplay"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.toDTO(h.carts.Snapshot()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	updated, err := h.carts.AddItem(r.Context(), cart.Candidate{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Category:  req.Category,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.toDTO(updated))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "missing_line_id", "line_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := h.carts.UpdateQuantity(r.Context(), lineID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDTO(updated))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "missing_line_id", "line_id is required")
		return
	}

	updated, err := h.carts.RemoveItem(r.Context(), lineID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDTO(updated))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toDTO(h.carts.Snapshot()))
}

func (h *CartHandler) toDTO(c domain.Cart) CartResponseDTO {
	lines := make([]CartLineDTO, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, CartLineDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Category:  item.Category,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}

	total := c.TotalPrice()
	return CartResponseDTO{
		Items:        lines,
		TotalItems:   c.TotalItems(),
		TotalPrice:   total,
		TotalDisplay: h.formatter.Format(total),
	}
}
