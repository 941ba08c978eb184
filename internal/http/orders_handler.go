package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/luissince/architect-portfolio-sub000/internal/checkout"
	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/ledger"
	"github.com/luissince/architect-portfolio-sub000/internal/pricing"
	"github.com/luissince/architect-portfolio-sub000/internal/session"
)

type OrdersHandler struct {
	ledger    ledger.Ledger
	sessions  *session.Service
	formatter pricing.Formatter
	now       func() time.Time
}

func NewOrdersHandler(led ledger.Ledger, sessions *session.Service, formatter pricing.Formatter) *OrdersHandler {
	return &OrdersHandler{
		ledger:    led,
		sessions:  sessions,
		formatter: formatter,
		now:       time.Now,
	}
}

type OrderItemDTO struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type OrderResponseDTO struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"orderNumber"`
	Items        []OrderItemDTO      `json:"items"`
	TotalPrice   decimal.Decimal     `json:"totalPrice"`
	TotalDisplay string              `json:"totalDisplay"`
	Customer     domain.CustomerInfo `json:"customerInfo"`
	Date         time.Time           `json:"date"`
	Status       string              `json:"status"`
	Timeline     []ledger.Milestone  `json:"timeline,omitempty"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "login required")
		return
	}

	orders, err := h.ledger.ListAll(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, h.toDTO(&orders[i], false))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "login required")
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.ledger.FindByID(r.Context(), user.ID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDTO(order, true))
}

func (h *OrdersHandler) toDTO(order *domain.Order, withTimeline bool) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Category:  item.Category,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	now := h.now()
	dto := OrderResponseDTO{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		Items:        items,
		TotalPrice:   order.TotalPrice,
		TotalDisplay: h.formatter.Format(order.TotalPrice),
		Customer:     order.Customer,
		Date:         order.Date,
		Status:       ledger.DeriveStatus(order, now).String(),
	}
	if withTimeline {
		dto.Timeline = ledger.Timeline(order, now)
	}
	return dto
}

type CheckoutHandler struct {
	checkouts *checkout.Service
	orders    *OrdersHandler
}

func NewCheckoutHandler(checkouts *checkout.Service, orders *OrdersHandler) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		orders:    orders,
	}
}

type CheckoutResponseDTO struct {
	OrderNumber string    `json:"orderNumber"`
	Date        time.Time `json:"date"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var info domain.CustomerInfo
	if err := decodeJSON(r, &info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkouts.PlaceOrder(r.Context(), info)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderNumber: order.OrderNumber,
		Date:        order.Date,
	})
}

// GET /api/v1/checkout/last-order
func (h *CheckoutHandler) LastOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkouts.LastOrder(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.orders.toDTO(order, false))
}
