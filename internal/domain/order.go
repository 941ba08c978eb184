package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer:
		return true
	}
	return false
}

// CustomerInfo is the contact block collected at checkout.
// Name, Email, Phone and Address are required; Notes is optional.
type CustomerInfo struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Notes         string        `json:"notes,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// OrderItem is a frozen copy of a cart line at checkout time. It carries
// no line id because it never participates in cart mutations again.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is immutable after creation except for its status, which is
// derived from age for display (see ledger.DeriveStatus) rather than
// mutated in place.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	OwnerID     string          `json:"ownerId"`
	Items       []OrderItem     `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Customer    CustomerInfo    `json:"customerInfo"`
	Date        time.Time       `json:"date"`
	Status      OrderStatus     `json:"status"`
}
