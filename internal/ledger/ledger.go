package ledger

import (
	"context"
	"errors"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this number already exists")
)

// Ledger is the durable, per-identity history of placed orders.
// Listing is newest-first; lookups never fail on unknown ids with
// anything other than ErrOrderNotFound.
type Ledger interface {
	Append(ctx context.Context, order *domain.Order) error

	// FindByID matches the order's id or its human-facing order number.
	FindByID(ctx context.Context, ownerID, id string) (*domain.Order, error)

	ListAll(ctx context.Context, ownerID string) ([]domain.Order, error)

	// NextOrderNumber returns the next ORD-###### number from a
	// monotonic counter, never a random draw.
	NextOrderNumber(ctx context.Context) (string, error)
}
