package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

const orderCounterKey = "orders:counter"

// KVLedger stores each identity's orders as one JSON array under
// orders:<owner>, newest first, mirroring the cart's persistence layout.
type KVLedger struct {
	store storage.Store
}

func NewKVLedger(store storage.Store) *KVLedger {
	return &KVLedger{store: store}
}

func (l *KVLedger) Append(ctx context.Context, order *domain.Order) error {
	orders, err := l.load(ctx, order.OwnerID)
	if err != nil {
		return err
	}

	// Prepend so the stored sequence is already newest-first.
	orders = append([]domain.Order{*order}, orders...)

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders failed: %w", err)
	}
	if err := l.store.Put(ctx, ordersKey(order.OwnerID), data); err != nil {
		return fmt.Errorf("persist orders failed: %w", err)
	}
	return nil
}

func (l *KVLedger) FindByID(ctx context.Context, ownerID, id string) (*domain.Order, error) {
	orders, err := l.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id || orders[i].OrderNumber == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

func (l *KVLedger) ListAll(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return l.load(ctx, ownerID)
}

func (l *KVLedger) NextOrderNumber(ctx context.Context) (string, error) {
	n, err := l.store.Incr(ctx, orderCounterKey)
	if err != nil {
		return "", fmt.Errorf("order counter failed: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}

// load fails open: a missing record is an empty history, a corrupt one
// is logged and treated the same. Only storage failures are returned.
func (l *KVLedger) load(ctx context.Context, ownerID string) ([]domain.Order, error) {
	data, err := l.store.Get(ctx, ordersKey(ownerID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []domain.Order{}, nil
		}
		return nil, fmt.Errorf("load orders failed: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("[ledger] corrupt orders record for %s, treating as empty: %v", ownerID, err)
		return []domain.Order{}, nil
	}
	return orders, nil
}

func ordersKey(ownerID string) string {
	return fmt.Sprintf("orders:%s", ownerID)
}
