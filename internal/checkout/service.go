package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luissince/architect-portfolio-sub000/internal/cart"
	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/ledger"
	"github.com/luissince/architect-portfolio-sub000/internal/session"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

// Service converts the current cart plus validated contact info into a
// placed order. Effect ordering is fixed: the order is appended to the
// ledger and written to the last-order record before the cart is
// cleared, so a crash can leave a stale cart but never a lost order.
type Service struct {
	cart     *cart.Service
	ledger   ledger.Ledger
	store    storage.Store
	sessions *session.Service

	// delay simulates the payment round-trip; zero in tests.
	delay time.Duration
	now   func() time.Time

	mu     sync.Mutex
	status Status
}

type Option func(*Service)

// WithDelay sets the simulated payment round-trip duration.
func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithClock overrides the order timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(carts *cart.Service, led ledger.Ledger, store storage.Store, sessions *session.Service, opts ...Option) *Service {
	s := &Service{
		cart:     carts,
		ledger:   led,
		store:    store,
		sessions: sessions,
		status:   StatusIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// PlaceOrder runs one checkout attempt. A rejected attempt has no side
// effects and must be restarted with corrected input; there is no retry
// sub-state.
func (s *Service) PlaceOrder(ctx context.Context, info domain.CustomerInfo) (*domain.Order, error) {
	if err := s.transition(StatusValidating); err != nil {
		return nil, err
	}

	user, ok := s.sessions.CurrentUser()
	if !ok {
		return nil, s.reject(ErrNotAuthenticated)
	}
	if err := validateCustomerInfo(info); err != nil {
		return nil, s.reject(err)
	}

	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, s.reject(ErrEmptyCart)
	}

	if err := s.transition(StatusCommitting); err != nil {
		return nil, err
	}

	// Single-shot deferred completion standing in for the payment
	// processor; not cancellable mid-flight, not retried.
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, s.fail(ctx.Err())
		}
	}

	number, err := s.ledger.NextOrderNumber(ctx)
	if err != nil {
		return nil, s.fail(fmt.Errorf("generate order number: %w", err))
	}

	order := &domain.Order{
		ID:          uuid.NewString(),
		OrderNumber: number,
		OwnerID:     user.ID,
		Items:       freezeItems(snapshot.Items),
		TotalPrice:  snapshot.TotalPrice(),
		Customer:    info,
		Date:        s.now(),
		Status:      domain.OrderStatusPending,
	}

	if err := s.ledger.Append(ctx, order); err != nil {
		return nil, s.fail(fmt.Errorf("append order: %w", err))
	}
	if err := s.writeLastOrder(ctx, user.ID, order); err != nil {
		return nil, s.fail(err)
	}
	// Cart is cleared last: an order must never be lost relative to an
	// emptied cart.
	if err := s.cart.Clear(ctx); err != nil {
		return nil, s.fail(fmt.Errorf("clear cart after order %s: %w", order.OrderNumber, err))
	}

	s.complete()
	log.Printf("[checkout] order %s placed for %s, total %s", order.OrderNumber, user.ID, order.TotalPrice)
	return order, nil
}

// LastOrder reads the confirmation-surface record for the current
// identity.
func (s *Service) LastOrder(ctx context.Context) (*domain.Order, error) {
	user, ok := s.sessions.CurrentUser()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	data, err := s.store.Get(ctx, lastOrderKey(user.ID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ledger.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load last order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		log.Printf("[checkout] corrupt last-order record for %s: %v", user.ID, err)
		return nil, ledger.ErrOrderNotFound
	}
	return &order, nil
}

func (s *Service) writeLastOrder(ctx context.Context, ownerID string, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal last order: %w", err)
	}
	if err := s.store.Put(ctx, lastOrderKey(ownerID), data); err != nil {
		return fmt.Errorf("persist last order: %w", err)
	}
	return nil
}

func (s *Service) transition(next Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.validNext(next) {
		if s.status == StatusCommitting {
			return ErrCheckoutInFlight
		}
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.status, next)
	}
	s.status = next
	return nil
}

// reject returns the attempt to Idle with the validation error; no side
// effect has happened yet. Rejected is transient: the next attempt
// starts over from the current cart.
func (s *Service) reject(err error) error {
	s.setStatus(StatusRejected)
	s.setStatus(StatusIdle)
	return err
}

// fail aborts a committing attempt. The cart is intentionally left as
// it was: it is only cleared after a successful order write.
func (s *Service) fail(err error) error {
	s.setStatus(StatusIdle)
	return err
}

func (s *Service) complete() {
	s.setStatus(StatusCommitted)
	s.setStatus(StatusIdle)
}

func (s *Service) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func validateCustomerInfo(info domain.CustomerInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return missingField("name")
	}
	if strings.TrimSpace(info.Email) == "" {
		return missingField("email")
	}
	if strings.TrimSpace(info.Phone) == "" {
		return missingField("phone")
	}
	if strings.TrimSpace(info.Address) == "" {
		return missingField("address")
	}
	if !info.PaymentMethod.Valid() {
		return &ValidationError{Field: "paymentMethod", Reason: "must be one of card, cash, transfer"}
	}
	return nil
}

func freezeItems(lines []domain.CartLineItem) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Category:  line.Category,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return items
}

func lastOrderKey(ownerID string) string {
	return fmt.Sprintf("lastorder:%s", ownerID)
}
