package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrLineNotFound    = errors.New("line not found in cart")
)

// Candidate is the add-time input. Name, Image and Category become the
// line's display snapshot; Price is frozen on the line even if the
// catalog price changes later.
type Candidate struct {
	ProductID string
	Name      string
	Image     string
	Category  string
	Price     decimal.Decimal
	Quantity  int
}

// Service is the single source of truth for the pre-checkout selection.
// It hydrates from durable storage at construction and re-persists the
// full line list synchronously after every mutation.
type Service struct {
	store storage.Store
	key   string

	mu   sync.Mutex
	cart domain.Cart
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService hydrates the cart for the given owner. A missing or corrupt
// record is treated as an empty cart: logged, never returned as an error.
func NewService(ctx context.Context, store storage.Store, ownerID string, opts ...Option) *Service {
	s := &Service{
		store: store,
		key:   cartKey(ownerID),
		cart:  domain.Cart{OwnerID: ownerID},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Printf("[cart] hydration failed, starting empty: %v", err)
		}
		return s
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("[cart] corrupt cart record, starting empty: %v", err)
		return s
	}
	s.cart.Items = items
	return s
}

// AddItem merges on ProductID: an existing line gains the candidate's
// quantity while keeping its original display snapshot (first write
// wins). A new product gets a fresh line with a generated id.
func (s *Service) AddItem(ctx context.Context, candidate Candidate) (domain.Cart, error) {
	if candidate.Quantity <= 0 {
		return domain.Cart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.FindProduct(candidate.ProductID); i >= 0 {
		s.cart.Items[i].Quantity += candidate.Quantity
	} else {
		s.cart.Items = append(s.cart.Items, domain.CartLineItem{
			ID:        uuid.NewString(),
			ProductID: candidate.ProductID,
			Name:      candidate.Name,
			Image:     candidate.Image,
			Category:  candidate.Category,
			Price:     candidate.Price,
			Quantity:  candidate.Quantity,
		})
	}

	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart.Clone(), nil
}

// UpdateQuantity sets the line's quantity. A non-positive quantity is
// equivalent to RemoveItem, so a zero-quantity line is never observable.
func (s *Service) UpdateQuantity(ctx context.Context, lineID string, quantity int) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, lineID)
	}

	i := s.cart.FindLine(lineID)
	if i < 0 {
		return domain.Cart{}, ErrLineNotFound
	}
	s.cart.Items[i].Quantity = quantity

	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart.Clone(), nil
}

// RemoveItem deletes the line if present; removing an unknown id is a
// no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, lineID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, lineID)
}

func (s *Service) removeLocked(ctx context.Context, lineID string) (domain.Cart, error) {
	i := s.cart.FindLine(lineID)
	if i < 0 {
		return s.cart.Clone(), nil
	}
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)

	if err := s.persist(ctx); err != nil {
		return domain.Cart{}, err
	}
	return s.cart.Clone(), nil
}

// Clear removes all lines and the durable record. Checkout calls this
// only after the order has been written.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Items = nil
	s.cart.UpdatedAt = s.now()
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy decoupled from later mutations.
func (s *Service) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Service) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

func (s *Service) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

func (s *Service) persist(ctx context.Context) error {
	s.cart.UpdatedAt = s.now()
	data, err := json.Marshal(s.cart.Items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.store.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist cart failed: %w", err)
	}
	return nil
}

func cartKey(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}
