package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/ledger"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

var (
	ErrMissingFields = errors.New("name, email and password are required")
	ErrEmailTaken    = errors.New("an account with this email already exists")
)

// State is a tagged session variant. Consumers must not redirect while
// the state is still StateUnknown; only Hydrate resolves it.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

const sessionKey = "session:current"

// identityRecord is the stored shape under user:<email>.
type identityRecord struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"passwordHash"`
}

// Service is the identity boundary gating checkout completion and order
// history. Credential storage is local and mock-grade: one seeded demo
// identity plus whatever Register creates.
type Service struct {
	store  storage.Store
	ledger ledger.Ledger

	mu    sync.RWMutex
	state State
	user  *domain.User
}

func NewService(store storage.Store, led ledger.Ledger) *Service {
	return &Service{
		store:  store,
		ledger: led,
		state:  StateUnknown,
	}
}

// Hydrate resolves the session out of StateUnknown from the durable
// session record. A missing or corrupt record means anonymous; it is
// never an error surfaced to the caller.
func (s *Service) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			log.Printf("[session] hydration failed, treating as anonymous: %v", err)
		}
		s.state = StateAnonymous
		return
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		log.Printf("[session] corrupt session record, treating as anonymous: %v", err)
		s.state = StateAnonymous
		return
	}

	s.user = &user
	s.state = StateAuthenticated
}

// Login checks the credential pair against the stored identity. A bad
// email and a bad password both return (false, nil); the caller cannot
// distinguish them, so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (bool, error) {
	if email == DemoEmail {
		if err := s.ensureDemoIdentity(ctx); err != nil {
			return false, err
		}
	}

	record, err := s.loadIdentity(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return false, nil
	}

	if record.User.Email == DemoEmail {
		if err := s.seedDemoOrders(ctx, record.User.ID); err != nil {
			return false, err
		}
	}

	if err := s.authenticate(ctx, record.User); err != nil {
		return false, err
	}
	return true, nil
}

// Register creates a new identity with an empty order history and
// authenticates it. Confirmation matching is a form concern handled at
// the HTTP edge.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}

	if _, err := s.loadIdentity(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	record := identityRecord{
		User: domain.User{
			ID:    uuid.NewString(),
			Name:  name,
			Email: email,
		},
		PasswordHash: string(hash),
	}
	if err := s.saveIdentity(ctx, record); err != nil {
		return err
	}

	return s.authenticate(ctx, record.User)
}

// Logout drops the in-memory identity and wipes the durable session
// record. Order history stays: it is keyed by the stable user id, so a
// later login sees it again.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.state = StateAnonymous
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the authenticated user, or false when the session
// is anonymous or still unresolved.
func (s *Service) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated || s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Service) authenticate(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.store.Put(ctx, sessionKey, data); err != nil {
		return fmt.Errorf("persist session record: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.state = StateAuthenticated
	s.mu.Unlock()
	return nil
}

func (s *Service) loadIdentity(ctx context.Context, email string) (*identityRecord, error) {
	data, err := s.store.Get(ctx, identityKey(email))
	if err != nil {
		return nil, err
	}
	var record identityRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt identity record: %w", err)
	}
	return &record, nil
}

func (s *Service) saveIdentity(ctx context.Context, record identityRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal identity record: %w", err)
	}
	if err := s.store.Put(ctx, identityKey(record.User.Email), data); err != nil {
		return fmt.Errorf("persist identity record: %w", err)
	}
	return nil
}

func identityKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}
