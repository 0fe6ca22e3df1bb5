package session

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNoSession is returned by Store.Load when nothing is persisted
	ErrNoSession = errors.New("no session")
	// ErrInvalidCredentials is returned when the catalog service refuses a login
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RoleAdmin is the only role the storefront grants a logged-in user
const RoleAdmin = "admin"

// Profile is the signed-in user as shown by the admin UI
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the persisted local state: the held credential and its user
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Store persists at most one session per profile
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNoSession
	}
	s := *m.current
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *s
	m.current = &stored
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}
