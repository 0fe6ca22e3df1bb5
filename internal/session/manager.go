package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"nesswear/internal/apiclient"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Poster sends an unauthenticated JSON request to the catalog service
type Poster interface {
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Manager holds the current credential. It is the credential source of the
// remote catalog client: it hands out the stored token and purges it when
// the token has expired or the catalog service rejects it.
type Manager struct {
	store     Store
	login     Poster
	loginPath string
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewManager creates a session manager over store. login is the client used
// for the login call; it must not itself draw credentials from the manager.
func NewManager(store Store, login Poster, loginPath string, logger *zap.Logger) *Manager {
	return &Manager{
		store:     store,
		login:     login,
		loginPath: loginPath,
		logger:    logger,
		now:       time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
	User    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges email and password for a token and persists the session.
// Every signed-in user is an admin of the storefront.
func (m *Manager) Login(ctx context.Context, email, password string) (*Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	raw, err := m.login.Post(ctx, m.loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		var rejected *apiclient.RemoteRejectedError
		if errors.Is(err, apiclient.ErrUnauthorized) || (errors.As(err, &rejected) && rejected.Status < 500) {
			m.logger.Info("Login rejected", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	var res loginResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if !res.Success || res.Token == "" {
		m.logger.Info("Login refused", zap.String("email", email), zap.String("message", res.Message))
		return nil, ErrInvalidCredentials
	}

	s := &Session{
		Token: res.Token,
		User: Profile{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  RoleAdmin,
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	m.logger.Info("Session started", zap.String("user_id", s.User.ID))
	return &s.User, nil
}

// Logout forgets the held credential
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.logger.Info("Session ended")
	return nil
}

// Current returns the signed-in profile. It fails with ErrNoSession when no
// usable credential is held.
func (m *Manager) Current(ctx context.Context) (*Profile, error) {
	s, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return &s.User, nil
}

// Token implements apiclient.Credentials. No session yields an empty token
// and no error.
func (m *Manager) Token(ctx context.Context) (string, error) {
	s, err := m.load(ctx)
	if errors.Is(err, ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// Invalidate implements apiclient.Credentials
func (m *Manager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Warn("Catalog service rejected the held credential, clearing session")
	return m.store.Clear(ctx)
}

// load reads the session and purges it if the token has expired
func (m *Manager) load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s.Token == "" || m.expired(s.Token) {
		m.logger.Info("Held credential expired, clearing session", zap.String("user_id", s.User.ID))
		if err := m.store.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}
	return s, nil
}

// expired inspects the exp claim without verifying the signature; only the
// catalog service can verify its own tokens. Tokens that are not JWTs or
// carry no exp are treated as current.
func (m *Manager) expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !m.now().Before(claims.ExpiresAt.Time)
}
