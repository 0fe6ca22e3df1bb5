package transport

import (
	"context"
	"errors"
	"net/http"

	"nesswear/internal/middleware"
	"nesswear/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Sessions signs the storefront admin in and out of the catalog service
type Sessions interface {
	Login(ctx context.Context, email, password string) (*session.Profile, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*session.Profile, error)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse describes the held session
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *session.Profile `json:"user,omitempty"`
}

// SessionHandler handles login, logout and session inspection
type SessionHandler struct {
	sessions Sessions
	logger   *zap.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessions Sessions, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRoutes registers the session routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.Current)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// Login exchanges credentials for a held session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	profile, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: profile})
}

// Logout forgets the held session. Logging out without one succeeds.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Current reports whether a session is held and who owns it
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.Current(r.Context())
	if errors.Is(err, session.ErrNoSession) {
		middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
		return
	}
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, SessionResponse{Authenticated: true, User: profile})
}
