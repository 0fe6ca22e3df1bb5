package middleware

import (
	"context"
	"errors"
	"net/http"

	"nesswear/internal/session"

	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ProfileKey  contextKey = "profile"
)

// SessionReader reports the signed-in profile
type SessionReader interface {
	Current(ctx context.Context) (*session.Profile, error)
}

// RequireSession rejects requests while no usable credential is held and
// puts the signed-in profile into the request context
func RequireSession(sessions SessionReader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := sessions.Current(r.Context())
			if errors.Is(err, session.ErrNoSession) {
				logger.Debug("No session held", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, "sign in required")
				return
			}
			if err != nil {
				logger.Error("Failed to load session", zap.Error(err))
				RespondWithError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), ProfileKey, profile)
			ctx = context.WithValue(ctx, UserIDKey, profile.ID)
			ctx = context.WithValue(ctx, UserRoleKey, profile.Role)

			logger.Debug("Session verified",
				zap.String("user_id", profile.ID),
				zap.String("role", profile.Role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProfile extracts the signed-in profile from request context
func GetProfile(ctx context.Context) (*session.Profile, bool) {
	profile, ok := ctx.Value(ProfileKey).(*session.Profile)
	return profile, ok
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
