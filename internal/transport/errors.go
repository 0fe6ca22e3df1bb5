package transport

import (
	"errors"
	"net/http"

	"nesswear/internal/apiclient"
	"nesswear/internal/cache"
	"nesswear/internal/middleware"
	"nesswear/internal/service"
	"nesswear/internal/session"

	"go.uber.org/zap"
)

const unavailableMessage = "catalog service unavailable, please retry"

// respondWithServiceError maps an error returned by the service layer onto
// the error envelope. Only unexpected failures are logged at error level.
func respondWithServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var verr *service.ValidationError
	var rejected *apiclient.RemoteRejectedError

	switch {
	case errors.As(err, &verr):
		fields := make([]middleware.ValidationError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = middleware.ValidationError{Field: f.Field, Message: f.Message}
		}
		middleware.RespondWithValidationErrors(w, fields)

	case errors.Is(err, session.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, session.ErrInvalidCredentials.Error())

	case errors.Is(err, apiclient.ErrUnauthorized):
		middleware.RespondWithError(w, http.StatusUnauthorized, "session expired, please sign in again")

	case errors.Is(err, service.ErrUnknownView):
		middleware.RespondWithError(w, http.StatusNotFound, "storefront view not found")

	case errors.As(err, &rejected):
		if rejected.Status >= http.StatusInternalServerError {
			logger.Warn("Catalog service failed", zap.Int("status", rejected.Status), zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, rejected.UserMessage("catalog service error"))
			return
		}
		middleware.RespondWithError(w, rejected.Status, rejected.UserMessage(http.StatusText(rejected.Status)))

	case errors.Is(err, apiclient.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "resource not found")

	case errors.Is(err, apiclient.ErrTransportUnavailable):
		logger.Warn("Catalog service unreachable", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, unavailableMessage)

	case errors.Is(err, cache.ErrDisposed):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "shutting down")

	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
