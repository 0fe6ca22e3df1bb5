package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the remote service rejected the held credential.
	// The credential has already been purged when this is returned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransportUnavailable covers timeouts, DNS failures, refused
	// connections and any other failure to get a response at all.
	ErrTransportUnavailable = errors.New("catalog service unavailable")

	// ErrNotFound is matched by a RemoteRejectedError carrying a 404
	ErrNotFound = errors.New("resource not found")
)

// RemoteRejectedError is a non-2xx application response
type RemoteRejectedError struct {
	Status  int
	Message string // server supplied message, empty if none
	Body    []byte
}

func (e *RemoteRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote rejected request (%d)", e.Status)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404 rejections
func (e *RemoteRejectedError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// UserMessage returns the server message verbatim, or fallback when the
// server did not provide one
func (e *RemoteRejectedError) UserMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
