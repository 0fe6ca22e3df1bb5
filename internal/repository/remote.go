package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"nesswear/internal/apiclient"
)

// RemoteClient is the subset of the catalog API client the repositories use
type RemoteClient interface {
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

func pathOf(collection string, parts ...string) string {
	p := "/" + collection
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// decodeEntity decodes either a bare entity or one wrapped as
// {"<wrapper>": {...}, ...}, which some mutation endpoints return.
func decodeEntity(raw json.RawMessage, wrapper string, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err == nil {
			if inner, ok := fields[wrapper]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
				raw = inner
			}
		}
	}
	return json.Unmarshal(raw, v)
}

// wrapNotFound tags a 404 with the entity specific sentinel while keeping
// the original error reachable.
func wrapNotFound(err error, sentinel error) error {
	if errors.Is(err, apiclient.ErrNotFound) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
