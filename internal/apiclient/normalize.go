package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ServerIDKey is the identifier key the remote service puts on every object
const ServerIDKey = "_id"

// NormalizeIDs rewrites every object in a JSON document so its identifier is
// exposed as "id" and the server key is gone. Objects nested at any depth,
// including inside arrays, are rewritten. An object that already carries a
// non-empty "id" keeps it. Numbers are preserved exactly.
func NormalizeIDs(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	out, err := json.Marshal(rewriteIDs(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to encode normalized body: %w", err)
	}
	return out, nil
}

func rewriteIDs(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = rewriteIDs(child)
		}
		if serverID, ok := node[ServerIDKey]; ok {
			if !hasID(node["id"]) {
				node["id"] = idValue(serverID)
			}
			delete(node, ServerIDKey)
		}
		return node
	case []any:
		for i, child := range node {
			node[i] = rewriteIDs(child)
		}
		return node
	default:
		return v
	}
}

func hasID(v any) bool {
	switch id := v.(type) {
	case nil:
		return false
	case string:
		return id != ""
	default:
		return true
	}
}

// idValue flattens the identifier to a string where it has a scalar form.
// Extended JSON ids ({"$oid": "..."}) collapse to their hex string.
func idValue(v any) any {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case map[string]any:
		if oid, ok := id["$oid"].(string); ok {
			return oid
		}
	}
	return v
}
