package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// keySeparator joins parts into a map key
const keySeparator = "\x1f"

// Key is a structural cache key: an ordered list of parts. String parts are
// kept verbatim; every other part is stored as its JSON encoding, which
// sorts map keys and encodes structs field by field, so structurally equal
// arguments produce equal keys.
type Key []string

// NewKey builds a key from parts
func NewKey(parts ...any) Key {
	k := make(Key, 0, len(parts))
	for _, part := range parts {
		k = append(k, encodePart(part))
	}
	return k
}

func encodePart(part any) string {
	switch v := part.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	data, err := json.Marshal(part)
	if err != nil {
		return fmt.Sprintf("%v", part)
	}
	return string(data)
}

// Append returns a new key with extra parts after k
func (k Key) Append(parts ...any) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, NewKey(parts...)...)
}

// HasPrefix reports whether the first len(prefix) parts of k equal prefix.
// The empty prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	return strings.Join(k, keySeparator)
}
