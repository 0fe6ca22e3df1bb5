package domain

import (
	"bytes"
	"encoding/json"
)

// Ref is a foreign key to another catalog entity. The remote service sends
// either the bare id or a populated object carrying it.
type Ref string

// UnmarshalJSON accepts "abc", {"id": "abc", ...} and null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if data[0] == '{' {
		var populated struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &populated); err != nil {
			return err
		}
		if len(populated.ID) == 0 {
			*r = ""
			return nil
		}
		return r.UnmarshalJSON(populated.ID)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}

	// Numeric ids are kept verbatim.
	*r = Ref(data)
	return nil
}

func (r Ref) String() string {
	return string(r)
}

// InlineName is a display name the server denormalized onto a product.
// Only string values count; populated objects and other shapes are ignored.
type InlineName string

// UnmarshalJSON keeps string values and drops everything else.
func (n *InlineName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*n = ""
		return nil
	}
	*n = InlineName(s)
	return nil
}
