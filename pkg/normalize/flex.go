package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// flexString accepts a JSON string or number and keeps its text. Providers
// disagree on whether ids and sizes are quoted.
type flexString struct {
	value string
	set   bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexString{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString{value: s, set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString{value: n.String(), set: true}
	return nil
}

// ptr returns nil when the field was absent or null.
func (f flexString) ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// optional treats an empty string as absent.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
