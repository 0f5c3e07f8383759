package settings

import (
	"encoding/json"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret holds a credential. Every printing path (fmt verbs, JSON, slog)
// yields a placeholder; Reveal is the only way to read the value.
type Secret string

func (s Secret) Reveal() string { return string(s) }

func (s Secret) IsEmpty() bool { return s == "" }

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string { return s.String() }

func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }
