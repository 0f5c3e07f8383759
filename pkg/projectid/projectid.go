// Package projectid implements the opaque identifier that scopes a drive
// authorization to a user project.
package projectid

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalid is returned for strings that are not UUID shaped.
var ErrInvalid = errors.New("projectid.invalid")

// ID is a UUID-shaped project identifier. The zero value is invalid.
type ID struct {
	u   uuid.UUID
	set bool
}

// Parse accepts the canonical 8-4-4-4-12 hyphenated form only. Braced, URN
// and unhyphenated spellings are rejected so the value round-trips exactly
// through a URL.
func Parse(s string) (ID, error) {
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return ID{}, ErrInvalid
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, errors.Join(ErrInvalid, err)
	}
	return ID{u: u, set: true}, nil
}

// New returns a random project id.
func New() ID {
	return ID{u: uuid.New(), set: true}
}

// String formats the id in canonical lower-case form.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.u.String()
}

func (id ID) IsZero() bool { return !id.set }

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
