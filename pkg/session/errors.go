package session

import "errors"

var (
	// ErrNotFound indicates no live record exists for the key.
	ErrNotFound = errors.New("session.not_found")

	// ErrInvalidRecord indicates a record that cannot be stored or decoded.
	ErrInvalidRecord = errors.New("session.invalid")

	// ErrKeyCollision indicates the generated key was already taken.
	ErrKeyCollision = errors.New("session.key_collision")

	// ErrNoStore indicates no store is configured.
	ErrNoStore = errors.New("session.no_store")
)
