package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a classified failure. Provider is optional context describing the
// upstream that produced it; Err is the underlying cause and is only logged.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Kind.Key()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinel comparisons like
// errors.Is(err, core.E(core.KindMissingSession)) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Err == nil && t.Provider == ""
}

// E builds a bare error of the given kind.
func E(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap classifies err as kind. A nil err still yields a classified error.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Wrapf classifies a formatted cause as kind.
func Wrapf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// WithProvider attaches provider context and returns the same error.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// KindOf extracts the kind carried by err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// ClassifyStatus maps an upstream HTTP status to a kind. Only a 401 is a
// re-authorization signal, everything else is internal.
func ClassifyStatus(code int) Kind {
	if code == http.StatusUnauthorized {
		return KindUnauthorized
	}
	return KindInternal
}
