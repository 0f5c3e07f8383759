package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("exchange: unauthorized")
	ErrUpstream     = errors.New("exchange: upstream error")
	ErrNoConfig     = errors.New("exchange: no oauth2 config")
)

// StatusError is a non-2xx answer from a provider resource endpoint. The
// body is kept for server side logs only.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error // sentinel, for errors.Is()
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return e.Err }

func classifyStatus(code int) error {
	if code == 401 {
		return ErrUnauthorized
	}
	return ErrUpstream
}
