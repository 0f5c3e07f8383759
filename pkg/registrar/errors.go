package registrar

import "errors"

var (
	ErrNoEndpoint      = errors.New("registrar: endpoint not configured")
	ErrRejected        = errors.New("registrar: request rejected")
	ErrNoSessionCookie = errors.New("registrar: response carried no Set-Cookie")
	ErrNoAccountCookie = errors.New("registrar: account session cookie required")
)
