package core

import "net/http"

// Kind classifies a failure by meaning. Every failure that reaches a caller
// is rendered as {error, message} using the kind's key and message.
type Kind uint8

const (
	KindInternal Kind = iota
	KindReadSession
	KindWriteSession
	KindMissingSession
	KindMissingChallenge
	KindMissingCookie
	KindInvalidState
	KindRegistrarSession
	KindJSONParsing
	KindInvalidResponse
	KindMissingProperty
	KindMissingParameter
	KindTokenCreation
	KindUnauthorized
	KindDriveToken
	KindInvalidURL
	KindUnsupportedProvider
	KindProjectID
	KindConfig
	KindRateLimited
	KindNotFound
)

type kindInfo struct {
	status  int
	key     string
	message string
}

var kinds = map[Kind]kindInfo{
	KindInternal:            {http.StatusInternalServerError, "internal", "Internal error"},
	KindReadSession:         {http.StatusUnauthorized, "read_session", "Could not read from session"},
	KindWriteSession:        {http.StatusInternalServerError, "write_session", "Could not write to session"},
	KindMissingSession:      {http.StatusNoContent, "missing_session", "Missing session"},
	KindMissingChallenge:    {http.StatusUnauthorized, "missing_challenge", "Missing credentials"},
	KindMissingCookie:       {http.StatusUnauthorized, "missing_cookie", "Failed to request a session token"},
	KindInvalidState:        {http.StatusUnauthorized, "invalid_state", "State validation failed"},
	KindRegistrarSession:    {http.StatusBadRequest, "registrar_session", "Could not create a session"},
	KindJSONParsing:         {http.StatusInternalServerError, "json_parsing", "Parsing the response body failed"},
	KindInvalidResponse:     {http.StatusUnauthorized, "invalid_response", "Response failed to validate"},
	KindMissingProperty:     {http.StatusBadRequest, "missing_property", "Missing data from the provider"},
	KindMissingParameter:    {http.StatusBadRequest, "missing_parameter", "The request is missing a parameter"},
	KindTokenCreation:       {http.StatusInternalServerError, "token_creation", "Token creation error"},
	KindUnauthorized:        {http.StatusUnauthorized, "unauthorized", "Missing credentials"},
	KindDriveToken:          {http.StatusUnauthorized, "drive_token", "Failed to retrieve token"},
	KindInvalidURL:          {http.StatusNotFound, "invalid_url", "Malformed url"},
	KindUnsupportedProvider: {http.StatusBadRequest, "unsupported_provider", "Invalid oauth provider"},
	KindProjectID:           {http.StatusBadRequest, "project_id", "Require a valid project id"},
	KindConfig:              {http.StatusInternalServerError, "config", "Configuration error"},
	KindRateLimited:         {http.StatusTooManyRequests, "rate_limited", "Too many requests"},
	KindNotFound:            {http.StatusNotFound, "not_found", "Auth service 404"},
}

func (k Kind) info() kindInfo {
	if i, ok := kinds[k]; ok {
		return i
	}
	return kinds[KindInternal]
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int { return k.info().status }

// Key returns the machine readable identifier written to the "error" field.
func (k Kind) Key() string { return k.info().key }

// Message returns the sanitized message safe to show to a caller.
func (k Kind) Message() string { return k.info().message }

func (k Kind) String() string { return k.Key() }

// IsSessionState reports whether the kind means the flow state held for the
// browser is gone or incomplete. Restarting the flow at kick-off recovers.
func (k Kind) IsSessionState() bool {
	switch k {
	case KindMissingSession, KindMissingChallenge, KindReadSession, KindInvalidState:
		return true
	}
	return false
}
