package handler

import (
	"encoding/json"
	"net/http"

	"github.com/EdmundsEcho/data-join-oauth/core"
)

// ErrorBody is the wire shape of every failure.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, j.status, j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON renders v as the response body with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError renders only the kind's sanitized key and message. For a 204
// the body is dropped by net/http.
func writeError(w http.ResponseWriter, kind core.Kind) {
	_ = writeJSON(w, kind.Status(), ErrorBody{Error: kind.Key(), Message: kind.Message()})
}

type failResponse struct {
	err error
}

func (f failResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}

// Fail hands err to the route's error handler, which logs it and renders
// the classified JSON body.
func Fail(err error) Response {
	if err == nil {
		err = core.E(core.KindInternal)
	}
	return failResponse{err: err}
}
