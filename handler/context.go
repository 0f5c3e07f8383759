package handler

import (
	"context"
	"net/http"
)

// Context is the request context handed to a HandlerFunc. Deadline,
// cancellation and values come from the request it was built from.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext binds w and r into a Context.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return requestContext{Context: r.Context(), w: w, r: r}
}

type requestContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c requestContext) Request() *http.Request { return c.r }

func (c requestContext) ResponseWriter() http.ResponseWriter { return c.w }
