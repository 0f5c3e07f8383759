package handler

import (
	"errors"
	"net/http"

	"github.com/EdmundsEcho/data-join-oauth/core"
)

// HandlerFunc handles a request already bound into R.
//
//	listFiles := handler.HandlerFunc[FilesRequest](
//		func(ctx handler.Context, req FilesRequest) handler.Response {
//			listing, err := svc.ListFiles(ctx, req.Provider, req.ProjectID, req.AccessToken)
//			if err != nil {
//				return handler.Fail(err)
//			}
//			return handler.JSON(listing)
//		},
//	)
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses HTTP requests into typed values.
type Bind func(r *http.Request, v any) error

// ErrorHandler handles errors from binding or rendering.
type ErrorHandler func(ctx Context, err error)

// WrapOption configures the Wrap function.
type WrapOption[R any] func(*wrapConfig[R])

type wrapConfig[R any] struct {
	binders      []Bind
	errorHandler ErrorHandler
}

// WithBinders sets request binders applied in order. Each binder should
// process only its own struct tags.
func WithBinders[R any](binders ...Bind) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler[R any](h ErrorHandler) WrapOption[R] {
	return func(c *wrapConfig[R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// defaultErrorHandler writes the classified JSON error without logging.
func defaultErrorHandler(ctx Context, err error) {
	writeError(ctx.ResponseWriter(), core.KindOf(err))
}

// Wrap converts a typed HandlerFunc to http.HandlerFunc. A binding failure
// that is not already classified becomes core.KindMissingParameter.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption[R]) http.HandlerFunc {
	cfg := &wrapConfig[R]{
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				var ce *core.Error
				if !errors.As(err, &ce) {
					err = core.Wrap(core.KindMissingParameter, err)
				}
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := h(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
