package binder

import "errors"

var (
	ErrInvalidTarget = errors.New("binder: target must be a non-nil pointer to struct")
	ErrInvalidPath   = errors.New("binder: invalid path parameter")
	ErrInvalidQuery  = errors.New("binder: invalid query parameter")
)
