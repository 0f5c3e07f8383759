package binder

import (
	"fmt"
	"net/http"
)

// Path binds `path:"name"` fields using extractor, typically chi.URLParam.
// Parameters the router did not match are left at their zero value.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}
		if err := checkTarget(v); err != nil {
			return err
		}

		src := make(map[string][]string)
		for _, name := range tagNames(v, pathTag) {
			if value := extractor(r, name); value != "" {
				src[name] = []string{value}
			}
		}
		return decode(pathDecoder, ErrInvalidPath, v, src)
	}
}
