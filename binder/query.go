package binder

import "net/http"

// Query binds `query:"name"` fields from the URL query string. Keys that no
// field declares are ignored, so a query cannot override path parameters.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if err := checkTarget(v); err != nil {
			return err
		}

		values := r.URL.Query()
		src := make(map[string][]string)
		for _, name := range tagNames(v, queryTag) {
			if vs, ok := values[name]; ok {
				src[name] = vs
			}
		}
		return decode(queryDecoder, ErrInvalidQuery, v, src)
	}
}
