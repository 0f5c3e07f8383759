package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/EdmundsEcho/data-join-oauth/pkg/clientip"
)

// maxKeyLength caps stored keys; longer composites are hashed.
const maxKeyLength = 64

// KeyFunc extracts the rate limit key of a request. An empty key skips
// limiting.
type KeyFunc func(*http.Request) string

// ByIP keys requests on the client address.
func ByIP(r *http.Request) string {
	return clientip.FromRequest(r)
}

// Composite joins the non-empty keys of fns with ":".
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			sum := sha256.Sum256([]byte(combined))
			return hex.EncodeToString(sum[:16])
		}
		return combined
	}
}
