// Package cookie wraps net/http cookies with shared defaults (path "/",
// HttpOnly, SameSite=Lax) and optional HMAC-SHA256 signing.
//
// The session broker stores only an opaque store key in its cookie. When
// COOKIE_SECRETS is set the key is signed so a tampered cookie is rejected
// before the store is consulted. Multiple comma separated secrets allow
// rotation: the first signs, all verify.
//
//	man, err := cookie.New(nil, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//	man.Set(w, "auth_session", key, cookie.WithMaxAge(600))
//	key, err := man.Get(r, "auth_session")
//
// Forward copies cookies received from an upstream service onto a response,
// which is how the registrar's account session reaches the browser.
package cookie
