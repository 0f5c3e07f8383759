// Package clientip resolves the originating client address of a request
// served behind reverse proxies. The gateway keys its kick-off rate limiter
// on it and attaches it to request logs.
//
// Only deploy behind proxies that overwrite X-Forwarded-For and X-Real-IP;
// otherwise a client can choose its own key.
package clientip
