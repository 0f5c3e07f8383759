// Package ratelimit throttles requests per key with an in-process token
// bucket (golang.org/x/time/rate). The gateway applies it to the flow
// kick-off routes, keyed on the client address.
package ratelimit
