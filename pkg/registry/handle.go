package registry

import (
	"sync"
	"sync/atomic"

	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
)

// Handle publishes the current registry generation. Readers call Current once
// per request and use that value for every step of the request.
type Handle struct {
	mu      sync.Mutex // serializes Replace
	current atomic.Pointer[Registry]
}

// NewHandle builds the first generation from s. A failure here is fatal to
// the caller: the process must not serve without a registry.
func NewHandle(s *settings.Settings) (*Handle, error) {
	r, err := Build(s)
	if err != nil {
		return nil, err
	}
	r.generation = 1
	h := &Handle{}
	h.current.Store(r)
	return h, nil
}

// Current returns the active generation.
func (h *Handle) Current() *Registry {
	return h.current.Load()
}

// Replace builds a registry from s and swaps it in. When the build fails the
// active generation keeps serving and the error is returned.
func (h *Handle) Replace(s *settings.Settings) (*Registry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, err := Build(s)
	if err != nil {
		return nil, err
	}
	r.generation = h.current.Load().generation + 1
	h.current.Store(r)
	return r, nil
}
