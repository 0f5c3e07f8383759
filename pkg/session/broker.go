package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/cookie"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
)

// Broker correlates a browser to its flow record through one opaque cookie.
type Broker struct {
	store   Store
	cookies *cookie.Manager
	config  Config
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Broker. A store is required.
func New(opts ...Option) (*Broker, error) {
	b := &Broker{
		config: DefaultConfig(),
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		return nil, ErrNoStore
	}
	if b.cookies == nil {
		m, err := cookie.New(nil, cookie.WithSecure(b.config.SecureCookies))
		if err != nil {
			return nil, err
		}
		b.cookies = m
	}
	if b.config.TTL <= 0 {
		b.config.TTL = DefaultConfig().TTL
	}
	if b.config.CookieName == "" {
		b.config.CookieName = DefaultConfig().CookieName
	}
	return b, nil
}

// CookieName returns the name of the session cookie.
func (b *Broker) CookieName() string { return b.config.CookieName }

// Create persists rec and sets the session cookie on w.
func (b *Broker) Create(ctx context.Context, w http.ResponseWriter, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = b.now().UTC()
	}
	key, err := b.store.Put(ctx, rec, b.config.TTL)
	if err != nil {
		return core.Wrap(core.KindWriteSession, err).WithProvider(rec.Provider)
	}

	b.cookies.Set(w, b.config.CookieName, key,
		cookie.WithMaxAge(int(b.config.TTL/time.Second)),
		cookie.WithSecure(b.config.SecureCookies),
	)
	b.logger.DebugContext(ctx, "flow session created",
		logger.Flow(string(rec.Flow)),
		logger.Provider(rec.Provider),
	)
	return nil
}

// Retrieve loads the record addressed by the request's session cookie.
//
// An absent, tampered or unknown cookie and an expired record fail with
// core.KindMissingSession; a store failure with core.KindReadSession; a
// record lacking the verifier or CSRF token with core.KindMissingChallenge.
func (b *Broker) Retrieve(ctx context.Context, r *http.Request) (*Record, error) {
	key, err := b.cookies.Get(r, b.config.CookieName)
	if err != nil {
		return nil, core.Wrap(core.KindMissingSession, err)
	}

	rec, err := b.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, core.Wrap(core.KindMissingSession, err)
	case err != nil:
		return nil, core.Wrap(core.KindReadSession, err)
	}

	if !rec.Complete() {
		return nil, core.Wrapf(core.KindMissingChallenge, "session record lacks verifier or csrf token").
			WithProvider(rec.Provider)
	}
	return rec, nil
}

// Finish deletes a consumed record and expires the cookie. Records are
// single use: a callback that got this far never reuses its verifier.
func (b *Broker) Finish(ctx context.Context, w http.ResponseWriter, rec *Record) error {
	b.cookies.Delete(w, b.config.CookieName)
	if rec == nil || rec.Key == "" {
		return nil
	}
	if err := b.store.Delete(ctx, rec.Key); err != nil {
		return core.Wrap(core.KindWriteSession, err).WithProvider(rec.Provider)
	}
	return nil
}

// Destroy removes whatever session the request carries. It is idempotent:
// an absent cookie or record is not an error.
func (b *Broker) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	key, err := b.cookies.Get(r, b.config.CookieName)
	if err != nil {
		return nil
	}
	b.cookies.Delete(w, b.config.CookieName)
	if err := b.store.Delete(ctx, key); err != nil {
		return core.Wrap(core.KindWriteSession, err)
	}
	return nil
}
