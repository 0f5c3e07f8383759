package broker

import (
	"context"
	"net/http"
	"slices"
	"time"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/normalize"
	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

// InitiateLogin starts a login with the named identity provider. The flow
// session cookie is set on w; the returned redirect points at the provider's
// authorize endpoint with a fresh PKCE challenge and CSRF state.
func (s *Service) InitiateLogin(ctx context.Context, w http.ResponseWriter, name string) (*Redirect, error) {
	reg := s.registries.Current()
	entry, err := identityEntry(reg, name)
	if err != nil {
		countFlow(stepLoginStart, "", err)
		return nil, err
	}

	redirect, err := s.initiateLogin(ctx, w, reg, entry)
	countFlow(stepLoginStart, string(entry.Provider), err)
	return redirect, err
}

func (s *Service) initiateLogin(ctx context.Context, w http.ResponseWriter, reg *registry.Registry, entry *registry.IdentityEntry) (*Redirect, error) {
	p := string(entry.Provider)

	verifier := oauth2.GenerateVerifier()
	csrf, err := generateToken()
	if err != nil {
		return nil, core.Wrapf(core.KindInternal, "generate csrf token: %w", err).WithProvider(p)
	}

	rec := session.Record{
		Flow:     session.FlowLogin,
		Provider: p,
		Verifier: verifier,
		CSRF:     csrf,
	}
	if err := s.sessions.Create(ctx, w, rec); err != nil {
		return nil, err
	}

	opts := append(slices.Clone(entry.Params), oauth2.S256ChallengeOption(verifier))
	url := entry.OAuth.AuthCodeURL(csrf, opts...)

	s.logger.DebugContext(ctx, "login initiated",
		logger.Provider(p),
		logger.Generation(reg.Generation()),
	)
	return found(url), nil
}

// CompleteLogin handles the identity provider's callback: it validates the
// state against the flow session, redeems the code, fetches and normalizes
// the profile and registers the user. The registrar's cookies travel with
// the returned redirect to the application.
func (s *Service) CompleteLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, cb Callback) (*Redirect, error) {
	reg := s.registries.Current()
	entry, err := identityEntry(reg, name)
	if err != nil {
		countFlow(stepLoginCallback, "", err)
		return nil, err
	}

	redirect, err := s.completeLogin(ctx, w, r, reg, entry, cb)
	countFlow(stepLoginCallback, string(entry.Provider), err)
	return redirect, err
}

func (s *Service) completeLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, reg *registry.Registry, entry *registry.IdentityEntry, cb Callback) (*Redirect, error) {
	p := string(entry.Provider)
	opts := reg.Options()

	if err := cb.validate(p); err != nil {
		return nil, err
	}

	rec, err := s.sessions.Retrieve(ctx, r)
	if err != nil {
		return nil, tag(err, p)
	}
	if err := checkRecord(rec, session.FlowLogin, p, cb.State); err != nil {
		return nil, err
	}
	s.finish(ctx, w, rec)

	tok, err := s.exchangeCode(ctx, exchange.CodeExchange{
		Provider: p,
		Config:   entry.OAuth,
		Code:     cb.Code,
		Verifier: rec.Verifier,
		Timeout:  opts.ExchangeTimeout,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.fetch(ctx, exchange.Request{
		Provider:    p,
		Method:      http.MethodGet,
		URL:         entry.ResourceURL,
		AccessToken: tok.AccessToken,
		Timeout:     opts.ResourceTimeout,
		UserAgent:   opts.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	identity, err := normalize.Identity(entry.Provider, raw)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cookies, err := s.newRegistrar(opts).RegisterUser(ctx, identity.Registration())
	observeCall(callRegistrar, start)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login completed",
		logger.Provider(p),
		logger.Generation(reg.Generation()),
	)
	return found(opts.AppEndpoint, cookies...), nil
}

func identityEntry(reg *registry.Registry, name string) (*registry.IdentityEntry, error) {
	p, ok := provider.ParseIdentity(name)
	if !ok {
		return nil, core.Wrapf(core.KindUnsupportedProvider, "unknown identity provider %q", name)
	}
	entry, ok := reg.Identity(p)
	if !ok {
		return nil, core.Wrapf(core.KindUnsupportedProvider, "identity provider not configured").WithProvider(string(p))
	}
	return entry, nil
}
