package broker

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/cookie"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/projectid"
	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

// InitiateDrive starts a drive authorization for a project. The project id
// is persisted in the flow session and also prefixes the state sent to the
// provider, ahead of a random CSRF token.
func (s *Service) InitiateDrive(ctx context.Context, w http.ResponseWriter, name, project string) (*Redirect, error) {
	reg := s.registries.Current()
	entry, err := driveEntry(reg, name)
	if err != nil {
		countFlow(stepDriveStart, "", err)
		return nil, err
	}

	redirect, err := s.initiateDrive(ctx, w, reg, entry, project)
	countFlow(stepDriveStart, string(entry.Provider), err)
	return redirect, err
}

func (s *Service) initiateDrive(ctx context.Context, w http.ResponseWriter, reg *registry.Registry, entry *registry.DriveEntry, project string) (*Redirect, error) {
	p := string(entry.Provider)

	pid, err := projectid.Parse(project)
	if err != nil {
		return nil, core.Wrap(core.KindProjectID, err).WithProvider(p)
	}

	verifier := oauth2.GenerateVerifier()
	csrf, err := generateToken()
	if err != nil {
		return nil, core.Wrapf(core.KindInternal, "generate csrf token: %w", err).WithProvider(p)
	}

	rec := session.Record{
		Flow:      session.FlowDrive,
		Provider:  p,
		Verifier:  verifier,
		CSRF:      csrf,
		ProjectID: pid.String(),
	}
	if err := s.sessions.Create(ctx, w, rec); err != nil {
		return nil, err
	}

	opts := append(slices.Clone(entry.Params), oauth2.S256ChallengeOption(verifier))
	url := entry.OAuth.AuthCodeURL(driveState(pid, csrf), opts...)

	s.logger.DebugContext(ctx, "drive authorization initiated",
		logger.Provider(p),
		logger.ProjectID(pid.String()),
		logger.Generation(reg.Generation()),
	)
	return found(url), nil
}

// CompleteDrive handles the drive provider's callback. The project id in the
// state is parsed before any I/O; the CSRF token must match the session and
// the project id must match the one stored at kick-off. On success the drive
// token is registered under the caller's account session and the user agent
// is sent to the project's file listing.
func (s *Service) CompleteDrive(ctx context.Context, w http.ResponseWriter, r *http.Request, name string, cb Callback) (*Redirect, error) {
	reg := s.registries.Current()
	entry, err := driveEntry(reg, name)
	if err != nil {
		countFlow(stepDriveCallback, "", err)
		return nil, err
	}

	redirect, err := s.completeDrive(ctx, w, r, reg, entry, cb)
	countFlow(stepDriveCallback, string(entry.Provider), err)
	return redirect, err
}

func (s *Service) completeDrive(ctx context.Context, w http.ResponseWriter, r *http.Request, reg *registry.Registry, entry *registry.DriveEntry, cb Callback) (*Redirect, error) {
	p := string(entry.Provider)
	opts := reg.Options()

	if err := cb.validate(p); err != nil {
		return nil, err
	}
	pid, csrf, err := splitDriveState(cb.State)
	if err != nil {
		return nil, tag(err, p)
	}

	rec, err := s.sessions.Retrieve(ctx, r)
	if err != nil {
		return nil, tag(err, p)
	}
	if err := checkRecord(rec, session.FlowDrive, p, csrf); err != nil {
		return nil, err
	}
	if rec.ProjectID != pid.String() {
		return nil, core.Wrap(core.KindInvalidState, ErrProjectChanged).WithProvider(p)
	}
	s.finish(ctx, w, rec)

	account := cookie.FromRequest(r, opts.AccountSessionCookie)
	if account == nil || account.Value == "" {
		return nil, core.Wrapf(core.KindMissingSession, "%w: %s", ErrNoAccountSession, opts.AccountSessionCookie).
			WithProvider(p)
	}

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

	dt := newDriveToken(pid, entry, tok, time.Now())

	start := time.Now()
	err = s.newRegistrar(opts).RegisterDriveToken(ctx, dt, account)
	observeCall(callRegistrar, start)
	if err != nil {
		return nil, err
	}

	url, err := opts.FilesystemURL(pid.String())
	if err != nil {
		return nil, core.Wrap(core.KindInvalidURL, err).WithProvider(p)
	}

	s.logger.InfoContext(ctx, "drive authorization completed",
		logger.Provider(p),
		logger.ProjectID(pid.String()),
		logger.Generation(reg.Generation()),
	)
	return found(url), nil
}

// newDriveToken builds the registrar's record from a token response. The
// granted scopes win over the requested ones when the provider reports them.
func newDriveToken(pid projectid.ID, entry *registry.DriveEntry, tok *oauth2.Token, now time.Time) canonical.DriveToken {
	dt := canonical.DriveToken{
		ProjectID:     pid.String(),
		DriveProvider: string(entry.Provider),
		AccessToken:   tok.AccessToken,
		TokenType:     tok.Type(),
		RefreshToken:  tok.RefreshToken,
		TokenURI:      entry.OAuth.Endpoint.TokenURL,
	}

	switch {
	case tok.ExpiresIn > 0:
		v := tok.ExpiresIn
		dt.ExpiresIn = &v
	case !tok.Expiry.IsZero():
		if v := int64(tok.Expiry.Sub(now).Seconds()); v > 0 {
			dt.ExpiresIn = &v
		}
	}

	if granted, ok := tok.Extra("scope").(string); ok && strings.TrimSpace(granted) != "" {
		dt.Scopes = strings.Fields(granted)
	} else if len(entry.OAuth.Scopes) > 0 {
		dt.Scopes = slices.Clone(entry.OAuth.Scopes)
	}
	return dt
}

func driveEntry(reg *registry.Registry, name string) (*registry.DriveEntry, error) {
	p, ok := provider.ParseDrive(name)
	if !ok {
		return nil, core.Wrapf(core.KindUnsupportedProvider, "unknown drive provider %q", name)
	}
	entry, ok := reg.Drive(p)
	if !ok {
		return nil, core.Wrapf(core.KindUnsupportedProvider, "drive provider not configured").WithProvider(string(p))
	}
	return entry, nil
}
