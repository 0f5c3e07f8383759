// Package registry turns one settings snapshot into ready OAuth clients, one
// per configured provider, and publishes them as a single atomically
// swappable generation.
package registry

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
)

// IdentityEntry is the client used by the login flow for one provider.
type IdentityEntry struct {
	Provider    provider.Identity
	OAuth       *oauth2.Config
	ResourceURL string
	Params      []oauth2.AuthCodeOption
}

// DriveEntry is the client used by the drive flow for one provider.
type DriveEntry struct {
	Provider provider.Drive
	OAuth    *oauth2.Config
	Files    settings.FilesRequest
	Params   []oauth2.AuthCodeOption
}

// Registry is read-only once built and safe for concurrent use.
type Registry struct {
	generation uint64
	settings   *settings.Settings
	identity   map[provider.Identity]*IdentityEntry
	drive      map[provider.Drive]*DriveEntry
}

// Build derives a registry from s. Any unknown provider key or malformed
// endpoint fails the whole build with core.KindConfig.
func Build(s *settings.Settings) (*Registry, error) {
	if s == nil {
		return nil, core.Wrapf(core.KindConfig, "nil settings")
	}
	r := &Registry{
		settings: s,
		identity: make(map[provider.Identity]*IdentityEntry, len(s.Identity)),
		drive:    make(map[provider.Drive]*DriveEntry, len(s.Drive)),
	}

	for key, d := range s.Identity {
		p, ok := provider.ParseIdentity(key)
		if !ok {
			return nil, core.Wrapf(core.KindConfig, "oauth_servers.%s: unknown identity provider", key)
		}
		redirect, err := RedirectURI(s.Options.AuthorizedEndpoint, p.Path())
		if err != nil {
			return nil, core.Wrapf(core.KindConfig, "oauth_servers.%s: %w", key, err)
		}
		if err := validate(d.AuthURL, d.TokenURL, d.IdentityServer); err != nil {
			return nil, core.Wrapf(core.KindConfig, "oauth_servers.%s: %w", key, err)
		}
		r.identity[p] = &IdentityEntry{
			Provider: p,
			OAuth: &oauth2.Config{
				ClientID:     d.ClientID.Reveal(),
				ClientSecret: d.ClientSecret.Reveal(),
				Endpoint: oauth2.Endpoint{
					AuthURL:  d.AuthURL,
					TokenURL: d.TokenURL,
				},
				RedirectURL: redirect,
				Scopes:      strings.Fields(d.Scope),
			},
			ResourceURL: d.IdentityServer,
			Params:      provider.AuthCodeOptions(p.AuthParams()),
		}
	}

	for key, d := range s.Drive {
		p, ok := provider.ParseDrive(key)
		if !ok {
			return nil, core.Wrapf(core.KindConfig, "drive_servers.%s: unknown drive provider", key)
		}
		redirect, err := RedirectURI(s.Options.AuthorizedDriveEndpoint, p.Path())
		if err != nil {
			return nil, core.Wrapf(core.KindConfig, "drive_servers.%s: %w", key, err)
		}
		if err := validate(d.AuthURI, d.TokenURI, d.FilesRequest.ListURL()); err != nil {
			return nil, core.Wrapf(core.KindConfig, "drive_servers.%s: %w", key, err)
		}
		r.drive[p] = &DriveEntry{
			Provider: p,
			OAuth: &oauth2.Config{
				ClientID:     d.ClientID.Reveal(),
				ClientSecret: d.ClientSecret.Reveal(),
				Endpoint: oauth2.Endpoint{
					AuthURL:  d.AuthURI,
					TokenURL: d.TokenURI,
				},
				RedirectURL: redirect,
				Scopes:      append([]string(nil), d.Scopes...),
			},
			Files:  d.FilesRequest,
			Params: provider.AuthCodeOptions(p.AuthParams()),
		}
	}

	return r, nil
}

// RedirectURI joins a callback base and a provider path segment.
func RedirectURI(base, path string) (string, error) {
	if err := settings.ValidateURL(base); err != nil {
		return "", err
	}
	return strings.TrimRight(base, "/") + "/" + path, nil
}

func validate(urls ...string) error {
	for _, raw := range urls {
		if err := settings.ValidateURL(raw); err != nil {
			return err
		}
	}
	return nil
}

// Identity looks up the login client for p.
func (r *Registry) Identity(p provider.Identity) (*IdentityEntry, bool) {
	e, ok := r.identity[p]
	return e, ok
}

// Drive looks up the drive client for p.
func (r *Registry) Drive(p provider.Drive) (*DriveEntry, bool) {
	e, ok := r.drive[p]
	return e, ok
}

// Settings returns the snapshot this registry was built from.
func (r *Registry) Settings() *settings.Settings { return r.settings }

// Options is shorthand for Settings().Options.
func (r *Registry) Options() settings.Options { return r.settings.Options }

// Generation increases by one with every successful Replace.
func (r *Registry) Generation() uint64 { return r.generation }

// IdentityProviders lists the configured identity providers in stable order.
func (r *Registry) IdentityProviders() []provider.Identity {
	out := make([]provider.Identity, 0, len(r.identity))
	for _, p := range provider.Identities {
		if _, ok := r.identity[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// DriveProviders lists the configured drive providers in stable order.
func (r *Registry) DriveProviders() []provider.Drive {
	out := make([]provider.Drive, 0, len(r.drive))
	for _, p := range provider.Drives {
		if _, ok := r.drive[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(gen=%d identity=%v drive=%v)", r.generation, r.IdentityProviders(), r.DriveProviders())
}
