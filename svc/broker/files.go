package broker

import (
	"context"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/pkg/normalize"
	"github.com/EdmundsEcho/data-join-oauth/pkg/projectid"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
)

// ListFiles lists the root of a project's drive with the caller's access
// token. A 401 from the provider surfaces as core.KindUnauthorized so the
// caller knows to re-authorize.
func (s *Service) ListFiles(ctx context.Context, name, project, accessToken string) (*canonical.FileListing, error) {
	reg := s.registries.Current()
	entry, err := driveEntry(reg, name)
	if err != nil {
		countFlow(stepListFiles, "", err)
		return nil, err
	}

	listing, err := s.listFiles(ctx, reg, entry, project, accessToken)
	countFlow(stepListFiles, string(entry.Provider), err)
	return listing, err
}

func (s *Service) listFiles(ctx context.Context, reg *registry.Registry, entry *registry.DriveEntry, project, accessToken string) (*canonical.FileListing, error) {
	p := string(entry.Provider)
	opts := reg.Options()

	if _, err := projectid.Parse(project); err != nil {
		return nil, core.Wrap(core.KindProjectID, err).WithProvider(p)
	}
	if accessToken == "" {
		return nil, core.Wrapf(core.KindMissingParameter, "access_token is required").WithProvider(p)
	}

	req := exchange.Request{
		Provider:    p,
		Method:      entry.Files.Method,
		URL:         entry.Files.ListURL(),
		AccessToken: accessToken,
		Timeout:     opts.ResourceTimeout,
		UserAgent:   opts.UserAgent,
	}
	if entry.Files.JSONBodyLs != "" {
		req.Body = []byte(entry.Files.JSONBodyLs)
	}

	raw, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	listing, err := normalize.Files(entry.Provider, raw)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
