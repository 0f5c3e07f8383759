package settings

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
)

// Validate reports every problem at once. The returned error wraps
// ErrInvalidSettings.
func (s *Settings) Validate() error {
	var errs []error
	check := func(field, raw string, required bool) {
		if raw == "" {
			if required {
				errs = append(errs, fmt.Errorf("%s: %w", field, ErrMissingValue))
			}
			return
		}
		if err := ValidateURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	o := s.Options
	check("options.tnc_authorized_endpoint", o.AuthorizedEndpoint, len(s.Identity) > 0)
	check("options.tnc_authorized_drive_endpoint", o.AuthorizedDriveEndpoint, len(s.Drive) > 0)
	check("options.tnc_register_endpoint", o.RegisterEndpoint, len(s.Identity) > 0)
	check("options.tnc_app_endpoint", o.AppEndpoint, len(s.Identity) > 0)
	check("options.tnc_drive_token_endpoint", o.DriveTokenEndpoint, len(s.Drive) > 0)
	check("options.tnc_filesystem_endpoint", o.FilesystemEndpoint, len(s.Drive) > 0)
	if o.Port < 0 || o.Port > 65535 {
		errs = append(errs, fmt.Errorf("options.port: %d out of range", o.Port))
	}

	for _, name := range sortedKeys(s.Identity) {
		d := s.Identity[name]
		prefix := "oauth_servers." + name
		check(prefix+".auth_url", d.AuthURL, true)
		check(prefix+".token_url", d.TokenURL, true)
		check(prefix+".identity_server", d.IdentityServer, true)
		check(prefix+".revocation_url", d.RevocationURL, false)
		if d.ClientID.IsEmpty() {
			errs = append(errs, fmt.Errorf("%s.client_id: %w", prefix, ErrMissingValue))
		}
	}

	for _, name := range sortedKeys(s.Drive) {
		d := s.Drive[name]
		prefix := "drive_servers." + name
		check(prefix+".auth_uri", d.AuthURI, true)
		check(prefix+".token_uri", d.TokenURI, true)
		check(prefix+".files_request.drive_server", d.FilesRequest.DriveServer, true)
		if d.ClientID.IsEmpty() {
			errs = append(errs, fmt.Errorf("%s.client_id: %w", prefix, ErrMissingValue))
		}
		switch d.FilesRequest.Method {
		case "get", "post":
		default:
			errs = append(errs, fmt.Errorf("%s.files_request.method: %q is not get or post", prefix, d.FilesRequest.Method))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidSettings}, errs...)...)
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q needs an http or https scheme", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
