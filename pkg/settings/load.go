package settings

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/EdmundsEcho/data-join-oauth/pkg/config"
	"github.com/EdmundsEcho/data-join-oauth/pkg/environment"
)

// EnvPrefix prefixes every environment override of the settings.
const EnvPrefix = "AUTH_"

// Load reads the layered settings from dir:
//
//  1. default.{toml,yaml} (required)
//  2. <environment>.{toml,yaml} (optional)
//  3. AUTH_* environment variables
//
// Provider credentials may be supplied as AUTH_OAUTH_<NAME>_CLIENT_ID,
// AUTH_OAUTH_<NAME>_CLIENT_SECRET, AUTH_DRIVE_<NAME>_CLIENT_ID and
// AUTH_DRIVE_<NAME>_CLIENT_SECRET. The result is validated.
func Load(dir string, env environment.Environment) (*Settings, error) {
	base := config.FindFile(filepath.Join(dir, "default"))
	if base == "" {
		return nil, fmt.Errorf("%w in %s", ErrNoSettingsFile, dir)
	}

	opts := []config.Option{config.WithFile(base)}
	if overlay := config.FindFile(filepath.Join(dir, env.String())); overlay != "" {
		opts = append(opts, config.WithOptionalFile(overlay))
	}
	opts = append(opts, config.WithEnvPrefix(EnvPrefix))

	s := &Settings{}
	if err := config.LoadLayered(s, opts...); err != nil {
		return nil, err
	}
	if err := s.applyCredentialEnv(); err != nil {
		return nil, err
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyCredentialEnv() error {
	for name, d := range s.Identity {
		if err := config.ParseEnv(&d, EnvPrefix+"OAUTH_"+envKey(name)+"_"); err != nil {
			return fmt.Errorf("oauth_servers.%s: %w", name, err)
		}
		s.Identity[name] = d
	}
	for name, d := range s.Drive {
		if err := config.ParseEnv(&d, EnvPrefix+"DRIVE_"+envKey(name)+"_"); err != nil {
			return fmt.Errorf("drive_servers.%s: %w", name, err)
		}
		s.Drive[name] = d
	}
	return nil
}

func envKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
