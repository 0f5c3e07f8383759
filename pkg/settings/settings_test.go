package settings_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdmundsEcho/data-join-oauth/pkg/environment"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
)

const defaultTOML = `
[options]
host = "127.0.0.1"
port = 3099
redis_db = "redis://localhost:6379/0"
tnc_authorized_endpoint = "http://localhost:3099/authorized"
tnc_authorized_drive_endpoint = "http://localhost:3099/drive/authorized"
tnc_register_endpoint = "http://localhost:5005/v1/register"
tnc_app_endpoint = "http://localhost:3000/"
tnc_drive_token_endpoint = "http://localhost:5005/v1/drive-token"
tnc_filesystem_endpoint = "http://localhost:3000/projects"

[oauth_servers.google]
auth_url = "https://accounts.google.com/o/oauth2/v2/auth"
token_url = "https://oauth2.googleapis.com/token"
client_id = "abc"
client_secret = "file-secret"
identity_server = "https://www.googleapis.com/oauth2/v2/userinfo"
scope = "email profile"

[drive_servers.dropbox]
auth_uri = "https://www.dropbox.com/oauth2/authorize"
token_uri = "https://api.dropboxapi.com/oauth2/token"
client_id = "dbx"
scopes = ["files.metadata.read"]

[drive_servers.dropbox.files_request]
drive_server = "https://api.dropboxapi.com"
endpoint = "/2/files/list_folder"
`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoad(t *testing.T) {
	t.Run("layers files and applies defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "default.toml", defaultTOML)
		writeFile(t, dir, "production.yaml", "options:\n  port: 8080\n")

		s, err := settings.Load(dir, environment.Production)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:8080", s.Options.Addr())
		assert.Equal(t, settings.DefaultUserAgent, s.Options.UserAgent)
		assert.Equal(t, settings.DefaultAccountSessionCookie, s.Options.AccountSessionCookie)
		assert.Equal(t, settings.DefaultTimeout, s.Options.ExchangeTimeout)
		assert.Equal(t, "post", s.Drive["dropbox"].FilesRequest.Method)
		assert.Equal(t, "abc", s.Identity["google"].ClientID.Reveal())
	})

	t.Run("missing environment overlay is fine", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "default.toml", defaultTOML)

		s, err := settings.Load(dir, environment.Testing)
		require.NoError(t, err)
		assert.Equal(t, 3099, s.Options.Port)
	})

	t.Run("environment overrides options and credentials", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "default.toml", defaultTOML)
		t.Setenv("AUTH_PORT", "4000")
		t.Setenv("AUTH_OAUTH_GOOGLE_CLIENT_SECRET", "env-secret")
		t.Setenv("AUTH_DRIVE_DROPBOX_CLIENT_ID", "env-dbx")

		s, err := settings.Load(dir, environment.Development)
		require.NoError(t, err)
		assert.Equal(t, 4000, s.Options.Port)
		assert.Equal(t, "env-secret", s.Identity["google"].ClientSecret.Reveal())
		assert.Equal(t, "abc", s.Identity["google"].ClientID.Reveal())
		assert.Equal(t, "env-dbx", s.Drive["dropbox"].ClientID.Reveal())
	})

	t.Run("default file is required", func(t *testing.T) {
		_, err := settings.Load(t.TempDir(), environment.Development)
		assert.ErrorIs(t, err, settings.ErrNoSettingsFile)
	})

	t.Run("invalid settings are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "default.toml", defaultTOML)
		writeFile(t, dir, "testing.toml", "[options]\ntnc_app_endpoint = \"not a url\"\n")

		_, err := settings.Load(dir, environment.Testing)
		require.Error(t, err)
		assert.ErrorIs(t, err, settings.ErrInvalidSettings)
		assert.ErrorIs(t, err, settings.ErrInvalidURL)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *settings.Settings {
		return &settings.Settings{
			Options: settings.Options{
				AuthorizedEndpoint: "http://localhost/authorized",
				RegisterEndpoint:   "http://localhost/register",
				AppEndpoint:        "http://localhost/",
			},
			Identity: map[string]settings.IdentityDescriptor{
				"github": {
					AuthURL:        "https://github.com/login/oauth/authorize",
					TokenURL:       "https://github.com/login/oauth/access_token",
					ClientID:       "id",
					IdentityServer: "https://api.github.com/user",
				},
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		t.Parallel()
		s := valid()
		d := s.Identity["github"]
		d.ClientID = ""
		d.TokenURL = "ftp://example.com/token"
		s.Identity["github"] = d

		err := s.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, settings.ErrMissingValue)
		assert.ErrorIs(t, err, settings.ErrInvalidURL)
		assert.Contains(t, err.Error(), "oauth_servers.github.client_id")
		assert.Contains(t, err.Error(), "oauth_servers.github.token_url")
	})

	t.Run("drive listing method", func(t *testing.T) {
		t.Parallel()
		s := valid()
		s.Options.AuthorizedDriveEndpoint = "http://localhost/drive/authorized"
		s.Options.DriveTokenEndpoint = "http://localhost/drive-token"
		s.Options.FilesystemEndpoint = "http://localhost/projects"
		s.Drive = map[string]settings.DriveDescriptor{
			"google": {
				AuthURI:  "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURI: "https://oauth2.googleapis.com/token",
				ClientID: "id",
				FilesRequest: settings.FilesRequest{
					Method:      "patch",
					DriveServer: "https://www.googleapis.com",
				},
			},
		}
		assert.ErrorContains(t, s.Validate(), "files_request.method")
	})
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	assert.NoError(t, settings.ValidateURL("https://example.com/a"))
	for _, raw := range []string{"example.com", "/relative", "mailto:x@example.com", "http://", "http://[::1"} {
		assert.ErrorIs(t, settings.ValidateURL(raw), settings.ErrInvalidURL, raw)
	}
}

func TestSecretNeverPrints(t *testing.T) {
	t.Parallel()

	s := settings.Secret("hunter2")
	d := settings.IdentityDescriptor{ClientID: "abc", ClientSecret: s}

	assert.Equal(t, "hunter2", s.Reveal())
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v %s", d, d, d, s), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", d), "abc")
	assert.Empty(t, settings.Secret("").String())
}

func TestOptionsFilesystemURL(t *testing.T) {
	t.Parallel()

	o := settings.Options{FilesystemEndpoint: "http://localhost:3000/projects/"}
	got, err := o.FilesystemURL("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/projects/11111111-1111-1111-1111-111111111111/files", got)
}

func TestFilesRequestListURL(t *testing.T) {
	t.Parallel()

	f := settings.FilesRequest{DriveServer: "https://www.googleapis.com", Endpoint: "/drive/v3/files", QueryLs: "?q=x"}
	assert.Equal(t, "https://www.googleapis.com/drive/v3/files?q=x", f.ListURL())
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "default.toml", defaultTOML)

	var calls atomic.Int32
	reloaded := make(chan struct{}, 4)
	w := settings.NewWatcher(dir, func(context.Context) error {
		calls.Add(1)
		reloaded <- struct{}{}
		return errors.New("keep old generation")
	}, settings.WithDebounce(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	for range 3 {
		writeFile(t, dir, "default.toml", defaultTOML+"\n")
	}
	writeFile(t, dir, "notes.txt", "ignored")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not triggered")
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	assert.NoError(t, <-done)
}
