package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsTOML = `
[options]
host = "127.0.0.1"
port = 3099
redis_db = "redis://:hunter2@localhost:6379/0"
tnc_authorized_endpoint = "http://localhost:3099/auth/authorized"
tnc_authorized_drive_endpoint = "http://localhost:3099/drive/authorized"
tnc_register_endpoint = "http://localhost:5005/v1/register"
tnc_app_endpoint = "http://localhost:3000/"
tnc_drive_token_endpoint = "http://localhost:5005/v1/drive-token"
tnc_filesystem_endpoint = "http://localhost:3000/projects"

[oauth_servers.github]
auth_url = "https://github.com/login/oauth/authorize"
token_url = "https://github.com/login/oauth/access_token"
client_id = "gh-id"
client_secret = "gh-very-secret"
identity_server = "https://api.github.com/user"

[drive_servers.dropbox]
auth_uri = "https://www.dropbox.com/oauth2/authorize"
token_uri = "https://api.dropboxapi.com/oauth2/token"
client_id = "dbx"

[drive_servers.dropbox.files_request]
drive_server = "https://api.dropboxapi.com"
endpoint = "/2/files/list_folder"
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, &out, &errOut)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.toml"), []byte(settingsTOML), 0o600))

	out, err := execute(t, "check-config", "--settings-dir", dir, "--env", "testing")
	require.NoError(t, err)
	assert.Contains(t, out, "settings ok")
	assert.Contains(t, out, "127.0.0.1:3099")
	assert.Contains(t, out, "github")
	assert.Contains(t, out, "dropbox")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "gh-very-secret")
}

func TestCheckConfigFailures(t *testing.T) {
	_, err := execute(t, "check-config", "--settings-dir", t.TempDir())
	assert.Error(t, err)

	_, err = execute(t, "check-config", "--env", "staging")
	assert.ErrorContains(t, err, "unknown environment")
}

func TestServeRefusesInvalidSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.toml"), []byte("[options]\ntnc_app_endpoint = \"nope\"\n"), 0o600))

	_, err := execute(t, "serve", "--settings-dir", dir, "--env", "testing")
	assert.ErrorContains(t, err, "load settings")
}
