package broker_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
	"github.com/EdmundsEcho/data-join-oauth/svc/broker"
)

const (
	appEndpoint = "http://localhost:3000/"
	projectID   = "11111111-1111-1111-1111-111111111111"
)

func testSettings() *settings.Settings {
	return &settings.Settings{
		Options: settings.Options{
			AuthorizedEndpoint:      "http://localhost:3099/auth/authorized",
			AuthorizedDriveEndpoint: "http://localhost:3099/drive/authorized",
			RegisterEndpoint:        "http://registrar.test/v1/register",
			AppEndpoint:             appEndpoint,
			DriveTokenEndpoint:      "http://registrar.test/v1/drive-token",
			FilesystemEndpoint:      "http://localhost:3000/projects",
			AccountSessionCookie:    "session",
			UserAgent:               "Luci Auth Service",
		},
		Identity: map[string]settings.IdentityDescriptor{
			"google": {
				AuthURL:        "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:       "https://oauth2.googleapis.com/token",
				ClientID:       "abc",
				ClientSecret:   "shh",
				IdentityServer: "https://www.googleapis.com/oauth2/v2/userinfo",
				Scope:          "email profile",
			},
			"github": {
				AuthURL:        "https://github.com/login/oauth/authorize",
				TokenURL:       "https://github.com/login/oauth/access_token",
				ClientID:       "gh",
				IdentityServer: "https://api.github.com/user",
				Scope:          "read:user",
			},
		},
		Drive: map[string]settings.DriveDescriptor{
			"google": {
				AuthURI:  "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURI: "https://oauth2.googleapis.com/token",
				ClientID: "gd",
				Scopes:   []string{"https://www.googleapis.com/auth/drive.readonly"},
				FilesRequest: settings.FilesRequest{
					Method:      "get",
					DriveServer: "https://www.googleapis.com",
					Endpoint:    "/drive/v3/files",
					QueryLs:     "?q='root'+in+parents",
				},
			},
			"dropbox": {
				AuthURI:  "https://www.dropbox.com/oauth2/authorize",
				TokenURI: "https://api.dropboxapi.com/oauth2/token",
				ClientID: "dbx",
				Scopes:   []string{"files.metadata.read"},
				FilesRequest: settings.FilesRequest{
					Method:      "post",
					DriveServer: "https://api.dropboxapi.com",
					Endpoint:    "/2/files/list_folder",
					JSONBodyLs:  `{"path":""}`,
				},
			},
		},
	}
}

type fixture struct {
	svc       *broker.Service
	handle    *registry.Handle
	exchanger *MockExchanger
	registrar *MockRegistrar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	handle, err := registry.NewHandle(testSettings())
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })
	sessions, err := session.New(session.WithStore(store))
	require.NoError(t, err)

	f := &fixture{
		handle:    handle,
		exchanger: &MockExchanger{},
		registrar: &MockRegistrar{},
	}
	f.svc, err = broker.New(handle, sessions,
		broker.WithExchanger(f.exchanger),
		broker.WithRegistrarFactory(func(settings.Options) broker.Registrar { return f.registrar }),
	)
	require.NoError(t, err)
	return f
}

// callback builds a provider callback request that replays the cookies set
// on rec.
func callback(rec *httptest.ResponseRecorder, path string, q url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path+"?"+q.Encode(), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func query(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "pkg", "normalize", "testdata", name))
	require.NoError(t, err)
	return b
}
