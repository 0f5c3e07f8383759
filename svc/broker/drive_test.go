package broker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/svc/broker"
)

func TestInitiateDrive(t *testing.T) {
	t.Parallel()

	t.Run("dropbox carries project id in state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec := httptest.NewRecorder()

		redirect, err := f.svc.InitiateDrive(context.Background(), rec, "dropbox", projectID)
		require.NoError(t, err)
		assert.Contains(t, redirect.URL, "token_access_type=offline")
		assert.Contains(t, redirect.URL, "state="+projectID)

		q := query(t, redirect.URL)
		assert.Equal(t, "refresh_access", q.Get("refresh_token_key"))
		assert.Equal(t, "http://localhost:3099/drive/authorized/dropbox", q.Get("redirect_uri"))
		assert.Equal(t, "S256", q.Get("code_challenge_method"))

		prefix, csrf, ok := strings.Cut(q.Get("state"), ".")
		require.True(t, ok)
		assert.Equal(t, projectID, prefix)
		assert.NotEmpty(t, csrf)
		assert.Len(t, rec.Result().Cookies(), 1)
	})

	t.Run("google drive asks for offline consent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		redirect, err := f.svc.InitiateDrive(context.Background(), httptest.NewRecorder(), "google", projectID)
		require.NoError(t, err)
		q := query(t, redirect.URL)
		assert.Equal(t, "offline", q.Get("access_type"))
		assert.Equal(t, "consent", q.Get("prompt"))
	})

	t.Run("csrf differs per attempt for the same project", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		a, err := f.svc.InitiateDrive(context.Background(), httptest.NewRecorder(), "dropbox", projectID)
		require.NoError(t, err)
		b, err := f.svc.InitiateDrive(context.Background(), httptest.NewRecorder(), "dropbox", projectID)
		require.NoError(t, err)
		assert.NotEqual(t, query(t, a.URL).Get("state"), query(t, b.URL).Get("state"))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.InitiateDrive(context.Background(), httptest.NewRecorder(), "onedrive", projectID)
		assert.Equal(t, core.KindUnsupportedProvider, core.KindOf(err))

		_, err = f.svc.InitiateDrive(context.Background(), httptest.NewRecorder(), "msgraph", projectID)
		assert.Equal(t, core.KindUnsupportedProvider, core.KindOf(err))

		rec := httptest.NewRecorder()
		_, err = f.svc.InitiateDrive(context.Background(), rec, "dropbox", "not-a-uuid")
		assert.Equal(t, core.KindProjectID, core.KindOf(err))
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestCompleteDrive(t *testing.T) {
	t.Parallel()

	account := &http.Cookie{Name: "session", Value: "acct-1"}

	start := func(t *testing.T, f *fixture, provider string) (*httptest.ResponseRecorder, string) {
		t.Helper()
		rec := httptest.NewRecorder()
		redirect, err := f.svc.InitiateDrive(context.Background(), rec, provider, projectID)
		require.NoError(t, err)
		return rec, query(t, redirect.URL).Get("state")
	}

	t.Run("registers the drive token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, state := start(t, f, "dropbox")

		tok := (&oauth2.Token{
			AccessToken:  "at",
			TokenType:    "bearer",
			RefreshToken: "rt",
			Expiry:       time.Now().Add(time.Hour),
		}).WithExtra(map[string]any{"scope": "files.metadata.read files.content.read"})

		f.exchanger.On("ExchangeCode", mock.Anything, mock.MatchedBy(func(x exchange.CodeExchange) bool {
			return x.Code == "code-1" && x.Provider == "dropbox" && x.Verifier != ""
		})).Return(tok, nil).Once()

		f.registrar.On("RegisterDriveToken", mock.Anything, mock.MatchedBy(func(dt canonical.DriveToken) bool {
			return dt.ProjectID == projectID &&
				dt.DriveProvider == "dropbox" &&
				dt.AccessToken == "at" &&
				dt.RefreshToken == "rt" &&
				dt.TokenType == "Bearer" &&
				dt.ExpiresIn != nil && *dt.ExpiresIn > 3500 && *dt.ExpiresIn <= 3600 &&
				dt.TokenURI == "https://api.dropboxapi.com/oauth2/token" &&
				len(dt.Scopes) == 2
		}), mock.MatchedBy(func(c *http.Cookie) bool {
			return c != nil && c.Name == "session" && c.Value == "acct-1"
		})).Return(nil).Once()

		req := callback(rec, "/drive/authorized/dropbox", nil)
		req.AddCookie(account)
		done, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
			broker.Callback{Code: "code-1", State: state})
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, done.Status)
		assert.Equal(t, "http://localhost:3000/projects/"+projectID+"/files", done.URL)

		f.exchanger.AssertExpectations(t)
		f.registrar.AssertExpectations(t)
	})

	t.Run("state that is not a project id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, _ := start(t, f, "dropbox")

		for _, state := range []string{"not-a-uuid", "not-a-uuid.csrf", ".csrf", "11111111-1111-1111-1111-11111111111Z.x"} {
			req := callback(rec, "/drive/authorized/dropbox", nil)
			_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
				broker.Callback{Code: "c", State: state})
			assert.Equal(t, core.KindProjectID, core.KindOf(err), state)
		}
		f.exchanger.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("bare project id fails csrf", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, _ := start(t, f, "dropbox")

		req := callback(rec, "/drive/authorized/dropbox", nil)
		req.AddCookie(account)
		_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
			broker.Callback{Code: "c", State: projectID})
		assert.Equal(t, core.KindInvalidState, core.KindOf(err))
		f.exchanger.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("project id swapped in state", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, state := start(t, f, "dropbox")
		_, csrf, _ := strings.Cut(state, ".")

		req := callback(rec, "/drive/authorized/dropbox", nil)
		req.AddCookie(account)
		_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
			broker.Callback{Code: "c", State: "22222222-2222-2222-2222-222222222222." + csrf})
		assert.Equal(t, core.KindInvalidState, core.KindOf(err))
		assert.ErrorIs(t, err, broker.ErrProjectChanged)
	})

	t.Run("missing flow session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/drive/authorized/dropbox", nil)
		req.AddCookie(account)
		_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
			broker.Callback{Code: "c", State: projectID + ".x"})
		assert.Equal(t, core.KindMissingSession, core.KindOf(err))
		f.exchanger.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("missing account session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, state := start(t, f, "dropbox")

		req := callback(rec, "/drive/authorized/dropbox", nil)
		_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "dropbox",
			broker.Callback{Code: "c", State: state})
		assert.Equal(t, core.KindMissingSession, core.KindOf(err))
		assert.ErrorIs(t, err, broker.ErrNoAccountSession)
		f.exchanger.AssertNotCalled(t, "ExchangeCode", mock.Anything, mock.Anything)
	})

	t.Run("login session cannot complete a drive flow", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		rec := httptest.NewRecorder()
		_, err := f.svc.InitiateLogin(context.Background(), rec, "google")
		require.NoError(t, err)

		req := callback(rec, "/drive/authorized/google", nil)
		req.AddCookie(account)
		_, err = f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "google",
			broker.Callback{Code: "c", State: projectID + ".x"})
		assert.Equal(t, core.KindInvalidState, core.KindOf(err))
		assert.ErrorIs(t, err, broker.ErrFlowMismatch)
	})

	t.Run("registrar failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		rec, state := start(t, f, "google")

		f.exchanger.On("ExchangeCode", mock.Anything, mock.Anything).Return(&oauth2.Token{AccessToken: "at"}, nil).Once()
		f.registrar.On("RegisterDriveToken", mock.Anything, mock.Anything, mock.Anything).
			Return(core.E(core.KindDriveToken)).Once()

		req := callback(rec, "/drive/authorized/google", nil)
		req.AddCookie(account)
		_, err := f.svc.CompleteDrive(context.Background(), httptest.NewRecorder(), req, "google",
			broker.Callback{Code: "c", State: state})
		assert.Equal(t, core.KindDriveToken, core.KindOf(err))
	})
}
