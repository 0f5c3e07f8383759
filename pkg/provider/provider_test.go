package provider_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want provider.Identity
		ok   bool
	}{
		{"google", provider.Google, true},
		{"GitHub", provider.GitHub, true},
		{"linkedIn", provider.LinkedIn, true},
		{"linkedin", provider.LinkedIn, true},
		{"discord", provider.Discord, true},
		{"facebook", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := provider.ParseIdentity(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDrive(t *testing.T) {
	t.Parallel()

	got, ok := provider.ParseDrive("MSGraph")
	require.True(t, ok)
	assert.Equal(t, provider.MSGraph, got)

	_, ok = provider.ParseDrive("box")
	assert.False(t, ok)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	for _, p := range provider.Identities {
		assert.NotEmpty(t, p.Path(), p)
		back, ok := provider.ParseIdentity(p.Path())
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
	for _, p := range provider.Drives {
		assert.NotEmpty(t, p.Path(), p)
		assert.NotEmpty(t, p.Kind(), p)
	}
	assert.Equal(t, "linkedIn", provider.LinkedIn.Path())
	assert.Equal(t, "DropBox", provider.Dropbox.Kind())
}

func authURL(params []provider.Param) url.Values {
	cfg := &oauth2.Config{Endpoint: oauth2.Endpoint{AuthURL: "https://example.com/auth"}}
	u, _ := url.Parse(cfg.AuthCodeURL("state", provider.AuthCodeOptions(params)...))
	return u.Query()
}

func TestAuthParams(t *testing.T) {
	t.Parallel()

	t.Run("google identity asks for consent and offline access", func(t *testing.T) {
		t.Parallel()
		q := authURL(provider.Google.AuthParams())
		assert.Equal(t, "offline", q.Get("access_type"))
		assert.Equal(t, "consent", q.Get("prompt"))
	})

	t.Run("github identity has no extras", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, provider.GitHub.AuthParams())
	})

	t.Run("dropbox asks for an offline token", func(t *testing.T) {
		t.Parallel()
		q := authURL(provider.Dropbox.AuthParams())
		assert.Equal(t, "offline", q.Get("token_access_type"))
		assert.Empty(t, q.Get("prompt"))
	})

	t.Run("every drive carries the refresh token key", func(t *testing.T) {
		t.Parallel()
		for _, d := range provider.Drives {
			q := authURL(d.AuthParams())
			assert.Equal(t, "refresh_access", q.Get("refresh_token_key"), d)
		}
	})
}
