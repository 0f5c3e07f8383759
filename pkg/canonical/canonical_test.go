package canonical_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
)

func TestUserIdentityRegistration(t *testing.T) {
	t.Parallel()

	u := canonical.UserIdentity{SubjectID: "42", Provider: "github", Username: "octocat"}
	body, err := json.Marshal(u.Registration())
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth_agent":"github","auth_id":"42"}`, string(body))

	u.Email = "o@example.com"
	body, err = json.Marshal(u.Registration())
	require.NoError(t, err)
	assert.JSONEq(t, `{"auth_agent":"github","auth_id":"42","email":"o@example.com"}`, string(body))
}

func TestDriveTokenJSON(t *testing.T) {
	t.Parallel()

	expires := int64(3599)
	tok := canonical.DriveToken{
		ProjectID:     "11111111-1111-1111-1111-111111111111",
		DriveProvider: "google",
		AccessToken:   "ya29.secret",
		TokenType:     "bearer",
		ExpiresIn:     &expires,
		RefreshToken:  "1//refresh",
		TokenURI:      "https://oauth2.googleapis.com/token",
	}

	body, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"project_id": "11111111-1111-1111-1111-111111111111",
		"drive_provider": "google",
		"access_token": "ya29.secret",
		"token_type": "bearer",
		"expires_in": 3599,
		"refresh_token": "1//refresh",
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, string(body))

	printed := fmt.Sprintf("%v %+v %#v %s", tok, tok, tok, tok)
	assert.NotContains(t, printed, "ya29.secret")
	assert.NotContains(t, printed, "1//refresh")
}

func TestFileListingJSON(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(canonical.FileListing{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Empty","files":[]}`, string(body))

	size := "10"
	body, err = json.Marshal(canonical.FileListing{
		Kind: "DropBox",
		Path: "root",
		Files: []canonical.FileEntry{
			{ID: "id:1", Name: "a.csv", MimeType: "file", Size: &size},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "DropBox",
		"path": "root",
		"files": [{
			"id": "id:1", "name": "a.csv", "is_directory": false, "mime_type": "file",
			"size": "10", "created_time": null, "modified_time": null
		}]
	}`, string(body))
}
