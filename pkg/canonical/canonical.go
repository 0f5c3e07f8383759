// Package canonical holds the provider independent models the broker hands
// to the registrar and to API clients.
package canonical

import (
	"encoding/json"
	"strings"
)

// UserIdentity is the converged shape of every identity provider's profile.
type UserIdentity struct {
	SubjectID string `json:"subject_id"`
	Provider  string `json:"provider"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Registration is the body POSTed to the registrar when a user logs in.
type Registration struct {
	AuthAgent string `json:"auth_agent"`
	AuthID    string `json:"auth_id"`
	Email     string `json:"email,omitempty"`
}

// Registration converts the identity into the registrar's request body.
func (u UserIdentity) Registration() Registration {
	return Registration{
		AuthAgent: u.Provider,
		AuthID:    u.SubjectID,
		Email:     u.Email,
	}
}

// DriveToken is the grant the registrar persists for a project.
type DriveToken struct {
	ProjectID     string   `json:"project_id"`
	DriveProvider string   `json:"drive_provider"`
	AccessToken   string   `json:"access_token"`
	TokenType     string   `json:"token_type"`
	ExpiresIn     *int64   `json:"expires_in,omitempty"`
	RefreshToken  string   `json:"refresh_token,omitempty"`
	Scopes        []string `json:"scopes,omitempty"`
	TokenURI      string   `json:"token_uri,omitempty"`
}

// String keeps tokens out of logs.
func (t DriveToken) String() string {
	var b strings.Builder
	b.WriteString("DriveToken{project_id=")
	b.WriteString(t.ProjectID)
	b.WriteString(" drive_provider=")
	b.WriteString(t.DriveProvider)
	b.WriteString(" token_type=")
	b.WriteString(t.TokenType)
	if t.RefreshToken != "" {
		b.WriteString(" refresh_token=[REDACTED]")
	}
	b.WriteString(" access_token=[REDACTED]}")
	return b.String()
}

// GoString is used by %#v.
func (t DriveToken) GoString() string { return t.String() }

// FileListing is the root listing of a drive.
type FileListing struct {
	Kind    string      `json:"kind"`
	Path    string      `json:"path,omitempty"`
	DriveID string      `json:"drive_id,omitempty"`
	Files   []FileEntry `json:"files"`
}

// FileEntry is one file or folder. Optional fields are pointers so that
// "absent" and "empty" stay distinct on the wire.
type FileEntry struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	IsDirectory  bool    `json:"is_directory"`
	MimeType     string  `json:"mime_type"`
	Size         *string `json:"size"`
	CreatedTime  *string `json:"created_time"`
	ModifiedTime *string `json:"modified_time"`
}

// KindEmpty labels a listing produced without a known drive provider.
const KindEmpty = "Empty"

// MarshalJSON always emits files as an array, never null.
func (l FileListing) MarshalJSON() ([]byte, error) {
	type alias FileListing
	if l.Files == nil {
		l.Files = []FileEntry{}
	}
	if l.Kind == "" {
		l.Kind = KindEmpty
	}
	return json.Marshal(alias(l))
}
