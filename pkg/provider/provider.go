// Package provider enumerates the closed sets of identity and drive providers
// the broker talks to, together with the per-provider tables every flow
// consults: URL path segment and extra authorize parameters.
package provider

import (
	"golang.org/x/oauth2"
	"golang.org/x/text/cases"
)

// Identity is an identity (login) provider.
type Identity string

const (
	Google   Identity = "google"
	Azure    Identity = "azure"
	Twitter  Identity = "twitter"
	GitHub   Identity = "github"
	LinkedIn Identity = "linkedin"
	Discord  Identity = "discord"
)

// Drive is a cloud storage provider.
type Drive string

const (
	GoogleDrive Drive = "google"
	MSGraph     Drive = "msgraph"
	Dropbox     Drive = "dropbox"
)

// Identities lists the identity providers in a stable order.
var Identities = []Identity{Google, Azure, Twitter, GitHub, LinkedIn, Discord}

// Drives lists the drive providers in a stable order.
var Drives = []Drive{GoogleDrive, MSGraph, Dropbox}

var identityPaths = map[Identity]string{
	Google:   "google",
	Azure:    "azure",
	Twitter:  "twitter",
	GitHub:   "github",
	LinkedIn: "linkedIn",
	Discord:  "discord",
}

var drivePaths = map[Drive]string{
	GoogleDrive: "google",
	MSGraph:     "msgraph",
	Dropbox:     "dropbox",
}

var driveKinds = map[Drive]string{
	GoogleDrive: "Google",
	MSGraph:     "MSGraph",
	Dropbox:     "DropBox",
}

// foldKey builds a fresh Caser per call; a Caser is stateful and must not be
// shared between goroutines.
func foldKey(s string) string {
	return cases.Fold().String(s)
}

// ParseIdentity resolves a path segment or settings key, case-insensitively.
func ParseIdentity(s string) (Identity, bool) {
	key := foldKey(s)
	for p, path := range identityPaths {
		if foldKey(path) == key {
			return p, true
		}
	}
	return "", false
}

// ParseDrive resolves a path segment or settings key, case-insensitively.
func ParseDrive(s string) (Drive, bool) {
	key := foldKey(s)
	for p, path := range drivePaths {
		if foldKey(path) == key {
			return p, true
		}
	}
	return "", false
}

// Path is the segment used in routes and redirect URIs.
func (p Identity) Path() string { return identityPaths[p] }

func (p Identity) String() string { return string(p) }

// Path is the segment used in routes and redirect URIs.
func (p Drive) Path() string { return drivePaths[p] }

func (p Drive) String() string { return string(p) }

// Kind is the label written to FileListing.kind.
func (p Drive) Kind() string { return driveKinds[p] }

// Param is one extra query parameter added to an authorize URL.
type Param struct {
	Key   string
	Value string
}

var identityParams = map[Identity][]Param{
	Google: {
		{"access_type", "offline"},
		{"prompt", "consent"},
	},
}

// refreshTokenKey is sent to every drive provider; the registrar reads it back
// to locate the refresh token in the token response.
var refreshTokenKey = Param{"refresh_token_key", "refresh_access"}

var driveParams = map[Drive][]Param{
	GoogleDrive: {
		{"access_type", "offline"},
		{"prompt", "consent"},
		refreshTokenKey,
	},
	MSGraph: {
		refreshTokenKey,
	},
	Dropbox: {
		{"token_access_type", "offline"},
		refreshTokenKey,
	},
}

// AuthParams returns the extra authorize parameters for the provider.
func (p Identity) AuthParams() []Param { return identityParams[p] }

// AuthParams returns the extra authorize parameters for the provider.
func (p Drive) AuthParams() []Param { return driveParams[p] }

// AuthCodeOptions converts params into oauth2 options for AuthCodeURL.
func AuthCodeOptions(params []Param) []oauth2.AuthCodeOption {
	opts := make([]oauth2.AuthCodeOption, 0, len(params))
	for _, p := range params {
		opts = append(opts, oauth2.SetAuthURLParam(p.Key, p.Value))
	}
	return opts
}
