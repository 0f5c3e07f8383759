package normalize

import (
	"encoding/json"
	"errors"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
)

var errMissingID = errors.New("payload has no subject id")

type identityFunc func(raw []byte) (canonical.UserIdentity, error)

var identityNormalizers = map[provider.Identity]identityFunc{
	provider.Google:   googleIdentity,
	provider.Azure:    azureIdentity,
	provider.Twitter:  twitterIdentity,
	provider.GitHub:   githubIdentity,
	provider.LinkedIn: linkedInIdentity,
	provider.Discord:  discordIdentity,
}

// Identity converts a profile payload from p into a UserIdentity. The
// Provider field is the provider's path, which is also the registrar's
// auth_agent value.
func Identity(p provider.Identity, raw []byte) (canonical.UserIdentity, error) {
	fn, ok := identityNormalizers[p]
	if !ok {
		return canonical.UserIdentity{}, core.Wrapf(core.KindUnsupportedProvider, "no identity normalizer for %q", p).
			WithProvider(string(p))
	}

	u, err := fn(raw)
	if err != nil {
		var ce *core.Error
		if errors.As(err, &ce) {
			return canonical.UserIdentity{}, ce.WithProvider(string(p))
		}
		return canonical.UserIdentity{}, core.Wrapf(core.KindJSONParsing, "unexpected user identity data: %w", err).
			WithProvider(string(p))
	}
	if u.SubjectID == "" {
		return canonical.UserIdentity{}, core.Wrap(core.KindMissingProperty, errMissingID).WithProvider(string(p))
	}
	u.Provider = p.Path()
	return u, nil
}

func googleIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		ID            string  `json:"id"`
		Email         *string `json:"email"`
		VerifiedEmail bool    `json:"verified_email"`
		GivenName     *string `json:"given_name"`
		FamilyName    *string `json:"family_name"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	return canonical.UserIdentity{SubjectID: v.ID, Email: optional(v.Email)}, nil
}

func azureIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		ID                string  `json:"id"`
		Mail              *string `json:"mail"`
		UserPrincipalName *string `json:"userPrincipalName"`
		DisplayName       *string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	return canonical.UserIdentity{
		SubjectID: v.ID,
		Email:     optional(v.Mail),
		Username:  optional(v.DisplayName),
	}, nil
}

// Twitter wraps the user under "data".
func twitterIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		Data *struct {
			ID       string  `json:"id"`
			Username string  `json:"username"`
			Name     *string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	if v.Data == nil {
		return canonical.UserIdentity{}, core.Wrapf(core.KindMissingProperty, "payload has no data object")
	}
	return canonical.UserIdentity{SubjectID: v.Data.ID, Username: v.Data.Username}, nil
}

// GitHub ids are numeric.
func githubIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		ID    flexString `json:"id"`
		Email *string    `json:"email"`
		Login string     `json:"login"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	return canonical.UserIdentity{
		SubjectID: v.ID.value,
		Email:     optional(v.Email),
		Username:  v.Login,
	}, nil
}

func linkedInIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	return canonical.UserIdentity{SubjectID: v.ID, Username: v.Username}, nil
}

func discordIdentity(raw []byte) (canonical.UserIdentity, error) {
	var v struct {
		ID       string  `json:"id"`
		Email    *string `json:"email"`
		Username string  `json:"username"`
		Verified bool    `json:"verified"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.UserIdentity{}, err
	}
	return canonical.UserIdentity{
		SubjectID: v.ID,
		Email:     optional(v.Email),
		Username:  v.Username,
	}, nil
}
