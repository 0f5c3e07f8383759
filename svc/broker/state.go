package broker

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/projectid"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

// stateSeparator joins the project id and the CSRF token in a drive state.
// Neither a UUID nor the base64url alphabet contains it.
const stateSeparator = "."

// Callback is the query a provider sends back to a redirect URI.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// validate rejects provider errors and incomplete callbacks before any I/O.
func (cb Callback) validate(provider string) error {
	if cb.Error != "" {
		return core.Wrapf(core.KindUnauthorized, "%w: %s %s", ErrProviderError, cb.Error, cb.ErrorDescription).
			WithProvider(provider)
	}
	if cb.Code == "" || cb.State == "" {
		return core.Wrapf(core.KindMissingParameter, "callback requires code and state").WithProvider(provider)
	}
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func driveState(pid projectid.ID, csrf string) string {
	return pid.String() + stateSeparator + csrf
}

// splitDriveState recovers the project id carried in a drive state. A state
// without separator yields an empty token, which never matches a session.
func splitDriveState(state string) (projectid.ID, string, error) {
	prefix, csrf, _ := strings.Cut(state, stateSeparator)
	pid, err := projectid.Parse(prefix)
	if err != nil {
		return projectid.ID{}, "", core.Wrap(core.KindProjectID, err)
	}
	return pid, csrf, nil
}

// checkRecord binds a retrieved record to the flow, provider and state of
// the callback.
func checkRecord(rec *session.Record, flow session.Flow, provider, csrf string) error {
	if rec.Flow != flow || rec.Provider != provider {
		return core.Wrap(core.KindInvalidState, ErrFlowMismatch).WithProvider(provider)
	}
	if subtle.ConstantTimeCompare([]byte(csrf), []byte(rec.CSRF)) != 1 {
		return core.Wrap(core.KindInvalidState, ErrStateMismatch).WithProvider(provider)
	}
	return nil
}
