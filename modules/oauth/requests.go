package oauth

import "github.com/EdmundsEcho/data-join-oauth/svc/broker"

type kickoffRequest struct {
	Provider string `path:"provider"`
}

type driveKickoffRequest struct {
	Provider  string `path:"provider"`
	ProjectID string `path:"project_id"`
}

// callbackRequest is the redirect a provider sends the user agent back
// with. error and error_description are set when the user declined.
type callbackRequest struct {
	Provider         string `path:"provider"`
	Code             string `query:"code"`
	State            string `query:"state"`
	Error            string `query:"error"`
	ErrorDescription string `query:"error_description"`
}

func (c callbackRequest) callback() broker.Callback {
	return broker.Callback{
		Code:             c.Code,
		State:            c.State,
		Error:            c.Error,
		ErrorDescription: c.ErrorDescription,
	}
}

type filesRequest struct {
	Provider    string `path:"provider"`
	ProjectID   string `path:"project_id"`
	AccessToken string `query:"access_token"`
}
