package handler

import "net/http"

type redirectResponse struct {
	url     string
	status  int
	cookies []*http.Cookie
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, c := range rr.cookies {
		if c != nil {
			http.SetCookie(w, c)
		}
	}
	http.Redirect(w, r, rr.url, rr.status)
	return nil
}

// Redirect sends the user agent to url, setting cookies first. A status
// outside 3xx falls back to 302 Found.
func Redirect(url string, status int, cookies ...*http.Cookie) Response {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		status = http.StatusFound
	}
	return redirectResponse{url: url, status: status, cookies: cookies}
}

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

// Text renders a plain text body.
func Text(status int, body string) Response {
	return textResponse{status: status, body: body}
}
