package gradesclient

import (
	"net/http"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// csrfTransport attaches the CSRF token from the cookie jar to every
// request with a method that is not CSRF-safe.
type csrfTransport struct {
	jar  http.CookieJar
	base http.RoundTripper
}

func (t *csrfTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !csrfSafeMethod(req.Method) && req.Header.Get(csrfHeaderName) == "" {
		if token := t.token(req); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set(csrfHeaderName, token)
		}
	}
	return t.transport().RoundTrip(req)
}

func (t *csrfTransport) token(req *http.Request) string {
	if t.jar == nil {
		return ""
	}
	for _, cookie := range t.jar.Cookies(req.URL) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (t *csrfTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}

func csrfSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
