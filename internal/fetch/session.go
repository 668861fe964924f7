package fetch

import (
	"net/http"
	"time"
)

// HTTPDoer executes an HTTP request. Satisfied by *http.Client and by
// *CookieSession.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CookieSession is an authenticated download session seeded with cookies
// exported by the external interactive login flow. The fetcher treats it as
// immutable: cookies are attached to every outgoing request and never change
// during a run.
type CookieSession struct {
	client  *http.Client
	cookies []*http.Cookie
}

// NewCookieSession builds a session from name/value cookie pairs.
func NewCookieSession(cookies map[string]string) *CookieSession {
	s := &CookieSession{
		client: &http.Client{Timeout: 60 * time.Second},
	}
	for name, value := range cookies {
		s.cookies = append(s.cookies, &http.Cookie{Name: name, Value: value})
	}
	return s
}

// Do attaches the session cookies and executes the request.
func (s *CookieSession) Do(req *http.Request) (*http.Response, error) {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	return s.client.Do(req)
}
