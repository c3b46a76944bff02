package client

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieReader reads a single cookie value by name.
//
// The boolean reports presence: an empty value that is present is distinct from a missing cookie.
type CookieReader interface {
	ReadCookie(name string) (string, bool)
}

// ParseCookie extracts the raw value of the named cookie from a Cookie-header shaped string ("a=1; b=2").
//
// The name must match a whole entry, so "other-XSRF-TOKEN=x; XSRF-TOKEN=y" resolves XSRF-TOKEN to "y".
// A name that occurs more than once is ambiguous and reported as absent.
func ParseCookie(raw, name string) (string, bool) {
	parts := strings.Split("; "+raw, "; "+name+"=")
	if len(parts) != 2 {
		return "", false
	}

	value, _, _ := strings.Cut(parts[1], ";")
	return value, true
}

// CookieString is a [CookieReader] over a raw Cookie header value.
type CookieString string

func (s CookieString) ReadCookie(name string) (string, bool) {
	return ParseCookie(string(s), name)
}

// JarReader is a [CookieReader] over the cookies an [http.CookieJar] would send to URL.
type JarReader struct {
	Jar http.CookieJar
	URL *url.URL
}

// ReadCookie joins the jar's cookies for URL into a header string and parses it with [ParseCookie].
func (j JarReader) ReadCookie(name string) (string, bool) {
	if j.Jar == nil || j.URL == nil {
		return "", false
	}
	return ParseCookie(HeaderString(j.Jar.Cookies(j.URL)), name)
}

// HeaderString renders cookies as a Cookie header value.
func HeaderString(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
