// Utilities for importing browser sessions from "Copy as cURL" commands.
package shared

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlCookieRegex = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
	curlURLRegex    = regexp.MustCompile(`(?:^|\s)(?:'(https?://[^']+)'|"(https?://[^"]+)"|(https?://\S+))`)
)

// CurlRequest holds what a copied cURL command carries: target URL, headers and the cookie string.
type CurlRequest struct {
	URL     string
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a cURL command and parses it.
func ParseCurlFile(filepath string) (*CurlRequest, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand parses a cURL command string.
//
// The cookie comes from -b/--cookie when given, otherwise from a Cookie header.
// Cookie headers are never copied into Headers.
func ParseCurlCommand(curl string) (*CurlRequest, error) {
	cmd := strings.ReplaceAll(curl, "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	req := &CurlRequest{Headers: make(map[string]string)}

	var headerCookie string
	for _, match := range curlHeaderRegex.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(firstNonEmpty(match[1:]...), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		req.Headers[key] = value
	}

	if match := curlCookieRegex.FindStringSubmatch(cmd); match != nil {
		req.Cookie = firstNonEmpty(match[1:]...)
	}
	if req.Cookie == "" {
		req.Cookie = headerCookie
	}

	if match := curlURLRegex.FindStringSubmatch(cmd); match != nil {
		req.URL = firstNonEmpty(match[1:]...)
	}

	if len(req.Headers) == 0 && req.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers or cookies found in curl command", ErrInvalidInput)
	}

	return req, nil
}

// Cookies splits the cookie string into individual cookies. Malformed pairs are skipped.
func (c *CurlRequest) Cookies() []*http.Cookie {
	if c.Cookie == "" {
		return nil
	}

	var cookies []*http.Cookie
	for _, pair := range strings.Split(c.Cookie, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parsed, err := http.ParseCookie(pair)
		if err != nil {
			continue
		}
		cookies = append(cookies, parsed...)
	}
	return cookies
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
