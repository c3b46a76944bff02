// Package client implements the authenticated HTTP client used for every call to the atlas backend.
//
// # Credentials
//
// A [Client] sends requests through an [http.Client] carrying a cookie jar, so the session cookies issued by the
// backend (jwt, user_info, XSRF-TOKEN) are replayed on every call, the way a browser does with credentials included.
//
// # CSRF
//
// The backend uses the double-submit cookie pattern. The token lives in the XSRF-TOKEN cookie and must be echoed in
// the X-XSRF-TOKEN header on mutating requests (POST, PUT, PATCH, DELETE). The client:
//   - attaches the header when a token is readable and the caller did not set it
//   - on a 403, refreshes the token through GET /api/csrf and resends the request exactly once
//   - shares one refresh between concurrent callers via [singleflight.Group]
//
// If the refresh fails or yields no token, the original [StatusError] is returned unchanged.
//
// # Cookies
//
// [ParseCookie] reads a value out of a Cookie-header shaped string. [CookieReader] abstracts where cookies come from:
// [CookieString] for a raw header and [JarReader] for an [http.CookieJar] seen from the API base URL.
package client
