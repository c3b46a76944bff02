// Package repositories implements SQLite persistence for the local session state.
//
// Key Implementations:
//   - [CookieRepository] : Cookie rows keyed by host, domain, path and name
//   - [PersistentJar] : An [http.CookieJar] that writes through to a [CookieRepository] and reloads on start
//
// The jar is what lets a signed-in session (jwt, user_info and XSRF-TOKEN cookies) survive between CLI invocations.
package repositories
