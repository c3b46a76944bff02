package models

import (
	"errors"
	"net/http"
	"time"
)

// StoredCookie is a cookie received from the backend, keyed by the host that set it.
type StoredCookie struct {
	id        string
	createdAt time.Time
	updatedAt time.Time

	Host      string
	Name      string
	Value     string
	Domain    string
	Path      string
	ExpiresAt *time.Time // nil for session cookies
	Secure    bool
	HttpOnly  bool
}

// NewStoredCookie captures c as received from host.
//
// MaxAge takes precedence over Expires, as it does in the jar.
func NewStoredCookie(host string, c *http.Cookie) *StoredCookie {
	now := time.Now()
	sc := &StoredCookie{
		createdAt: now,
		updatedAt: now,
		Host:      host,
		Name:      c.Name,
		Value:     c.Value,
		Domain:    c.Domain,
		Path:      c.Path,
		Secure:    c.Secure,
		HttpOnly:  c.HttpOnly,
	}
	if sc.Path == "" {
		sc.Path = "/"
	}

	switch {
	case c.MaxAge < 0:
		expired := time.Unix(1, 0).UTC()
		sc.ExpiresAt = &expired
	case c.MaxAge > 0:
		exp := now.Add(time.Duration(c.MaxAge) * time.Second).UTC()
		sc.ExpiresAt = &exp
	case !c.Expires.IsZero():
		exp := c.Expires.UTC()
		sc.ExpiresAt = &exp
	}
	return sc
}

func (c *StoredCookie) ID() string { return c.id }
func (c *StoredCookie) CreatedAt() time.Time { return c.createdAt }
func (c *StoredCookie) UpdatedAt() time.Time { return c.updatedAt }

func (c *StoredCookie) SetID(id string) { c.id = id }
func (c *StoredCookie) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *StoredCookie) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Validate checks the fields required to replay the cookie.
func (c *StoredCookie) Validate() error {
	if c.Host == "" {
		return errors.New("cookie host is required")
	}
	if c.Name == "" {
		return errors.New("cookie name is required")
	}
	return nil
}

// Expired reports whether the cookie has an expiry at or before now.
func (c *StoredCookie) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Cookie converts back to an [http.Cookie] suitable for [http.CookieJar.SetCookies].
func (c *StoredCookie) Cookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if c.ExpiresAt != nil {
		hc.Expires = *c.ExpiresAt
	}
	return hc
}
