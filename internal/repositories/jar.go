package repositories

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/models"
)

// PersistentJar is an [http.CookieJar] backed by an in-memory [cookiejar.Jar] and a [CookieRepository].
//
// Every cookie accepted by SetCookies is written through to the database; expired or deleted cookies are removed
// from it. Unexpired rows are replayed into the jar when it is opened.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	repo   *CookieRepository
	logger *log.Logger
}

// NewPersistentJar creates a jar and loads the unexpired cookies stored in repo.
func NewPersistentJar(repo *CookieRepository, logger *log.Logger) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	j := &PersistentJar{jar: jar, repo: repo, logger: logger}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *PersistentJar) load() error {
	stored, err := j.repo.ListUnexpired()
	if err != nil {
		return fmt.Errorf("failed to load cookies: %w", err)
	}

	for _, sc := range stored {
		j.jar.SetCookies(originOf(sc), []*http.Cookie{sc.Cookie()})
	}
	j.logger.Debug("loaded cookies", "count", len(stored))
	return nil
}

// SetCookies implements [http.CookieJar].
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	now := time.Now()
	for _, c := range cookies {
		sc := models.NewStoredCookie(u.Hostname(), c)

		var err error
		if sc.Expired(now) {
			err = j.repo.DeleteMatching(sc)
		} else {
			err = j.repo.Upsert(sc)
		}
		if err != nil {
			j.logger.Error("failed to persist cookie", "name", c.Name, "host", sc.Host, "error", err)
		}
	}
}

// Cookies implements [http.CookieJar].
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.jar.Cookies(u)
}

// Remove expires every cookie called name, in memory and on disk.
//
// u is used for a host-only cookie that never reached the database.
func (j *PersistentJar) Remove(u *url.URL, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	stored, err := j.repo.List(map[string]any{"name": name})
	if err != nil {
		return err
	}

	for _, sc := range stored {
		c := sc.Cookie()
		c.MaxAge = -1
		j.jar.SetCookies(originOf(sc), []*http.Cookie{c})
	}
	if u != nil {
		j.jar.SetCookies(u, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
	}

	if _, err := j.repo.DeleteByName(name); err != nil {
		return err
	}
	return nil
}

// Clear drops every cookie.
func (j *PersistentJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	j.jar = jar

	return j.repo.Clear()
}

// Stored lists the persisted, unexpired cookies.
func (j *PersistentJar) Stored() ([]*models.StoredCookie, error) {
	return j.repo.ListUnexpired()
}

// originOf rebuilds the URL a stored cookie was received from.
func originOf(sc *models.StoredCookie) *url.URL {
	scheme := "http"
	if sc.Secure {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: sc.Host, Path: "/"}
}
