package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc adapts a function to [http.RoundTripper].
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// setCSRF stores token as the XSRF-TOKEN cookie for the client's base URL.
func setCSRF(c *Client, token string) {
	c.Jar().SetCookies(c.BaseURL(), []*http.Cookie{{Name: DefaultCookieName, Value: token, Path: "/"}})
}

func TestAttachToken(t *testing.T) {
	headers := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get(DefaultHeaderName)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	setCSRF(c, "tok1")
	ctx := context.Background()

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method+" carries token", func(t *testing.T) {
			_, err := c.Request(ctx, method, "/api/save-metric", nil)
			require.NoError(t, err)
			assert.Equal(t, "tok1", <-headers)
		})
	}

	t.Run("GET carries no token", func(t *testing.T) {
		_, err := c.Get(ctx, "/api/fixtures/upcoming", nil)
		require.NoError(t, err)
		assert.Empty(t, <-headers)
	})

	t.Run("explicit header is kept", func(t *testing.T) {
		_, err := c.Post(ctx, "/x", nil, &Options{Header: http.Header{DefaultHeaderName: {"mine"}}})
		require.NoError(t, err)
		assert.Equal(t, "mine", <-headers)
	})

	t.Run("SkipCSRF carries no token", func(t *testing.T) {
		_, err := c.Post(ctx, "/x", nil, &Options{SkipCSRF: true})
		require.NoError(t, err)
		assert.Empty(t, <-headers)
	})
}

func TestAttachToken_CookieStates(t *testing.T) {
	headers := make(chan []string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Values(DefaultHeaderName)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		cookies CookieString
		want    []string
	}{
		{name: "percent decoded", cookies: "XSRF-TOKEN=a%2Fb%3D", want: []string{"a/b="}},
		{name: "absent", cookies: "jwt=1", want: nil},
		{name: "empty", cookies: "XSRF-TOKEN=", want: nil},
		{name: "malformed escape", cookies: "XSRF-TOKEN=%zz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, srv, func(cfg *Config) { cfg.Cookies = tt.cookies })

			_, err := c.Post(context.Background(), "/x", nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, <-headers)
		})
	}
}

// csrfServer is a backend whose mutating endpoint accepts only the token issued by /api/csrf.
type csrfServer struct {
	*httptest.Server

	issue      string
	refreshes  atomic.Int32
	posts      atomic.Int32
	seen       chan string
	refreshFn  func(w http.ResponseWriter, r *http.Request)
	rejectFrom func(token string) bool
}

func newCSRFServer(t *testing.T, issue string) *csrfServer {
	t.Helper()

	s := &csrfServer{issue: issue, seen: make(chan string, 16)}
	s.rejectFrom = func(token string) bool { return token != s.issue }
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DefaultCSRFPath:
			s.refreshes.Add(1)
			if s.refreshFn != nil {
				s.refreshFn(w, r)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: DefaultCookieName, Value: s.issue, Path: "/"})
		default:
			s.posts.Add(1)
			token := r.Header.Get(DefaultHeaderName)
			s.seen <- token
			if s.rejectFrom(token) {
				http.Error(w, "Forbidden", http.StatusForbidden)
			}
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func TestRetry_RefreshesOnceAndResends(t *testing.T) {
	srv := newCSRFServer(t, "tok2")
	c := newTestClient(t, srv.Server)
	setCSRF(c, "tok1")

	resp, err := c.Post(context.Background(), "/api/save-metric", map[string]string{"event": "BUTTON_CLICK"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(2), srv.posts.Load())
	assert.Equal(t, "tok1", <-srv.seen)
	assert.Equal(t, "tok2", <-srv.seen)

	token, ok := c.CSRFToken()
	assert.True(t, ok)
	assert.Equal(t, "tok2", token)
}

func TestRetry_SecondForbiddenPropagates(t *testing.T) {
	srv := newCSRFServer(t, "tok2")
	srv.rejectFrom = func(string) bool { return true }
	c := newTestClient(t, srv.Server)

	_, err := c.Post(context.Background(), "/x", nil, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(2), srv.posts.Load())
}

func TestRetry_GetIsRetriedToo(t *testing.T) {
	srv := newCSRFServer(t, "tok2")
	c := newTestClient(t, srv.Server)

	_, err := c.Get(context.Background(), "/api/fixtures/upcoming", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, "", <-srv.seen)
	assert.Equal(t, "tok2", <-srv.seen)
}

func TestRetry_SkipCSRFIsNotRetried(t *testing.T) {
	srv := newCSRFServer(t, "tok2")
	c := newTestClient(t, srv.Server)

	_, err := c.Post(context.Background(), "/x", nil, &Options{SkipCSRF: true})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, int32(0), srv.refreshes.Load())
	assert.Equal(t, int32(1), srv.posts.Load())
}

func TestRetry_OtherStatusesAreNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == DefaultCSRFPath {
			t.Error("refresh must not be called")
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Post(context.Background(), "/x", nil, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestRetry_RefreshFailureReturnsOriginalError(t *testing.T) {
	t.Run("refresh status error", func(t *testing.T) {
		srv := newCSRFServer(t, "tok2")
		srv.refreshFn = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}
		c := newTestClient(t, srv.Server)

		_, err := c.Post(context.Background(), "/x", nil, nil)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Equal(t, "/x", statusErr.Path)
		assert.Equal(t, int32(1), srv.posts.Load())
	})

	t.Run("refresh sets no cookie", func(t *testing.T) {
		srv := newCSRFServer(t, "tok2")
		srv.refreshFn = func(w http.ResponseWriter, r *http.Request) {}
		c := newTestClient(t, srv.Server)

		_, err := c.Post(context.Background(), "/x", nil, nil)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Equal(t, int32(1), srv.refreshes.Load())
		assert.Equal(t, int32(1), srv.posts.Load())
	})

	t.Run("refresh transport error", func(t *testing.T) {
		srv := newCSRFServer(t, "tok2")
		transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path == DefaultCSRFPath {
				return nil, errors.New("connection reset")
			}
			return http.DefaultTransport.RoundTrip(r)
		})
		c := newTestClient(t, srv.Server, func(cfg *Config) { cfg.Transport = transport })

		_, err := c.Post(context.Background(), "/x", nil, nil)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.NotContains(t, err.Error(), "connection reset")
		assert.Equal(t, int32(0), srv.refreshes.Load())
	})
}

func TestRetry_ConcurrentCallersShareOneRefresh(t *testing.T) {
	const callers = 5

	var arrived sync.WaitGroup
	arrived.Add(callers)

	srv := newCSRFServer(t, "tok2")
	srv.seen = make(chan string, callers*2)
	srv.rejectFrom = func(token string) bool {
		if token == srv.issue {
			return false
		}
		arrived.Done()
		arrived.Wait()
		return true
	}
	srv.refreshFn = func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		http.SetCookie(w, &http.Cookie{Name: DefaultCookieName, Value: srv.issue, Path: "/"})
	}

	c := newTestClient(t, srv.Server)
	setCSRF(c, "tok1")

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Post(context.Background(), "/api/save-metric", nil, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), srv.refreshes.Load())
	assert.Equal(t, int32(callers*2), srv.posts.Load())
}

func TestRefreshCSRF(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newCSRFServer(t, "fresh")
		c := newTestClient(t, srv.Server)

		assert.False(t, c.HasCSRFToken())
		assert.True(t, c.RefreshCSRF(context.Background()))
		assert.True(t, c.HasCSRFToken())

		token, ok := c.CSRFToken()
		assert.True(t, ok)
		assert.Equal(t, "fresh", token)
	})

	t.Run("server error", func(t *testing.T) {
		srv := newCSRFServer(t, "fresh")
		srv.refreshFn = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		c := newTestClient(t, srv.Server)

		assert.False(t, c.RefreshCSRF(context.Background()))
	})

	t.Run("waiter stops on its own context", func(t *testing.T) {
		release := make(chan struct{})
		srv := newCSRFServer(t, "fresh")
		srv.refreshFn = func(w http.ResponseWriter, r *http.Request) {
			<-release
		}
		defer close(release)
		c := newTestClient(t, srv.Server)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		assert.False(t, c.RefreshCSRF(ctx))
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}
