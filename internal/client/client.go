package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/shared"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL    = "http://localhost:8080"
	DefaultTimeout    = 10 * time.Second
	DefaultCookieName = "XSRF-TOKEN"
	DefaultHeaderName = "X-XSRF-TOKEN"
	DefaultCSRFPath   = "/api/csrf"

	jsonContentType = "application/json;charset=utf-8"
)

// Config enumerates everything a [Client] needs at construction time.
//
// Zero values fall back to the Default* constants, a fresh in-memory cookie jar, [http.DefaultTransport] and a
// stderr logger.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	CookieName string
	HeaderName string
	CSRFPath   string

	Jar       http.CookieJar    // Replays credentials on every request
	Cookies   CookieReader      // Token source; defaults to a [JarReader] over Jar and BaseURL
	Transport http.RoundTripper // Underlying transport for the [http.Client]
	Logger    *log.Logger
}

// Options carries per-call settings for [Client.Request].
type Options struct {
	Header http.Header
	Query  url.Values
	// Body is sent as-is for []byte, string and io.Reader values and JSON-encoded otherwise.
	Body any
	// SkipCSRF bypasses token attachment and the refresh-and-retry flow.
	SkipCSRF bool
}

// Response is a fully-read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is returned for every response outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: request failed with status code %d", e.Method, e.Path, e.StatusCode)
}

// Client is an HTTP client bound to one backend, with credentials and CSRF handling.
//
// A Client is safe for concurrent use. Each Client owns its own refresh guard.
type Client struct {
	baseURL    *url.URL
	cookieName string
	headerName string
	csrfPath   string
	httpClient *http.Client
	cookies    CookieReader
	logger     *log.Logger
	refresh    singleflight.Group
}

// call is the per-request state threaded through attachment, sending and retry.
type call struct {
	method   string
	path     string
	query    url.Values
	header   http.Header
	body     []byte
	skipCSRF bool
	retried  bool
}

// New creates a [Client] from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}
	if cfg.CSRFPath == "" {
		cfg.CSRFPath = DefaultCSRFPath
	}
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: base url %q: %v", shared.ErrInvalidConfig, cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base url %q must be absolute", shared.ErrInvalidConfig, cfg.BaseURL)
	}

	if cfg.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		cfg.Jar = jar
	}
	if cfg.Cookies == nil {
		cfg.Cookies = JarReader{Jar: cfg.Jar, URL: base}
	}

	return &Client{
		baseURL:    base,
		cookieName: cfg.CookieName,
		headerName: cfg.HeaderName,
		csrfPath:   cfg.CSRFPath,
		httpClient: &http.Client{Jar: cfg.Jar, Timeout: cfg.Timeout, Transport: cfg.Transport},
		cookies:    cfg.Cookies,
		logger:     cfg.Logger,
	}, nil
}

// BaseURL returns the backend origin this client talks to.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Jar returns the cookie jar holding the session credentials.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// Cookies returns the reader the client uses to look up cookies.
func (c *Client) Cookies() CookieReader {
	return c.cookies
}

// Request performs method against path.
//
// Mutating requests get the CSRF header attached, and a first 403 triggers one refresh-and-retry.
// Non-2xx outcomes are returned as [*StatusError].
func (c *Client) Request(ctx context.Context, method, path string, opts *Options) (*Response, error) {
	call, err := newCall(method, path, opts)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, call)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts *Options) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, opts)
}

// Post performs a POST request with body.
func (c *Client) Post(ctx context.Context, path string, body any, opts *Options) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, withBody(opts, body))
}

// Put performs a PUT request with body.
func (c *Client) Put(ctx context.Context, path string, body any, opts *Options) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, withBody(opts, body))
}

// Patch performs a PATCH request with body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts *Options) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, withBody(opts, body))
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts *Options) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, opts)
}

func withBody(opts *Options, body any) *Options {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if body != nil {
		o.Body = body
	}
	return &o
}

func newCall(method, path string, opts *Options) (*call, error) {
	if opts == nil {
		opts = &Options{}
	}

	c := &call{
		method:   strings.ToUpper(method),
		path:     path,
		query:    opts.Query,
		header:   opts.Header.Clone(),
		skipCSRF: opts.SkipCSRF,
	}
	if c.header == nil {
		c.header = http.Header{}
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}
	c.body = body
	if body != nil && c.header.Get("Content-Type") == "" {
		c.header.Set("Content-Type", jsonContentType)
	}

	return c, nil
}

func encodeBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		return data, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, nil
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	full := c.baseURL.String() + path
	if len(query) == 0 {
		return full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + query.Encode()
}

// send performs a single round trip for call and buffers the response body.
func (c *Client) send(ctx context.Context, call *call) (*Response, error) {
	var body io.Reader
	if call.body != nil {
		body = bytes.NewReader(call.body)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, c.resolve(call.path, call.query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range call.header {
		req.Header[k] = append([]string(nil), v...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     call.method,
			Path:       call.path,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       data,
		}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
