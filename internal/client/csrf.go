package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// do runs call through token attachment, the round trip and, for an eligible 403, one refresh-and-retry.
func (c *Client) do(ctx context.Context, call *call) (*Response, error) {
	c.attachToken(call)

	resp, err := c.send(ctx, call)
	if err == nil || !c.retryable(call, err) {
		return resp, err
	}

	call.retried = true

	if rerr := c.refreshToken(ctx); rerr != nil {
		c.logger.Error("failed to refresh CSRF token", "method", call.method, "path", call.path, "error", rerr)
		return nil, err
	}

	token, ok := c.token()
	if !ok || token == "" {
		c.logger.Warn("no CSRF token after refresh", "method", call.method, "path", call.path)
		return nil, err
	}

	call.header.Set(c.headerName, token)
	return c.do(ctx, call)
}

// attachToken sets the CSRF header on mutating calls that do not already carry it.
func (c *Client) attachToken(call *call) {
	if call.skipCSRF || !isMutating(call.method) {
		return
	}
	if call.header.Get(c.headerName) != "" {
		return
	}
	if token, ok := c.token(); ok && token != "" {
		call.header.Set(c.headerName, token)
	}
}

func (c *Client) retryable(call *call, err error) bool {
	if call.skipCSRF || call.retried {
		return false
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusForbidden
}

// refreshToken asks the backend to reissue the token cookie.
//
// Concurrent callers share one in-flight request. The shared request is detached from the first caller's
// cancellation and bounded by the client timeout; each caller may still stop waiting through its own ctx.
func (c *Client) refreshToken(ctx context.Context) error {
	ch := c.refresh.DoChan(c.csrfPath, func() (any, error) {
		fetch := &call{method: http.MethodGet, path: c.csrfPath, header: http.Header{}, skipCSRF: true}
		return c.do(context.WithoutCancel(ctx), fetch)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// token reads and percent-decodes the CSRF cookie.
func (c *Client) token() (string, bool) {
	raw, ok := c.cookies.ReadCookie(c.cookieName)
	if !ok {
		return "", false
	}

	value, err := url.PathUnescape(raw)
	if err != nil {
		c.logger.Warn("malformed CSRF cookie", "cookie", c.cookieName, "error", err)
		return "", false
	}
	return value, true
}

// RefreshCSRF fetches a fresh token and reports whether one is readable afterwards.
func (c *Client) RefreshCSRF(ctx context.Context) bool {
	if err := c.refreshToken(ctx); err != nil {
		c.logger.Error("failed to refresh CSRF token", "error", err)
		return false
	}
	return c.HasCSRFToken()
}

// HasCSRFToken reports whether the token cookie is present.
func (c *Client) HasCSRFToken() bool {
	_, ok := c.token()
	return ok
}

// CSRFToken returns the current decoded token.
func (c *Client) CSRFToken() (string, bool) {
	return c.token()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
