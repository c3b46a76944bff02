package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Listener is a running HTTP server bound before Listen returns, so callers never race the socket.
type Listener struct {
	srv  *http.Server
	ln   net.Listener
	errs chan error
}

// Listen binds addr and serves handler in the background.
func Listen(addr string, handler http.Handler) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l := &Listener{
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		ln:   ln,
		errs: make(chan error, 1),
	}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errs <- err
		}
	}()

	return l, nil
}

// Addr returns the bound address, with the port resolved when addr asked for port 0.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// URL returns the http URL of the server root.
func (l *Listener) URL() string {
	return "http://" + l.Addr() + "/"
}

// Errors reports a serve failure. It never receives after a clean shutdown.
func (l *Listener) Errors() <-chan error {
	return l.errs
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.srv.Shutdown(ctx)
}
