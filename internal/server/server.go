// package server contains middleware & handlers for the local login callback server
package server

import (
	"net/http"
)

// Middleware decorates an [http.Handler].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which path patterns it answers.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a shared middleware chain.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

var _ Router = (*BasicRouter)(nil)
