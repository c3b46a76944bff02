// Package server provides HTTP routing, middleware, and the login callback handler used by the CLI.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Login Callback Handler
//
// The backend runs the whole OAuth authorization-code exchange itself. When it is done it sets the jwt and
// user_info cookies for the localhost domain and redirects the browser to http://localhost:3000/.
//
// [CallbackHandler] listens there in place of the browser app. Because cookies are not scoped by port, the browser
// sends the freshly issued cookies along with the redirect; the handler captures them and sends them through a
// channel. It only processes one login.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
