package server

import (
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"sync"
)

// LoginResult contains the outcome of a browser login.
type LoginResult struct {
	Cookies []*http.Cookie
	err     error
}

func (l *LoginResult) Error() error {
	return l.err
}

// Cookie returns the captured cookie called name.
func (l *LoginResult) Cookie(name string) (*http.Cookie, bool) {
	i := slices.IndexFunc(l.Cookies, func(c *http.Cookie) bool { return c.Name == name })
	if i < 0 {
		return nil, false
	}
	return l.Cookies[i], true
}

// CallbackHandler receives the browser after the backend finishes OAuth.
//
// The backend sets its session cookies on the localhost domain and redirects to the frontend URL, so the browser
// replays them to this handler. The first request that carries every required cookie, or the backend's error
// redirect, produces the single [LoginResult].
type CallbackHandler struct {
	required   []string
	resultChan chan LoginResult
	once       sync.Once
	mu         sync.Mutex
	done       bool
}

// NewCallbackHandler creates a handler waiting for the named cookies.
func NewCallbackHandler(required ...string) *CallbackHandler {
	return &CallbackHandler{
		required:   required,
		resultChan: make(chan LoginResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/{$}", "/oauth-error"}
}

// ServeHTTP handles the post-login redirect.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		renderPage(w, http.StatusOK, alreadyDone)
		return
	}

	if r.URL.Path == "/oauth-error" {
		h.done = true
		h.mu.Unlock()

		msg := r.URL.Query().Get("error")
		h.Send(LoginResult{err: fmt.Errorf("authorization failed: %s", msg)})
		renderPage(w, http.StatusBadRequest, page{Title: "Authorization Failed", Heading: "✗ Authorization Failed", Body: msg})
		return
	}

	var captured []*http.Cookie
	for _, name := range h.required {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			h.mu.Unlock()
			renderPage(w, http.StatusBadRequest, page{
				Title:   "Waiting for Login",
				Heading: "Not signed in yet",
				Body:    "Finish signing in through the backend, then you will be redirected here.",
			})
			return
		}
		captured = append(captured, c)
	}
	h.done = true
	h.mu.Unlock()

	h.Send(LoginResult{Cookies: captured})
	renderPage(w, http.StatusOK, success)
}

// Send delivers result on the result channel (only once).
func (h *CallbackHandler) Send(result LoginResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan LoginResult {
	return h.resultChan
}

type page struct {
	Title   string
	Heading string
	Body    string
}

var (
	success     = page{Title: "Authorization Successful", Heading: "✓ Authorization Successful", Body: "You can close this window and return to the terminal."}
	alreadyDone = page{Title: "Already Signed In", Heading: "✓ Already Signed In", Body: "You can close this window."}
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #121212; color: #e0e0e0; }
        .container { text-align: center; background: #1e1e1e; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: #90caf9; margin: 0 0 1rem 0; }
        p { color: #b0b0b0; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Heading}}</h1>
        <p>{{.Body}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}
