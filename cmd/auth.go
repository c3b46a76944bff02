package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/server"
	"github.com/desertthunder/atlas/internal/session"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	defaultLoginTimeout = 2 * time.Minute
	// sessionTTL matches the max age the backend gives its session cookies.
	sessionTTL = 24 * time.Hour
)

// AuthLogin signs in through the backend's OAuth flow.
//
// Starts a local HTTP server on the frontend port the backend redirects to, opens the browser at the backend's
// authorization endpoint and captures the session cookies the browser replays to the callback.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	provider := cmd.String("provider")
	if provider == "" {
		provider = r.config.Auth.Provider
	}
	if provider == "" {
		return fmt.Errorf("%w: provider (set auth.provider or pass --provider)", shared.ErrMissingArgument)
	}

	cookies, err := r.doLogin(ctx, provider, !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	return r.finishLogin(ctx, cookies)
}

// AuthImport signs in with cookies copied from a browser request.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		req *shared.CurlRequest
		err error
	)
	if curlFile != "" {
		if req, err = shared.ParseCurlFile(curlFile); err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		if req, err = shared.ParseCurlCommand(curlCmd); err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	cookies := req.Cookies()
	if len(cookies) == 0 {
		return fmt.Errorf("%w: the cURL command carries no cookies", shared.ErrNoCookies)
	}
	r.logger.Debug("importing cookies", "count", len(cookies), "url", req.URL)

	return r.finishLogin(ctx, cookies)
}

// finishLogin stores the session cookies, signs the session store in and fetches a CSRF token.
func (r *Runner) finishLogin(ctx context.Context, cookies []*http.Cookie) error {
	r.storeCookies(cookies)

	if !r.session.Login() {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, r.session.State().Error)
	}

	if !r.client.RefreshCSRF(ctx) {
		r.logger.Warn("no CSRF token issued; it will be fetched on the first rejected request")
	}

	user := r.session.State().User
	r.writePlainln("✓ Signed in as %s", user.DisplayName())
	if user.Email != "" {
		r.writePlain("  %s\n", user.Email)
	}
	r.writePlain("\nYou can now use: atlas fixtures\n")
	return nil
}

// storeCookies saves cookies in the client jar for the API origin.
//
// Cookies replayed by a browser carry no attributes, so they get the lifetime the backend issues them with.
func (r *Runner) storeCookies(cookies []*http.Cookie) {
	expires := time.Now().Add(sessionTTL)

	stored := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			Expires:  expires,
			HttpOnly: c.Name == session.JWTCookie,
		})
	}
	r.client.Jar().SetCookies(r.client.BaseURL(), stored)
}

func (r *Runner) loginURL(provider string) string {
	return r.client.BaseURL().JoinPath("oauth2", "authorization", provider).String()
}

// doLogin runs the callback server until the browser comes back with the session cookies.
func (r *Runner) doLogin(ctx context.Context, provider string, openBrowser bool) ([]*http.Cookie, error) {
	handler := server.NewCallbackHandler(session.JWTCookie, session.UserInfoCookie)
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger), server.NoCache)
	router.Handler(handler)

	addr := fmt.Sprintf("localhost:%d", r.config.Auth.CallbackPort)
	listener, err := server.Listen(addr, router)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := listener.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()
	r.logger.Infof("callback server listening at %v", listener.Addr())

	authURL := r.loginURL(provider)
	if openBrowser {
		r.writePlain("→ Opening browser to sign in with %s...\n", provider)
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	} else {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	}

	timeout := r.config.Auth.LoginTimeout
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}
	r.writePlain("→ Waiting for sign-in (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}
		return result.Cookies, nil
	case err := <-listener.Errors():
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: no sign-in after %v", shared.ErrLoginTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// authStatus is the --json shape of [Runner.AuthStatus].
type authStatus struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	Error         string       `json:"error,omitempty"`
	CSRFToken     bool         `json:"csrfToken"`
	Cookies       []cookieInfo `json:"cookies"`
}

type cookieInfo struct {
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// AuthStatus reports the local session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	st := r.session.State()
	status := authStatus{
		Authenticated: st.IsAuthenticated,
		User:          st.User,
		Error:         st.Error,
		CSRFToken:     r.client.HasCSRFToken(),
		Cookies:       []cookieInfo{},
	}

	if r.jar != nil {
		stored, err := r.jar.Stored()
		if err != nil {
			r.logger.Warn("failed to list stored cookies", "error", err)
		}
		for _, c := range stored {
			status.Cookies = append(status.Cookies, cookieInfo{Name: c.Name, Host: c.Host, ExpiresAt: c.ExpiresAt})
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlainHeader("Session")
	if st.IsAuthenticated && st.User != nil {
		r.writePlain("User: ✓ %s", st.User.DisplayName())
		if st.User.Email != "" {
			r.writePlain(" <%s>", st.User.Email)
		}
		r.writePlain("\n")
	} else {
		r.writePlain("User: ✗ Not signed in\n")
	}
	if st.Error != "" {
		r.writePlain("Error: %s\n", st.Error)
	}
	if status.CSRFToken {
		r.writePlain("CSRF token: ✓ present\n")
	} else {
		r.writePlain("CSRF token: ✗ missing\n")
	}

	if r.jar == nil {
		r.writePlain("Stored cookies: unavailable (no database)\n")
		return nil
	}
	r.writePlain("Stored cookies: %d\n", len(status.Cookies))
	for _, c := range status.Cookies {
		expiry := "session"
		if c.ExpiresAt != nil {
			expiry = "expires " + c.ExpiresAt.Local().Format("Jan 2 15:04")
		}
		r.writePlain("  • %s (%s, %s)\n", c.Name, c.Host, expiry)
	}
	return nil
}

// AuthLogout ends the backend session and drops the local credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.State().IsAuthenticated {
		return r.writePlain("Not signed in\n")
	}

	md := models.Metadata{TriggerID: "Logout", Screen: "/"}
	if err := r.metrics.Save(ctx, models.EventLogout, md); err != nil {
		r.logger.Warn("logout metric not recorded", "error", err)
	}

	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLogoutFailed, err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthCSRF asks the backend for a fresh CSRF token.
func (r *Runner) AuthCSRF(ctx context.Context, cmd *cli.Command) error {
	if !r.client.RefreshCSRF(ctx) {
		return fmt.Errorf("%w: backend issued no CSRF token", shared.ErrAuthFailed)
	}

	token, _ := r.client.CSRFToken()
	if cmd.Bool("show") {
		return r.writePlain("%s\n", token)
	}
	return r.writePlain("✓ CSRF token refreshed (%s)\n", maskToken(token))
}

// maskToken keeps the first four characters of a token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "…"
}
