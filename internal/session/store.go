package session

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/atlas/internal/client"
)

// Error messages surfaced in [State.Error].
const (
	MsgLoadFailed   = "Failed to load user data"
	MsgNoUserData   = "No user data found"
	MsgLoginFailed  = "Login failed"
	MsgLogoutFailed = "Logout failed"
)

// LogOuter ends the backend session.
type LogOuter interface {
	LogOut(ctx context.Context) error
}

// CookieRemover deletes a cookie from wherever credentials are kept.
type CookieRemover interface {
	RemoveCookie(name string) error
}

// RemoverFunc adapts a function to [CookieRemover].
type RemoverFunc func(name string) error

func (f RemoverFunc) RemoveCookie(name string) error { return f(name) }

// Store holds the session state and keeps it in sync with the credential cookies.
//
// A Store is safe for concurrent use.
type Store struct {
	cookies client.CookieReader
	remover CookieRemover
	users   LogOuter
	logger  *log.Logger

	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore creates a store in the initial loading state. Call [Store.Init] to read the cookie.
func NewStore(cookies client.CookieReader, remover CookieRemover, users LogOuter, logger *log.Logger) *Store {
	return &Store{
		cookies: cookies,
		remover: remover,
		users:   users,
		logger:  logger,
		state:   InitialState(),
		subs:    make(map[int]func(State)),
	}
}

// Dispatch applies a and notifies subscribers with the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// UserID reports the signed-in user's id.
func (s *Store) UserID() (int64, bool) {
	st := s.State()
	if st.User == nil {
		return 0, false
	}
	return st.User.ID, true
}

// Init signs the user in from the user_info cookie, or ends loading when there is none.
func (s *Store) Init() State {
	raw, ok := s.cookies.ReadCookie(UserInfoCookie)
	if !ok || raw == "" {
		return s.Dispatch(SetLoading{Loading: false})
	}

	u, err := ParseUserInfo(raw)
	if err != nil {
		s.logger.Error("error initializing user", "error", err)
		return s.Dispatch(SetError{Message: MsgLoadFailed})
	}
	return s.Dispatch(LoginSuccess{User: *u})
}

// Login re-reads the user_info cookie and reports whether a user is now signed in.
func (s *Store) Login() bool {
	raw, ok := s.cookies.ReadCookie(UserInfoCookie)
	if !ok || raw == "" {
		s.Dispatch(SetError{Message: MsgNoUserData})
		return false
	}

	u, err := ParseUserInfo(raw)
	if err != nil {
		s.logger.Error("login error", "error", err)
		s.Dispatch(SetError{Message: MsgLoginFailed})
		return false
	}

	s.Dispatch(LoginSuccess{User: *u})
	return true
}

// Logout ends the backend session, then drops the local credentials.
//
// A failed backend call is logged and does not keep the user signed in locally.
func (s *Store) Logout(ctx context.Context) error {
	if s.users != nil {
		if err := s.users.LogOut(ctx); err != nil {
			s.logger.Warn("backend logout failed", "error", err)
		}
	}

	var errs []error
	for _, name := range []string{JWTCookie, UserInfoCookie} {
		if err := s.remover.RemoveCookie(name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("logout error", "error", err)
		s.Dispatch(SetError{Message: MsgLogoutFailed})
		return err
	}

	s.Dispatch(Logout{})
	return nil
}

// UpdateUser merges patch into the signed-in user.
func (s *Store) UpdateUser(patch UserPatch) {
	s.Dispatch(UpdateUser{Patch: patch})
}

// ClearError drops the current error message.
func (s *Store) ClearError() {
	s.Dispatch(SetError{Message: ""})
}
