package session

import (
	"github.com/desertthunder/atlas/internal/models"
)

// State is a snapshot of the session.
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// InitialState is the state before the user_info cookie has been read.
func InitialState() State {
	return State{IsLoading: true}
}

// Action is a state transition understood by [Reduce].
type Action interface {
	action()
}

type (
	// SetLoading toggles the loading flag and clears any error.
	SetLoading struct{ Loading bool }
	// LoginSuccess signs User in.
	LoginSuccess struct{ User models.User }
	// Logout signs the user out.
	Logout struct{}
	// UpdateUser merges the non-nil fields of Patch into the current user.
	UpdateUser struct{ Patch UserPatch }
	// SetError records an error message; an empty message clears it.
	SetError struct{ Message string }
)

func (SetLoading) action()   {}
func (LoginSuccess) action() {}
func (Logout) action()       {}
func (UpdateUser) action()   {}
func (SetError) action()     {}

// UserPatch is a partial [models.User].
type UserPatch struct {
	ID             *int64
	Email          *string
	Name           *string
	FirstName      *string
	LastName       *string
	ProfilePicture **string
}

// Apply returns u with the patch merged in.
func (p UserPatch) Apply(u models.User) models.User {
	if p.ID != nil {
		u.ID = *p.ID
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	return u
}

// Reduce applies a to s and returns the new state. s is not modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		s.IsLoading = a.Loading
		s.Error = ""
	case LoginSuccess:
		u := a.User
		s.User = &u
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Error = ""
	case Logout:
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = ""
	case UpdateUser:
		if s.User != nil {
			u := a.Patch.Apply(*s.User)
			s.User = &u
		}
		s.Error = ""
	case SetError:
		s.Error = a.Message
		s.IsLoading = false
	}
	return s
}
