package session

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"
	"testing"

	"github.com/desertthunder/atlas/internal/client"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adaJSON = `{"id":7,"email":"ada@example.com","name":"Ada+Lovelace","firstName":"Ada","lastName":"King+Lovelace","profilePicture":null}`

var adaCookie = "user_info=" + url.PathEscape(adaJSON)

func ptr[T any](v T) *T { return &v }

func TestParseUserInfo(t *testing.T) {
	t.Run("decodes and restores spaces", func(t *testing.T) {
		u, err := ParseUserInfo(url.PathEscape(adaJSON))
		require.NoError(t, err)

		assert.Equal(t, int64(7), u.ID)
		assert.Equal(t, "ada@example.com", u.Email)
		assert.Equal(t, "Ada Lovelace", u.Name)
		assert.Equal(t, "King Lovelace", u.LastName)
		assert.Nil(t, u.ProfilePicture)
	})

	t.Run("plain json", func(t *testing.T) {
		u, err := ParseUserInfo(`{"id":1,"email":"a@b.c","profilePicture":"http://img"}`)
		require.NoError(t, err)
		require.NotNil(t, u.ProfilePicture)
		assert.Equal(t, "http://img", *u.ProfilePicture)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseUserInfo("")
		assert.ErrorIs(t, err, ErrNoUserData)
	})

	t.Run("bad escape", func(t *testing.T) {
		_, err := ParseUserInfo("%zz")
		assert.Error(t, err)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := ParseUserInfo(url.PathEscape("{not json"))
		assert.Error(t, err)
	})
}

func TestReduce(t *testing.T) {
	ada := models.User{ID: 7, Email: "ada@example.com", Name: "Ada"}

	tests := []struct {
		name   string
		start  State
		action Action
		want   State
	}{
		{
			name:   "set loading clears error",
			start:  State{IsLoading: false, Error: "boom"},
			action: SetLoading{Loading: true},
			want:   State{IsLoading: true},
		},
		{
			name:   "login success",
			start:  InitialState(),
			action: LoginSuccess{User: ada},
			want:   State{User: &ada, IsAuthenticated: true},
		},
		{
			name:   "logout",
			start:  State{User: &ada, IsAuthenticated: true, Error: "x"},
			action: Logout{},
			want:   State{},
		},
		{
			name:   "update without user is a no-op",
			start:  State{Error: "x"},
			action: UpdateUser{Patch: UserPatch{Name: ptr("Grace")}},
			want:   State{},
		},
		{
			name:   "set error stops loading",
			start:  InitialState(),
			action: SetError{Message: "Login failed"},
			want:   State{Error: "Login failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reduce(tt.start, tt.action))
		})
	}

	t.Run("update merges patch", func(t *testing.T) {
		start := State{User: &ada, IsAuthenticated: true}
		next := Reduce(start, UpdateUser{Patch: UserPatch{Name: ptr("Ada L."), ProfilePicture: ptr(ptr("http://img"))}})

		require.NotNil(t, next.User)
		assert.Equal(t, "Ada L.", next.User.Name)
		assert.Equal(t, "ada@example.com", next.User.Email)
		assert.Equal(t, "http://img", *next.User.ProfilePicture)
		assert.Equal(t, "Ada", ada.Name, "original user must not change")
	})
}

type fakeUsers struct {
	err   error
	calls int
}

func (f *fakeUsers) LogOut(context.Context) error {
	f.calls++
	return f.err
}

type fakeRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (f *fakeRemover) RemoveCookie(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, name)
	return f.err
}

func newStore(cookies string, users *fakeUsers, remover *fakeRemover) *Store {
	return NewStore(client.CookieString(cookies), remover, users, shared.NewLogger(io.Discard))
}

func TestStore_Init(t *testing.T) {
	t.Run("signed in from cookie", func(t *testing.T) {
		s := newStore("jwt=x; "+adaCookie, &fakeUsers{}, &fakeRemover{})
		assert.True(t, s.State().IsLoading)

		st := s.Init()
		assert.True(t, st.IsAuthenticated)
		assert.False(t, st.IsLoading)
		require.NotNil(t, st.User)
		assert.Equal(t, "Ada Lovelace", st.User.Name)

		id, ok := s.UserID()
		assert.True(t, ok)
		assert.Equal(t, int64(7), id)
	})

	t.Run("no cookie", func(t *testing.T) {
		s := newStore("jwt=x", &fakeUsers{}, &fakeRemover{})

		st := s.Init()
		assert.False(t, st.IsAuthenticated)
		assert.False(t, st.IsLoading)
		assert.Empty(t, st.Error)

		_, ok := s.UserID()
		assert.False(t, ok)
	})

	t.Run("empty cookie", func(t *testing.T) {
		st := newStore("user_info=", &fakeUsers{}, &fakeRemover{}).Init()
		assert.False(t, st.IsAuthenticated)
		assert.Empty(t, st.Error)
	})

	t.Run("corrupt cookie", func(t *testing.T) {
		st := newStore("user_info=%7Bnope", &fakeUsers{}, &fakeRemover{}).Init()
		assert.False(t, st.IsAuthenticated)
		assert.Equal(t, MsgLoadFailed, st.Error)
	})
}

func TestStore_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newStore(adaCookie, &fakeUsers{}, &fakeRemover{})
		assert.True(t, s.Login())
		assert.True(t, s.State().IsAuthenticated)
	})

	t.Run("no user data", func(t *testing.T) {
		s := newStore("", &fakeUsers{}, &fakeRemover{})
		assert.False(t, s.Login())
		assert.Equal(t, MsgNoUserData, s.State().Error)

		s.ClearError()
		assert.Empty(t, s.State().Error)
	})

	t.Run("corrupt cookie", func(t *testing.T) {
		s := newStore("user_info=%7Bnope", &fakeUsers{}, &fakeRemover{})
		assert.False(t, s.Login())
		assert.Equal(t, MsgLoginFailed, s.State().Error)
	})
}

func TestStore_Logout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users, remover := &fakeUsers{}, &fakeRemover{}
		s := newStore(adaCookie, users, remover)
		s.Init()

		require.NoError(t, s.Logout(context.Background()))
		assert.Equal(t, 1, users.calls)
		assert.Equal(t, []string{JWTCookie, UserInfoCookie}, remover.removed)
		assert.False(t, s.State().IsAuthenticated)
		assert.Nil(t, s.State().User)
	})

	t.Run("backend failure still signs out locally", func(t *testing.T) {
		users, remover := &fakeUsers{err: shared.ErrLogoutFailed}, &fakeRemover{}
		s := newStore(adaCookie, users, remover)
		s.Init()

		require.NoError(t, s.Logout(context.Background()))
		assert.False(t, s.State().IsAuthenticated)
		assert.Len(t, remover.removed, 2)
	})

	t.Run("cookie removal failure", func(t *testing.T) {
		remover := &fakeRemover{err: errors.New("disk full")}
		s := newStore(adaCookie, &fakeUsers{}, remover)
		s.Init()

		err := s.Logout(context.Background())
		assert.Error(t, err)
		assert.Equal(t, MsgLogoutFailed, s.State().Error)
		assert.True(t, s.State().IsAuthenticated)
	})
}

func TestStore_Subscribe(t *testing.T) {
	s := newStore(adaCookie, &fakeUsers{}, &fakeRemover{})

	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	s.Init()
	s.UpdateUser(UserPatch{Email: ptr("ada@lovelace.dev")})
	unsubscribe()
	s.ClearError()

	require.Len(t, got, 2)
	assert.True(t, got[0].IsAuthenticated)
	assert.Equal(t, "ada@lovelace.dev", got[1].User.Email)
}

func TestRemoverFunc(t *testing.T) {
	var name string
	r := RemoverFunc(func(n string) error { name = n; return nil })

	require.NoError(t, r.RemoveCookie(JWTCookie))
	assert.Equal(t, JWTCookie, name)
}
