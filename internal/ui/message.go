package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/atlas/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFixturesFetched MsgKind = iota
	MsgLoggedOut
)

type fixturesFetched struct {
	fixtures []models.Fixture
	err      error
}

// fixturesFetchedMsg is the constructor for [MsgFixturesFetched]
func fixturesFetchedMsg(fixtures []models.Fixture, err error) Msg {
	return Msg{kind: MsgFixturesFetched, data: fixturesFetched{fixtures, err}}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, data: err}
}
