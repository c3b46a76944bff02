package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/session"
	"github.com/desertthunder/atlas/internal/shared"
	th "github.com/desertthunder/atlas/internal/testing"
)

type fakeFixtures struct {
	fixtures    []models.Fixture
	err         error
	calls       int
	invalidated int
}

func (f *fakeFixtures) Upcoming(context.Context) (*models.FixtureResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.FixtureResponse{Status: "success", Fixtures: f.fixtures, Results: len(f.fixtures)}, nil
}

func (f *fakeFixtures) Invalidate() { f.invalidated++ }

type fakeTracker struct {
	mu     sync.Mutex
	events []models.MetricEvent
}

func (f *fakeTracker) Beacon(event models.EventType, md models.Metadata) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, models.MetricEvent{Event: event, EventMetadata: md})
}

func (f *fakeTracker) last() models.MetricEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

type fakeSession struct {
	state     session.State
	logoutErr error
	loggedOut bool
}

func (f *fakeSession) State() session.State { return f.state }

func (f *fakeSession) Logout(context.Context) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.loggedOut = true
	f.state = session.Reduce(f.state, session.Logout{})
	return nil
}

func signedIn() *fakeSession {
	u := models.User{ID: 7, Name: "Ada Lovelace", Email: "ada@example.com"}
	return &fakeSession{state: session.Reduce(session.InitialState(), session.LoginSuccess{User: u})}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, fixtures *fakeFixtures, sess *fakeSession) (*Model, *fakeTracker) {
	t.Helper()

	tracker := &fakeTracker{}
	m := NewModel(context.Background(), fixtures, tracker, sess)
	m.loc = time.UTC
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if cmd := m.Init(); cmd != nil {
		m.Update(cmd())
	}
	return m, tracker
}

func sampleFixtures() []models.Fixture {
	return []models.Fixture{
		th.NewFixture(1, th.LaLiga, "Barcelona", "Valencia"),
		th.NewFixture(2, th.PremierLeague, "Arsenal", "Chelsea"),
		th.WithScore(th.NewFixture(3, th.PremierLeague, "Liverpool", "Everton"), 1, 0, models.StatusLive),
	}
}

func TestModel_Home(t *testing.T) {
	t.Run("groups leagues by id", func(t *testing.T) {
		m, _ := newTestModel(t, &fakeFixtures{fixtures: sampleFixtures()}, signedIn())

		if len(m.groups) != 2 {
			t.Fatalf("expected 2 leagues, got %d", len(m.groups))
		}
		if m.groups[0].League.ID != th.PremierLeague {
			t.Errorf("expected Premier League first, got %d", m.groups[0].League.ID)
		}

		view := m.View()
		if !strings.Contains(view, "Premier League") || !strings.Contains(view, "La Liga") {
			t.Errorf("expected both leagues in view, got:\n%s", view)
		}
		if !strings.Contains(view, "Ada Lovelace") {
			t.Errorf("navbar should show the signed-in user")
		}
	})

	t.Run("enter opens fixtures and esc goes back", func(t *testing.T) {
		m, tracker := newTestModel(t, &fakeFixtures{fixtures: sampleFixtures()}, signedIn())

		m.Update(keyPress("enter"))
		if m.pane != fixturesPane {
			t.Fatalf("expected fixtures pane")
		}
		if m.selected == nil || m.selected.League.ID != th.PremierLeague {
			t.Fatalf("expected Premier League selected, got %+v", m.selected)
		}
		if got := len(m.fixtureList.Items()); got != 2 {
			t.Errorf("expected 2 fixtures, got %d", got)
		}

		ev := tracker.last()
		if ev.Event != models.EventButtonClick || ev.EventMetadata.TriggerID != "league-39" || ev.EventMetadata.Screen != "/" {
			t.Errorf("unexpected beacon %+v", ev)
		}

		if view := m.View(); !strings.Contains(view, "Arsenal vs Chelsea") {
			t.Errorf("expected fixture in view, got:\n%s", view)
		}

		m.Update(keyPress("esc"))
		if m.pane != leaguesPane || m.selected != nil {
			t.Errorf("esc should return to leagues")
		}
	})

	t.Run("fetch error and retry", func(t *testing.T) {
		fixtures := &fakeFixtures{err: shared.ErrFixturesUnavailable}
		m, tracker := newTestModel(t, fixtures, signedIn())

		if !errors.Is(m.err, shared.ErrFixturesUnavailable) {
			t.Fatalf("expected fixtures error, got %v", m.err)
		}
		if !strings.Contains(m.View(), "Press r to retry") {
			t.Errorf("expected retry hint")
		}

		fixtures.err = nil
		fixtures.fixtures = sampleFixtures()

		_, cmd := m.Update(keyPress("r"))
		if fixtures.invalidated != 1 {
			t.Errorf("refresh should invalidate the cache")
		}
		if !m.loading {
			t.Errorf("expected loading after refresh")
		}
		m.Update(cmd())

		if m.err != nil || len(m.groups) != 2 {
			t.Errorf("expected fixtures after retry, err=%v groups=%d", m.err, len(m.groups))
		}
		if tracker.last().EventMetadata.TriggerID != "Refresh" {
			t.Errorf("expected Refresh beacon")
		}
	})

	t.Run("refresh keeps the open league", func(t *testing.T) {
		fixtures := &fakeFixtures{fixtures: sampleFixtures()}
		m, _ := newTestModel(t, fixtures, signedIn())

		m.Update(keyPress("enter"))
		_, cmd := m.Update(keyPress("r"))
		m.Update(cmd())

		if m.pane != fixturesPane || m.selected == nil || m.selected.League.ID != th.PremierLeague {
			t.Errorf("expected Premier League to stay open")
		}
	})

	t.Run("empty", func(t *testing.T) {
		m, _ := newTestModel(t, &fakeFixtures{fixtures: []models.Fixture{}}, signedIn())
		if !strings.Contains(m.View(), "No upcoming fixtures available.") {
			t.Errorf("expected empty message")
		}
	})
}

func TestModel_Profile(t *testing.T) {
	t.Run("shows user", func(t *testing.T) {
		m, tracker := newTestModel(t, &fakeFixtures{}, signedIn())

		m.Update(keyPress("p"))
		if m.Route() != RouteProfile {
			t.Fatalf("expected profile route, got %s", m.Route())
		}

		ev := tracker.last()
		if ev.EventMetadata.TriggerID != "Profile" || ev.EventMetadata.Screen != "/" {
			t.Errorf("beacon should report the screen the click came from, got %+v", ev)
		}

		view := m.View()
		for _, want := range []string{"A", "Ada Lovelace", "ada@example.com"} {
			if !strings.Contains(view, want) {
				t.Errorf("profile view missing %q", want)
			}
		}

		m.Update(keyPress("h"))
		if m.Route() != RouteHome {
			t.Errorf("expected home route")
		}
		if ev := tracker.last(); ev.EventMetadata.TriggerID != "Matches" || ev.EventMetadata.Screen != "/profile" {
			t.Errorf("unexpected beacon %+v", ev)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		sess := &fakeSession{state: session.Reduce(session.InitialState(), session.SetLoading{Loading: false})}
		m, _ := newTestModel(t, &fakeFixtures{}, sess)

		m.Update(keyPress("p"))
		if !strings.Contains(m.View(), "Not signed in") {
			t.Errorf("expected signed-out message")
		}
	})
}

func TestModel_Logout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sess := signedIn()
		m, tracker := newTestModel(t, &fakeFixtures{}, sess)
		m.Update(keyPress("p"))

		_, cmd := m.Update(keyPress("o"))
		if cmd == nil {
			t.Fatal("expected logout command")
		}
		if ev := tracker.last(); ev.Event != models.EventLogout || ev.EventMetadata.Screen != "/profile" {
			t.Errorf("expected LOGOUT beacon from profile, got %+v", ev)
		}

		m.Update(cmd())
		if !sess.loggedOut {
			t.Error("expected session logout")
		}
		if m.Route() != RouteHome || m.status != "Signed out" {
			t.Errorf("expected home with status, got %s %q", m.Route(), m.status)
		}
		if !strings.Contains(m.View(), "not signed in") {
			t.Errorf("navbar should show signed out")
		}
	})

	t.Run("failure", func(t *testing.T) {
		sess := signedIn()
		sess.logoutErr = errors.New("cookie store unavailable")
		m, _ := newTestModel(t, &fakeFixtures{}, sess)

		_, cmd := m.Update(keyPress("o"))
		m.Update(cmd())

		if m.err == nil || !strings.Contains(m.err.Error(), "logout failed") {
			t.Errorf("expected logout error, got %v", m.err)
		}
	})

	t.Run("not signed in", func(t *testing.T) {
		sess := &fakeSession{state: session.Reduce(session.InitialState(), session.SetLoading{Loading: false})}
		m, tracker := newTestModel(t, &fakeFixtures{}, sess)

		if _, cmd := m.Update(keyPress("o")); cmd != nil {
			t.Error("expected no logout command")
		}
		if len(tracker.events) != 0 {
			t.Error("expected no beacons")
		}
	})
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, &fakeFixtures{}, signedIn())

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestListItems(t *testing.T) {
	f := th.WithScore(th.NewFixture(3, th.PremierLeague, "Liverpool", "Everton"), 1, 0, models.StatusLive)
	item := fixtureItem{fixture: f, loc: time.UTC}

	if !strings.Contains(item.Title(), "Liverpool 1 - 0 Everton") {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "Aug 16 • 2:00 PM • LIVE • Liverpool Stadium, City" {
		t.Errorf("unexpected description %q", item.Description())
	}

	league := leagueItem{group: models.GroupByLeague([]models.Fixture{f})[0]}
	if league.Description() != "1 fixtures • Country" {
		t.Errorf("unexpected league description %q", league.Description())
	}
}
