package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/atlas/internal/models"
	"github.com/desertthunder/atlas/internal/session"
)

// Route is a screen of the TUI, named after the web app path it stands in for.
type Route string

const (
	RouteHome    Route = "/"
	RouteProfile Route = "/profile"
)

// pane is the active list on [RouteHome].
type pane int

const (
	leaguesPane pane = iota
	fixturesPane
)

// FixtureSource supplies upcoming fixtures, typically [services.FixturesService].
type FixtureSource interface {
	Upcoming(ctx context.Context) (*models.FixtureResponse, error)
	Invalidate()
}

// Tracker sends fire-and-forget telemetry, typically [services.MetricsService].
type Tracker interface {
	Beacon(event models.EventType, md models.Metadata)
}

// Session exposes the signed-in user, typically [session.Store].
type Session interface {
	State() session.State
	Logout(ctx context.Context) error
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	route       Route
	pane        pane
	fixtures    FixtureSource
	tracker     Tracker
	session     Session
	loc         *time.Location
	width       int
	height      int
	leagueList  list.Model
	fixtureList list.Model
	groups      []models.LeagueFixtures
	selected    *models.LeagueFixtures
	loading     bool
	status      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, fixtures FixtureSource, tracker Tracker, sess Session) *Model {
	leagues := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	leagues.Title = "Upcoming Fixtures"
	leagues.SetShowHelp(false)

	games := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	games.SetShowHelp(false)

	return &Model{
		ctx:         ctx,
		route:       RouteHome,
		pane:        leaguesPane,
		fixtures:    fixtures,
		tracker:     tracker,
		session:     sess,
		loc:         time.Local,
		leagueList:  leagues,
		fixtureList: games,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by fetching upcoming fixtures.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.fetchFixtures()
}

// Route returns the current screen.
func (m *Model) Route() Route {
	return m.route
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.leagueList.SetSize(msg.Width-4, msg.Height-8)
		m.fixtureList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgFixturesFetched:
			return m, m.setFixtures(msg.data.(fixturesFetched))
		case MsgLoggedOut:
			err, _ := msg.data.(error)
			if err != nil {
				m.err = fmt.Errorf("logout failed: %w", err)
				return m, nil
			}
			m.err = nil
			m.status = "Signed out"
			m.route = RouteHome
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the navbar and the current route.
func (m *Model) View() string {
	var body string
	switch m.route {
	case RouteProfile:
		body = m.renderProfile()
	default:
		body = m.renderHome()
	}

	parts := []string{m.renderNavbar(), body}
	if m.status != "" {
		parts = append(parts, styles.ok.Render(m.status))
	}
	parts = append(parts, m.renderHelp())
	return strings.Join(parts, "\n\n")
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeList().FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.home):
		m.navigate(RouteHome, "Matches")
		m.pane = leaguesPane
		return m, nil

	case key.Matches(msg, m.keys.profile):
		m.navigate(RouteProfile, "Profile")
		return m, nil

	case key.Matches(msg, m.keys.logout):
		if !m.session.State().IsAuthenticated {
			m.status = "Not signed in"
			return m, nil
		}
		m.track(models.EventButtonClick, "Logout")
		m.track(models.EventLogout, "Logout")
		return m, m.logout()
	}

	if m.route != RouteHome {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.refresh):
		m.track(models.EventButtonClick, "Refresh")
		m.fixtures.Invalidate()
		m.loading = true
		m.err = nil
		return m, m.fetchFixtures()

	case key.Matches(msg, m.keys.enter) && m.pane == leaguesPane:
		if item, ok := m.leagueList.SelectedItem().(leagueItem); ok {
			m.track(models.EventButtonClick, fmt.Sprintf("league-%d", item.group.League.ID))
			m.openLeague(item.group)
		}
		return m, nil

	case key.Matches(msg, m.keys.back) && m.pane == fixturesPane:
		m.pane = leaguesPane
		m.selected = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// navigate switches route, reporting the click from the screen it started on.
func (m *Model) navigate(to Route, trigger string) {
	m.track(models.EventButtonClick, trigger)
	m.route = to
	m.status = ""
}

func (m *Model) track(event models.EventType, trigger string) {
	if m.tracker == nil {
		return
	}
	m.tracker.Beacon(event, models.Metadata{TriggerID: trigger, Screen: string(m.route)})
}

func (m *Model) openLeague(group models.LeagueFixtures) {
	items := make([]list.Item, len(group.Fixtures))
	for i, f := range group.Fixtures {
		items[i] = fixtureItem{fixture: f, loc: m.loc}
	}
	m.fixtureList.SetItems(items)
	m.fixtureList.ResetSelected()
	m.fixtureList.Title = group.League.Name

	m.selected = &group
	m.pane = fixturesPane
}

func (m *Model) setFixtures(res fixturesFetched) tea.Cmd {
	m.loading = false
	if res.err != nil {
		m.err = res.err
		return nil
	}

	m.err = nil
	m.groups = models.GroupByLeague(res.fixtures)

	items := make([]list.Item, len(m.groups))
	for i, g := range m.groups {
		items[i] = leagueItem{group: g}
	}
	cmd := m.leagueList.SetItems(items)

	prev := m.selected
	m.selected = nil
	m.pane = leaguesPane
	if prev != nil {
		for _, g := range m.groups {
			if g.League.ID == prev.League.ID {
				m.openLeague(g)
				break
			}
		}
	}
	return cmd
}

func (m *Model) activeList() *list.Model {
	if m.pane == fixturesPane {
		return &m.fixtureList
	}
	return &m.leagueList
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.route != RouteHome {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.pane {
	case leaguesPane:
		m.leagueList, cmd = m.leagueList.Update(msg)
	case fixturesPane:
		m.fixtureList, cmd = m.fixtureList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchFixtures() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.fixtures.Upcoming(m.ctx)
		if err != nil {
			return fixturesFetchedMsg(nil, err)
		}
		return fixturesFetchedMsg(resp.Fixtures, nil)
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.session.Logout(m.ctx))
	}
}

func (m *Model) renderNavbar() string {
	tab := func(label string, r Route) string {
		if m.route == r {
			return styles.active.Render(label)
		}
		return styles.inactive.Render(label)
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.brand.Render("ATLAS"), "  ",
		tab("Matches", RouteHome), "  ",
		tab("Profile", RouteProfile),
	)

	st := m.session.State()
	var right string
	switch {
	case st.IsLoading:
		right = styles.help.Render("loading…")
	case st.User != nil:
		right = styles.avatar.Render(st.User.Initial()) + " " + st.User.DisplayName()
	default:
		right = styles.help.Render("not signed in")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderHome() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + styles.help.Render("Press r to retry")
	case m.loading:
		return styles.help.Render("Loading fixtures…")
	case len(m.groups) == 0:
		return styles.warn.Render("No upcoming fixtures available.")
	case m.pane == fixturesPane:
		return m.fixtureList.View()
	default:
		return m.leagueList.View()
	}
}

func (m *Model) renderProfile() string {
	st := m.session.State()

	if st.IsLoading {
		return styles.help.Render("Loading profile…")
	}

	var b strings.Builder
	if st.Error != "" {
		b.WriteString(styles.err.Render(st.Error))
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if !st.IsAuthenticated || st.User == nil {
		b.WriteString(styles.warn.Render("Not signed in. Run `atlas auth login` to sign in."))
		return b.String()
	}

	u := st.User
	avatar := styles.avatar.Padding(1, 3).Render(u.Initial())
	lines := []string{avatar, styles.heading.Render(u.DisplayName())}
	if u.Email != "" {
		lines = append(lines, styles.help.Render(u.Email))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return b.String()
}

func (m *Model) renderHelp() string {
	bindings := []key.Binding{m.keys.home, m.keys.profile}
	if m.route == RouteHome {
		switch m.pane {
		case leaguesPane:
			bindings = append([]key.Binding{m.keys.enter}, bindings...)
		case fixturesPane:
			bindings = append([]key.Binding{m.keys.back}, bindings...)
		}
		bindings = append(bindings, m.keys.refresh)
	}
	if m.session.State().IsAuthenticated {
		bindings = append(bindings, m.keys.logout)
	}
	bindings = append(bindings, m.keys.quit)
	return m.help.ShortHelpView(bindings)
}
