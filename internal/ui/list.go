package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/atlas/internal/formatter"
	"github.com/desertthunder/atlas/internal/models"
)

var (
	_ list.Item = leagueItem{}
	_ list.Item = fixtureItem{}
)

// leagueItem wraps [models.LeagueFixtures] to implement [list.Item].
type leagueItem struct {
	group models.LeagueFixtures
}

func (i leagueItem) FilterValue() string { return i.group.League.Name }
func (i leagueItem) Title() string       { return i.group.League.Name }
func (i leagueItem) Description() string {
	desc := fmt.Sprintf("%d fixtures", len(i.group.Fixtures))
	if i.group.League.Country != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.group.League.Country)
	}
	return desc
}

// fixtureItem wraps [models.Fixture] to implement [list.Item].
type fixtureItem struct {
	fixture models.Fixture
	loc     *time.Location
}

func (i fixtureItem) FilterValue() string {
	return i.fixture.Teams.Home.Name + " " + i.fixture.Teams.Away.Name
}

func (i fixtureItem) Title() string {
	title := formatter.Matchup(i.fixture)
	if i.fixture.IsLive() {
		title = styles.err.Render("● ") + title
	}
	return title
}

func (i fixtureItem) Description() string {
	parts := []string{formatter.FormatKickoff(i.fixture, i.loc), formatter.StatusLabel(i.fixture)}
	if venue := formatter.VenueLine(i.fixture); venue != "" {
		parts = append(parts, venue)
	}
	return strings.Join(parts, " • ")
}
